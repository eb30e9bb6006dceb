package repositories

import (
	"context"

	"pawnledger/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// PaymentRepository handles payment data access
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create creates a new payment
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return dbFrom(ctx, r.db).Create(payment).Error
}

// ListByTicket lists the payments of a ticket in collection order
func (r *PaymentRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := dbFrom(ctx, r.db).
		Where("ticket_id = ?", ticketID).
		Order("payment_date ASC").
		Order("id ASC").
		Find(&payments).Error
	return payments, err
}
