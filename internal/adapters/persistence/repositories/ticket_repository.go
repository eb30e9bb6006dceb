package repositories

import (
	"context"
	"time"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TicketFilter narrows ticket listings
type TicketFilter struct {
	CustomerID uint
	Status     string
	Limit      int
}

// TicketExportRow is one line of the ticket export
type TicketExportRow struct {
	ID             uint
	FirstName      string
	LastName       string
	ItemType       string
	LoanAmount     decimal.Decimal
	InterestRate   decimal.Decimal
	ContractDate   time.Time
	DueDate        time.Time
	ContractStatus string
	TotalPaid      decimal.Decimal
}

// TicketRepository handles pawn ticket data access
type TicketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create creates a new ticket
func (r *TicketRepository) Create(ctx context.Context, ticket *models.PawnTicket) error {
	return dbFrom(ctx, r.db).Create(ticket).Error
}

// GetByID gets a ticket by ID
func (r *TicketRepository) GetByID(ctx context.Context, id uint) (*models.PawnTicket, error) {
	var ticket models.PawnTicket
	err := dbFrom(ctx, r.db).Where("id = ?", id).First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Exists checks if a ticket exists
func (r *TicketRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&models.PawnTicket{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List lists tickets, newest first
func (r *TicketRepository) List(ctx context.Context, filter TicketFilter) ([]*models.PawnTicket, error) {
	var tickets []*models.PawnTicket
	query := dbFrom(ctx, r.db)
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("contract_status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	err := query.Order("id DESC").Find(&tickets).Error
	return tickets, err
}

// Updates applies a partial update and reports the affected row count
func (r *TicketRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) (int64, error) {
	result := dbFrom(ctx, r.db).Model(&models.PawnTicket{}).Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}

// Detail loads a ticket together with its customer and item (both required)
// and its employee (optional). A ticket whose customer or item row is gone
// is reported as gorm.ErrRecordNotFound.
func (r *TicketRepository) Detail(ctx context.Context, id uint) (*models.PawnTicket, error) {
	var ticket models.PawnTicket
	err := dbFrom(ctx, r.db).
		InnerJoins("Customer").
		InnerJoins("Item").
		Joins("Employee").
		Where("pawn_tickets.id = ?", id).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	if ticket.Employee != nil && ticket.Employee.ID == 0 {
		ticket.Employee = nil
	}
	return &ticket, nil
}

// ExportRows returns every ticket with its customer, item and collected total
func (r *TicketRepository) ExportRows(ctx context.Context) ([]TicketExportRow, error) {
	var rows []TicketExportRow
	err := dbFrom(ctx, r.db).
		Table("pawn_tickets AS t").
		Select(`t.id, c.first_name, c.last_name, i.item_type, t.loan_amount, t.interest_rate,
			t.contract_date, t.due_date, t.contract_status,
			COALESCE((SELECT SUM(p.amount) FROM payments p WHERE p.ticket_id = t.id), 0) AS total_paid`).
		Joins("JOIN customers c ON c.id = t.customer_id").
		Joins("JOIN pawn_items i ON i.id = t.item_id").
		Order("t.id ASC").
		Scan(&rows).Error
	return rows, err
}

// ExpireOverdue marks open tickets due before now as EXPIRED
func (r *TicketRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := dbFrom(ctx, r.db).Model(&models.PawnTicket{}).
		Where("contract_status IN ?", []string{string(domain.ContractActive), string(domain.ContractRolledOver)}).
		Where("due_date < ?", now).
		Update("contract_status", string(domain.ContractExpired))
	return result.RowsAffected, result.Error
}
