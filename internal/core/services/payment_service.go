package services

import (
	"context"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/core/validation"
)

// PaymentService handles payment collection
type PaymentService struct {
	tx       Transactor
	payments *repositories.PaymentRepository
	tickets  *repositories.TicketRepository
}

// NewPaymentService creates a new payment service
func NewPaymentService(tx Transactor, payments *repositories.PaymentRepository, tickets *repositories.TicketRepository) *PaymentService {
	return &PaymentService{tx: tx, payments: payments, tickets: tickets}
}

// CreatePaymentInput is the body of POST /payments
type CreatePaymentInput struct {
	TicketID    validation.Flex `json:"ticketId"`
	Amount      validation.Flex `json:"amount"`
	PaymentDate validation.Flex `json:"paymentDate"`
	PaymentType string          `json:"paymentType"`
	Note        string          `json:"note" validate:"max=2000"`
}

// PaymentResult is the stored payment and the ticket it settles
type PaymentResult struct {
	Payment *models.Payment
	Ticket  *models.PawnTicket
}

// Create records a payment against an existing ticket
func (s *PaymentService) Create(ctx context.Context, input *CreatePaymentInput) (*PaymentResult, error) {
	v := validation.New("")
	v.Require(input.TicketID, input.Amount)
	v.RequireText(input.PaymentType)
	v.Struct(input)
	ticketID := v.ID("ticket_id", input.TicketID)
	amount := v.Money("amount", input.Amount, validation.Positive)
	paymentType := v.Enum(input.PaymentType, domain.PaymentTypes, domain.ErrInvalidPaymentType)
	paidAt := v.OptionalDate("payment", input.PaymentDate)
	if err := v.Err(); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		TicketID:    ticketID,
		Amount:      amount,
		PaymentDate: nowUTC(),
		PaymentType: paymentType,
		Note:        input.Note,
	}
	if paidAt != nil {
		payment.PaymentDate = *paidAt
	}

	result := &PaymentResult{Payment: payment}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ok, err := s.tickets.Exists(ctx, ticketID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrTicketNotFound
		}
		if err := s.payments.Create(ctx, payment); err != nil {
			return err
		}
		result.Ticket, err = s.tickets.GetByID(ctx, ticketID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
