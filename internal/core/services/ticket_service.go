package services

import (
	"context"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/core/validation"

	"github.com/shopspring/decimal"
)

// TicketService handles pawn ticket issuance, maintenance and removal
type TicketService struct {
	tx           Transactor
	tickets      *repositories.TicketRepository
	customers    *repositories.CustomerRepository
	employees    *repositories.EmployeeRepository
	items        *repositories.ItemRepository
	payments     *repositories.PaymentRepository
	dispositions *repositories.DispositionRepository
	cascade      *CascadeEngine
	machine      domain.StateMachine
}

// NewTicketService creates a new ticket service
func NewTicketService(
	tx Transactor,
	tickets *repositories.TicketRepository,
	customers *repositories.CustomerRepository,
	employees *repositories.EmployeeRepository,
	items *repositories.ItemRepository,
	payments *repositories.PaymentRepository,
	dispositions *repositories.DispositionRepository,
	cascade *CascadeEngine,
	opts Options,
) *TicketService {
	return &TicketService{
		tx:           tx,
		tickets:      tickets,
		customers:    customers,
		employees:    employees,
		items:        items,
		payments:     payments,
		dispositions: dispositions,
		cascade:      cascade,
		machine:      domain.StateMachine{Strict: opts.StrictTransitions},
	}
}

// IssueTicketInput is the body of POST /pawn-tickets
type IssueTicketInput struct {
	CustomerID     validation.Flex `json:"customerId"`
	EmployeeID     validation.Flex `json:"employeeId"`
	ItemID         validation.Flex `json:"itemId"`
	LoanAmount     validation.Flex `json:"loanAmount"`
	InterestRate   validation.Flex `json:"interestRate"`
	ContractDate   validation.Flex `json:"contractDate"`
	DueDate        validation.Flex `json:"dueDate"`
	ContractStatus string          `json:"contractStatus"`
}

// Issue creates a ticket after checking, in order, that the customer, the
// employee and the item exist. The first missing row aborts the transaction.
func (s *TicketService) Issue(ctx context.Context, input *IssueTicketInput) (*models.PawnTicket, error) {
	v := validation.New("")
	v.Require(input.CustomerID, input.EmployeeID, input.ItemID, input.LoanAmount,
		input.InterestRate, input.ContractDate, input.DueDate)
	customerID := v.ID("customer_id", input.CustomerID)
	employeeID := v.ID("employee_id", input.EmployeeID)
	itemID := v.ID("item_id", input.ItemID)
	loan := v.Money("loan_amount", input.LoanAmount, validation.Positive)
	rate := v.Rate("interest_rate", input.InterestRate)
	contractDate := v.Date("contract", input.ContractDate)
	dueDate := v.Date("due", input.DueDate)
	v.Check(dueDate.After(contractDate), domain.ErrDueDateBeforeContract)
	status := v.OptionalEnum(input.ContractStatus, domain.ContractStatuses, domain.ErrInvalidContractStatus)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if status == "" {
		status = string(domain.ContractActive)
	}

	ticket := &models.PawnTicket{
		CustomerID:     customerID,
		EmployeeID:     employeeID,
		ItemID:         itemID,
		LoanAmount:     loan,
		InterestRate:   rate,
		ContractDate:   contractDate,
		DueDate:        dueDate,
		ContractStatus: status,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		checks := []struct {
			exists  func(context.Context, uint) (bool, error)
			id      uint
			missing *domain.Error
		}{
			{s.customers.Exists, customerID, domain.ErrCustomerNotFound},
			{s.employees.Exists, employeeID, domain.ErrStaffNotFound},
			{s.items.Exists, itemID, domain.ErrItemNotFound},
		}
		for _, c := range checks {
			ok, err := c.exists(ctx, c.id)
			if err != nil {
				return err
			}
			if !ok {
				return c.missing
			}
		}
		return s.tickets.Create(ctx, ticket)
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// List lists tickets
func (s *TicketService) List(ctx context.Context, status string, limit int) ([]*models.PawnTicket, error) {
	v := validation.New("")
	status = v.OptionalEnum(status, domain.ContractStatuses, domain.ErrInvalidContractStatus)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return s.tickets.List(ctx, repositories.TicketFilter{Status: status, Limit: limit})
}

// TicketDetail is a ticket with everything attached to it
type TicketDetail struct {
	Ticket      *models.PawnTicket
	Appraisal   *models.Appraisal
	Payments    []*models.Payment
	Disposition *models.Disposition
}

// TicketDetailResponse DTO
type TicketDetailResponse struct {
	Ticket      *models.PawnTicketResponse  `json:"ticket"`
	Customer    *models.CustomerResponse    `json:"customer"`
	Item        *models.PawnItemResponse    `json:"item"`
	Employee    *models.EmployeeResponse    `json:"employee"`
	Appraisal   *models.AppraisalResponse   `json:"appraisal"`
	Payments    []*models.PaymentResponse   `json:"payments"`
	TotalPaid   float64                     `json:"totalPaid"`
	Disposition *models.DispositionResponse `json:"disposition"`
}

// ToResponse flattens the detail into its wire form
func (d *TicketDetail) ToResponse() *TicketDetailResponse {
	resp := &TicketDetailResponse{
		Ticket:   d.Ticket.ToResponse(),
		Customer: d.Ticket.Customer.ToResponse(),
		Item:     d.Ticket.Item.ToResponse(),
		Payments: make([]*models.PaymentResponse, 0, len(d.Payments)),
	}
	if d.Ticket.Employee != nil {
		resp.Employee = d.Ticket.Employee.ToResponse()
	}
	if d.Appraisal != nil {
		resp.Appraisal = d.Appraisal.ToResponse()
	}
	if d.Disposition != nil {
		resp.Disposition = d.Disposition.ToResponse()
	}
	total := decimal.Zero
	for _, p := range d.Payments {
		resp.Payments = append(resp.Payments, p.ToResponse())
		total = total.Add(p.Amount)
	}
	resp.TotalPaid = total.InexactFloat64()
	return resp
}

// Detail assembles a ticket with its customer, item, employee, latest
// appraisal, payments and latest disposition from one consistent snapshot
func (s *TicketService) Detail(ctx context.Context, id uint) (*TicketDetail, error) {
	detail := &TicketDetail{}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ticket, err := s.tickets.Detail(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.ErrTicketNotFound)
		}
		detail.Ticket = ticket

		if detail.Appraisal, err = s.items.LatestAppraisal(ctx, ticket.ItemID); err != nil {
			return err
		}
		if detail.Payments, err = s.payments.ListByTicket(ctx, ticket.ID); err != nil {
			return err
		}
		detail.Disposition, err = s.dispositions.LatestForItem(ctx, ticket.ItemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Payments lists the payments of a ticket
func (s *TicketService) Payments(ctx context.Context, id uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ok, err := s.tickets.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrTicketNotFound
		}
		payments, err = s.payments.ListByTicket(ctx, id)
		return err
	})
	return payments, err
}

// PatchTicketInput is the body of PATCH /pawn-tickets/:id
type PatchTicketInput struct {
	ContractStatus validation.Flex `json:"contractStatus"`
	DueDate        validation.Flex `json:"dueDate"`
	InterestRate   validation.Flex `json:"interestRate"`
	LoanAmount     validation.Flex `json:"loanAmount"`
}

// Patch updates the supplied fields of a ticket
func (s *TicketService) Patch(ctx context.Context, id uint, input *PatchTicketInput) (*models.PawnTicket, error) {
	v := validation.New("")
	fields := map[string]interface{}{}
	var status string
	if input.ContractStatus.Set {
		status = v.Enum(input.ContractStatus.Raw, domain.ContractStatuses, domain.ErrInvalidContractStatus)
		fields["contract_status"] = status
	}
	dueDate := v.OptionalDate("due", input.DueDate)
	if dueDate != nil {
		fields["due_date"] = *dueDate
	}
	if input.InterestRate.Set {
		fields["interest_rate"] = v.Rate("interest_rate", input.InterestRate)
	}
	if input.LoanAmount.Set {
		fields["loan_amount"] = v.Money("loan_amount", input.LoanAmount, validation.Positive)
	}
	v.Check(len(fields) > 0, domain.ErrNoFieldsToUpdate)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var ticket *models.PawnTicket
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.tickets.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.ErrTicketNotFound)
		}
		if status != "" {
			if err := s.machine.CheckContract(domain.ContractStatus(current.ContractStatus), domain.ContractStatus(status)); err != nil {
				return err
			}
		}
		if dueDate != nil && !dueDate.After(current.ContractDate) {
			return domain.ErrDueDateBeforeContract
		}
		if _, err := s.tickets.Updates(ctx, id, fields); err != nil {
			return err
		}
		ticket, err = s.tickets.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// Delete removes a ticket and its payments. An unknown id rolls everything
// back and reports ticket_not_found.
func (s *TicketService) Delete(ctx context.Context, id uint) (deletedPayments int64, err error) {
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		counts, err := s.cascade.Delete(ctx, "pawn_tickets", []uint{id})
		if err != nil {
			return err
		}
		if counts["pawn_tickets"] == 0 {
			return domain.ErrTicketNotFound
		}
		deletedPayments = counts["payments"]
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deletedPayments, nil
}
