package services

import (
	"context"
	"errors"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/core/validation"
)

// CustomerService handles customer intake, maintenance and removal
type CustomerService struct {
	tx         Transactor
	customers  *repositories.CustomerRepository
	tickets    *repositories.TicketRepository
	cascade    *CascadeEngine
	region     string
	purgeItems bool
}

// NewCustomerService creates a new customer service
func NewCustomerService(tx Transactor, customers *repositories.CustomerRepository, tickets *repositories.TicketRepository, cascade *CascadeEngine, opts Options) *CustomerService {
	return &CustomerService{
		tx:         tx,
		customers:  customers,
		tickets:    tickets,
		cascade:    cascade,
		region:     opts.PhoneRegion,
		purgeItems: opts.PurgeItems,
	}
}

// CreateCustomerInput is the body of POST /customers
type CreateCustomerInput struct {
	FirstName  string          `json:"firstName" validate:"max=100"`
	LastName   string          `json:"lastName" validate:"max=100"`
	NationalID string          `json:"nationalId" validate:"numeric,len=13"`
	Phone      string          `json:"phone"`
	Address    string          `json:"address" validate:"max=500"`
	BirthDate  validation.Flex `json:"birthDate"`
	KYCStatus  string          `json:"kycStatus"`
}

// Create registers a customer. National ID and normalized phone must both be unused.
func (s *CustomerService) Create(ctx context.Context, input *CreateCustomerInput) (*models.Customer, error) {
	v := validation.New(s.region)
	v.RequireText(input.FirstName, input.LastName, input.NationalID, input.Phone)
	v.Struct(input)
	phone := v.Phone("phone", input.Phone)
	birthDate := v.OptionalDate("birth", input.BirthDate)
	kyc := v.OptionalEnum(input.KYCStatus, domain.KYCStatuses, domain.ErrInvalidKYCStatus)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if kyc == "" {
		kyc = string(domain.KYCPending)
	}

	customer := &models.Customer{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		NationalID: input.NationalID,
		Phone:      phone,
		Address:    input.Address,
		BirthDate:  birthDate,
		KYCStatus:  kyc,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkUnique(ctx, 0, customer.NationalID, customer.Phone); err != nil {
			return err
		}
		return translateWrite(s.customers.Create(ctx, customer))
	})
	if err != nil {
		return nil, s.attributeDuplicate(ctx, 0, customer.NationalID, customer.Phone, err)
	}
	return customer, nil
}

// GetByID gets a customer
func (s *CustomerService) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrCustomerNotFound)
	}
	return customer, nil
}

// List lists customers
func (s *CustomerService) List(ctx context.Context, limit int) ([]*models.Customer, error) {
	return s.customers.List(ctx, limit)
}

// Tickets lists the tickets of a customer
func (s *CustomerService) Tickets(ctx context.Context, id uint) ([]*models.PawnTicket, error) {
	var tickets []*models.PawnTicket
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requireCustomer(ctx, id); err != nil {
			return err
		}
		var err error
		tickets, err = s.tickets.List(ctx, repositories.TicketFilter{CustomerID: id})
		return err
	})
	return tickets, err
}

// PatchCustomerInput is the body of PATCH /customers/:id
type PatchCustomerInput struct {
	FirstName  validation.Flex `json:"firstName"`
	LastName   validation.Flex `json:"lastName"`
	NationalID validation.Flex `json:"nationalId"`
	Phone      validation.Flex `json:"phone"`
	Address    validation.Flex `json:"address"`
	BirthDate  validation.Flex `json:"birthDate"`
	KYCStatus  validation.Flex `json:"kycStatus"`
}

type customerPatch struct {
	FirstName  string `json:"firstName" validate:"omitempty,max=100"`
	LastName   string `json:"lastName" validate:"omitempty,max=100"`
	NationalID string `json:"nationalId" validate:"omitempty,numeric,len=13"`
	Address    string `json:"address" validate:"max=500"`
}

// Patch updates the supplied fields of a customer
func (s *CustomerService) Patch(ctx context.Context, id uint, input *PatchCustomerInput) (*models.Customer, error) {
	v := validation.New(s.region)
	fields := map[string]interface{}{}
	for _, f := range []struct {
		column string
		value  validation.Flex
	}{
		{"first_name", input.FirstName},
		{"last_name", input.LastName},
		{"national_id", input.NationalID},
	} {
		if f.value.Set {
			v.Require(f.value)
			fields[f.column] = f.value.String()
		}
	}
	v.Struct(&customerPatch{
		FirstName:  input.FirstName.String(),
		LastName:   input.LastName.String(),
		NationalID: input.NationalID.String(),
		Address:    input.Address.String(),
	})
	if input.Address.Set {
		fields["address"] = input.Address.String()
	}
	var phone string
	if input.Phone.Set {
		phone = v.Phone("phone", input.Phone.Raw)
		fields["phone"] = phone
	}
	if input.BirthDate.Set {
		fields["birth_date"] = v.OptionalDate("birth", input.BirthDate)
	}
	if input.KYCStatus.Set {
		fields["kyc_status"] = v.Enum(input.KYCStatus.Raw, domain.KYCStatuses, domain.ErrInvalidKYCStatus)
	}
	v.Check(len(fields) > 0, domain.ErrNoFieldsToUpdate)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var customer *models.Customer
	nationalID, _ := fields["national_id"].(string)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requireCustomer(ctx, id); err != nil {
			return err
		}
		if err := s.checkUnique(ctx, id, nationalID, phone); err != nil {
			return err
		}
		if _, err := s.customers.Updates(ctx, id, fields); err != nil {
			return translateWrite(err)
		}
		var err error
		customer, err = s.customers.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.attributeDuplicate(ctx, id, nationalID, phone, err)
	}
	return customer, nil
}

// CustomerDeleteResult reports what a customer delete removed
type CustomerDeleteResult struct {
	DeletedTickets  int64 `json:"deletedTickets"`
	DeletedPayments int64 `json:"deletedPayments"`
	DeletedItems    int64 `json:"deletedItems,omitempty"`
}

// DeleteTickets removes every ticket of a customer together with their
// payments. The customer row stays; a customer with no tickets succeeds.
func (s *CustomerService) DeleteTickets(ctx context.Context, id uint) (*CustomerDeleteResult, error) {
	result := &CustomerDeleteResult{}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requireCustomer(ctx, id); err != nil {
			return err
		}
		ticketIDs, err := s.cascade.Collect(ctx, "pawn_tickets", "id", "customer_id", []uint{id})
		if err != nil {
			return err
		}
		counts, err := s.cascade.Delete(ctx, "pawn_tickets", ticketIDs)
		if err != nil {
			return err
		}
		result.DeletedTickets = counts["pawn_tickets"]
		result.DeletedPayments = counts["payments"]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a customer, its tickets and their payments. Items pledged
// on those tickets are kept unless item purging is enabled, in which case
// items no other ticket references go too, with their appraisals and
// dispositions.
func (s *CustomerService) Delete(ctx context.Context, id uint) (*CustomerDeleteResult, error) {
	result := &CustomerDeleteResult{}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var itemIDs []uint
		if s.purgeItems {
			ticketIDs, err := s.cascade.Collect(ctx, "pawn_tickets", "id", "customer_id", []uint{id})
			if err != nil {
				return err
			}
			if itemIDs, err = s.cascade.Collect(ctx, "pawn_tickets", "item_id", "id", ticketIDs); err != nil {
				return err
			}
		}

		counts, err := s.cascade.Delete(ctx, "customers", []uint{id})
		if err != nil {
			return err
		}
		if counts["customers"] == 0 {
			return domain.ErrCustomerNotFound
		}

		if len(itemIDs) > 0 {
			stillPledged, err := s.cascade.Collect(ctx, "pawn_tickets", "item_id", "item_id", itemIDs)
			if err != nil {
				return err
			}
			itemCounts, err := s.cascade.Delete(ctx, "pawn_items", subtract(itemIDs, stillPledged))
			if err != nil {
				return err
			}
			counts.Merge(itemCounts)
		}

		result.DeletedTickets = counts["pawn_tickets"]
		result.DeletedPayments = counts["payments"]
		result.DeletedItems = counts["pawn_items"]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *CustomerService) requireCustomer(ctx context.Context, id uint) error {
	ok, err := s.customers.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// checkUnique rejects a national ID or phone held by another customer; empty values are skipped
func (s *CustomerService) checkUnique(ctx context.Context, selfID uint, nationalID, phone string) error {
	if nationalID != "" {
		taken, err := s.customers.ExistsByNationalID(ctx, nationalID, selfID)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrDuplicateNationalID
		}
	}
	if phone != "" {
		taken, err := s.customers.ExistsByPhone(ctx, phone, selfID)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrDuplicatePhone
		}
	}
	return nil
}

// attributeDuplicate names the field behind a unique-index violation that
// slipped past checkUnique because a concurrent write committed first. It
// runs after the transaction has rolled back so the other row is visible.
// When neither field matches, err is returned unchanged.
func (s *CustomerService) attributeDuplicate(ctx context.Context, selfID uint, nationalID, phone string, err error) error {
	if !errors.Is(err, domain.ErrDuplicateEntry) {
		return err
	}
	cause := s.checkUnique(ctx, selfID, nationalID, phone)
	if errors.Is(cause, domain.ErrDuplicateNationalID) || errors.Is(cause, domain.ErrDuplicatePhone) {
		return cause
	}
	return err
}

func subtract(ids, remove []uint) []uint {
	drop := make(map[uint]struct{}, len(remove))
	for _, id := range remove {
		drop[id] = struct{}{}
	}
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := drop[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
