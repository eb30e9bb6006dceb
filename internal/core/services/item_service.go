package services

import (
	"context"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/core/validation"
)

// ItemService handles pawn item intake and maintenance
type ItemService struct {
	tx        Transactor
	items     *repositories.ItemRepository
	employees *repositories.EmployeeRepository
	machine   domain.StateMachine
}

// NewItemService creates a new item service
func NewItemService(tx Transactor, items *repositories.ItemRepository, employees *repositories.EmployeeRepository, opts Options) *ItemService {
	return &ItemService{
		tx:        tx,
		items:     items,
		employees: employees,
		machine:   domain.StateMachine{Strict: opts.StrictTransitions},
	}
}

// IntakeItemInput is the body of POST /pawn-items
type IntakeItemInput struct {
	ItemType       string          `json:"itemType" validate:"max=50"`
	Description    string          `json:"description" validate:"max=2000"`
	Brand          string          `json:"brand" validate:"max=100"`
	Model          string          `json:"model" validate:"max=100"`
	SerialNumber   string          `json:"serialNumber" validate:"max=100"`
	Weight         validation.Flex `json:"weight"`
	AppraisedValue validation.Flex `json:"appraisedValue"`
	ItemStatus     string          `json:"itemStatus"`
	EmployeeID     validation.Flex `json:"employeeId"`
	AppraisalValue validation.Flex `json:"appraisalValue"`
	AppraisalDate  validation.Flex `json:"appraisalDate"`
	AppraisalNote  string          `json:"appraisalNote" validate:"max=2000"`
}

// IntakeResult holds the created item and, for staffed intake, its appraisal
type IntakeResult struct {
	Item      *models.PawnItem
	Appraisal *models.Appraisal
}

// Intake creates an item. With an employee the item and its appraisal are
// written in one transaction; a missing employee leaves no rows behind.
func (s *ItemService) Intake(ctx context.Context, input *IntakeItemInput) (*IntakeResult, error) {
	v := validation.New("")
	v.RequireText(input.ItemType)
	v.Require(input.AppraisedValue)
	v.Struct(input)
	value := v.Money("appraised_value", input.AppraisedValue, validation.NonNegative)
	weight := v.OptionalMoney("weight", input.Weight, validation.NonNegative)
	status := v.OptionalEnum(input.ItemStatus, domain.ItemStatuses, domain.ErrInvalidStatus)
	employeeID := v.OptionalID("employee_id", input.EmployeeID)
	appraisalValue := v.OptionalMoney("appraisal_value", input.AppraisalValue, validation.NonNegative)
	appraisalDate := v.OptionalDate("appraisal", input.AppraisalDate)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if status == "" {
		status = string(domain.ItemInStorage)
	}

	item := &models.PawnItem{
		ItemType:       input.ItemType,
		Description:    input.Description,
		Brand:          input.Brand,
		Model:          input.Model,
		SerialNumber:   input.SerialNumber,
		Weight:         weight,
		AppraisedValue: value,
		ItemStatus:     status,
	}

	if employeeID == nil {
		if err := s.items.Create(ctx, item); err != nil {
			return nil, err
		}
		return &IntakeResult{Item: item}, nil
	}

	appraisal := &models.Appraisal{
		EmployeeID:     *employeeID,
		AppraisedValue: value,
		AppraisalDate:  nowUTC(),
		Note:           input.AppraisalNote,
	}
	if appraisalValue != nil {
		appraisal.AppraisedValue = *appraisalValue
	}
	if appraisalDate != nil {
		appraisal.AppraisalDate = *appraisalDate
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.employees.Exists(ctx, *employeeID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrStaffNotFound
		}
		if err := s.items.Create(ctx, item); err != nil {
			return err
		}
		appraisal.ItemID = &item.ID
		return s.items.CreateAppraisal(ctx, appraisal)
	})
	if err != nil {
		return nil, err
	}
	return &IntakeResult{Item: item, Appraisal: appraisal}, nil
}

// GetByID gets an item
func (s *ItemService) GetByID(ctx context.Context, id uint) (*models.PawnItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrItemNotFound)
	}
	return item, nil
}

// List lists items, optionally filtered by status
func (s *ItemService) List(ctx context.Context, status string, limit int) ([]*models.PawnItem, error) {
	v := validation.New("")
	status = v.OptionalEnum(status, domain.ItemStatuses, domain.ErrInvalidStatus)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return s.items.List(ctx, status, limit)
}

// PatchItemInput is the body of PATCH /pawn-items/:id; absent keys are left untouched
type PatchItemInput struct {
	ItemStatus     validation.Flex `json:"itemStatus"`
	AppraisedValue validation.Flex `json:"appraisedValue"`
	Description    validation.Flex `json:"description"`
	Brand          validation.Flex `json:"brand"`
	Model          validation.Flex `json:"model"`
	SerialNumber   validation.Flex `json:"serialNumber"`
	Weight         validation.Flex `json:"weight"`
}

// Patch updates the supplied fields of an item. Status changes go through
// the item state machine.
func (s *ItemService) Patch(ctx context.Context, id uint, input *PatchItemInput) (*models.PawnItem, error) {
	v := validation.New("")
	fields := map[string]interface{}{}
	var status string
	if input.ItemStatus.Set {
		status = v.Enum(input.ItemStatus.Raw, domain.ItemStatuses, domain.ErrInvalidStatus)
		fields["item_status"] = status
	}
	if input.AppraisedValue.Set {
		fields["appraised_value"] = v.Money("appraised_value", input.AppraisedValue, validation.NonNegative)
	}
	if input.Weight.Set {
		fields["weight"] = v.OptionalMoney("weight", input.Weight, validation.NonNegative)
	}
	for _, f := range []struct {
		column string
		value  validation.Flex
	}{
		{"description", input.Description},
		{"brand", input.Brand},
		{"model", input.Model},
		{"serial_number", input.SerialNumber},
	} {
		if f.value.Set {
			fields[f.column] = f.value.String()
		}
	}
	v.Check(len(fields) > 0, domain.ErrNoFieldsToUpdate)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var item *models.PawnItem
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.items.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.ErrItemNotFound)
		}
		if status != "" {
			if err := s.machine.CheckItem(domain.ItemStatus(current.ItemStatus), domain.ItemStatus(status)); err != nil {
				return err
			}
		}
		if _, err := s.items.Updates(ctx, id, fields); err != nil {
			return err
		}
		item, err = s.items.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}
