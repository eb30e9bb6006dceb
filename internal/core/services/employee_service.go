package services

import (
	"context"
	"errors"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/core/validation"

	"gorm.io/gorm"
)

// EmployeeService handles staff records
type EmployeeService struct {
	tx        Transactor
	employees *repositories.EmployeeRepository
	region    string
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(tx Transactor, employees *repositories.EmployeeRepository, opts Options) *EmployeeService {
	return &EmployeeService{tx: tx, employees: employees, region: opts.PhoneRegion}
}

// EmployeeInput is the body of POST /employees and PUT /employees/:id
type EmployeeInput struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Phone     string `json:"phone"`
	Position  string `json:"position"`
}

func (s *EmployeeService) toModel(input *EmployeeInput) (*models.Employee, error) {
	v := validation.New(s.region)
	v.RequireText(input.FirstName, input.LastName)
	v.Struct(input)
	e := &models.Employee{FirstName: input.FirstName, LastName: input.LastName}
	if input.Phone != "" {
		e.Phone = v.Phone("phone", input.Phone)
	}
	e.Position = v.OptionalEnum(input.Position, domain.Positions, domain.ErrInvalidPosition)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if e.Position == "" {
		e.Position = string(domain.PositionStaff)
	}
	return e, nil
}

// Create creates an employee
func (s *EmployeeService) Create(ctx context.Context, input *EmployeeInput) (*models.Employee, error) {
	employee, err := s.toModel(input)
	if err != nil {
		return nil, err
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, translateWrite(err)
	}
	return employee, nil
}

// GetByID gets an employee
func (s *EmployeeService) GetByID(ctx context.Context, id uint) (*models.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrEmployeeNotFound)
	}
	return employee, nil
}

// List lists employees
func (s *EmployeeService) List(ctx context.Context, limit int) ([]*models.Employee, error) {
	return s.employees.List(ctx, limit)
}

// Update replaces every field of an employee
func (s *EmployeeService) Update(ctx context.Context, id uint, input *EmployeeInput) (*models.Employee, error) {
	next, err := s.toModel(input)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, id, map[string]interface{}{
		"first_name": next.FirstName,
		"last_name":  next.LastName,
		"phone":      next.Phone,
		"position":   next.Position,
	})
}

// PatchEmployeeInput is the body of PATCH /employees/:id
type PatchEmployeeInput struct {
	FirstName validation.Flex `json:"firstName"`
	LastName  validation.Flex `json:"lastName"`
	Phone     validation.Flex `json:"phone"`
	Position  validation.Flex `json:"position"`
}

// Patch updates the supplied fields of an employee
func (s *EmployeeService) Patch(ctx context.Context, id uint, input *PatchEmployeeInput) (*models.Employee, error) {
	v := validation.New(s.region)
	fields := map[string]interface{}{}
	if input.FirstName.Set {
		v.Require(input.FirstName)
		fields["first_name"] = input.FirstName.String()
	}
	if input.LastName.Set {
		v.Require(input.LastName)
		fields["last_name"] = input.LastName.String()
	}
	if input.Phone.Set {
		phone := ""
		if !input.Phone.Blank() {
			phone = v.Phone("phone", input.Phone.Raw)
		}
		fields["phone"] = phone
	}
	if input.Position.Set {
		fields["position"] = v.Enum(input.Position.Raw, domain.Positions, domain.ErrInvalidPosition)
	}
	v.Check(len(fields) > 0, domain.ErrNoFieldsToUpdate)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return s.apply(ctx, id, fields)
}

func (s *EmployeeService) apply(ctx context.Context, id uint, fields map[string]interface{}) (*models.Employee, error) {
	var employee *models.Employee
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ok, err := s.employees.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrEmployeeNotFound
		}
		if _, err := s.employees.Updates(ctx, id, fields); err != nil {
			return translateWrite(err)
		}
		employee, err = s.employees.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

// Delete removes an employee nobody references. Appraisals and tickets
// keep their employee, so a referenced employee reports employee_in_use.
func (s *EmployeeService) Delete(ctx context.Context, id uint) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		used, err := s.employees.IsReferenced(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return domain.ErrEmployeeInUse
		}
		n, err := s.employees.Delete(ctx, id)
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domain.ErrEmployeeInUse.Wrap(err)
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrEmployeeNotFound
		}
		return nil
	})
}
