package config

import (
	"context"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
)

// Seeder handles database seeding
type Seeder struct {
	employees *repositories.EmployeeRepository
}

// NewSeeder creates a new seeder instance
func NewSeeder(employees *repositories.EmployeeRepository) *Seeder {
	return &Seeder{employees: employees}
}

// Run seeds the starter staff accounts and reports how many rows it created.
// It does nothing once any employee exists.
// This is for development/testing only
func (s *Seeder) Run(ctx context.Context) (int, error) {
	count, err := s.employees.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	staff := []*models.Employee{
		{FirstName: "Store", LastName: "Manager", Position: string(domain.PositionManager)},
		{FirstName: "Floor", LastName: "Supervisor", Position: string(domain.PositionSupervisor)},
		{FirstName: "Counter", LastName: "Staff", Position: string(domain.PositionStaff)},
	}
	for _, e := range staff {
		if err := s.employees.Create(ctx, e); err != nil {
			return 0, err
		}
	}
	return len(staff), nil
}
