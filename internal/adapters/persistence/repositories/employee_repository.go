package repositories

import (
	"context"

	"pawnledger/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// EmployeeRepository handles employee data access
type EmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create creates a new employee
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return dbFrom(ctx, r.db).Create(employee).Error
}

// GetByID gets an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	err := dbFrom(ctx, r.db).Where("id = ?", id).First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// Exists checks if an employee exists
func (r *EmployeeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&models.Employee{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List lists employees ordered by ID
func (r *EmployeeRepository) List(ctx context.Context, limit int) ([]*models.Employee, error) {
	var employees []*models.Employee
	err := dbFrom(ctx, r.db).
		Order("id ASC").
		Limit(limit).
		Find(&employees).Error
	return employees, err
}

// Count counts all employees
func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&models.Employee{}).Count(&count).Error
	return count, err
}

// Updates applies a partial update and reports the affected row count
func (r *EmployeeRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) (int64, error) {
	result := dbFrom(ctx, r.db).Model(&models.Employee{}).Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}

// IsReferenced reports whether any appraisal or ticket points at the employee
func (r *EmployeeRepository) IsReferenced(ctx context.Context, id uint) (bool, error) {
	db := dbFrom(ctx, r.db)

	var appraisals int64
	if err := db.Model(&models.Appraisal{}).Where("employee_id = ?", id).Count(&appraisals).Error; err != nil {
		return false, err
	}
	if appraisals > 0 {
		return true, nil
	}

	var tickets int64
	if err := db.Model(&models.PawnTicket{}).Where("employee_id = ?", id).Count(&tickets).Error; err != nil {
		return false, err
	}
	return tickets > 0, nil
}

// Delete hard deletes an employee and reports the affected row count
func (r *EmployeeRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := dbFrom(ctx, r.db).Where("id = ?", id).Delete(&models.Employee{})
	return result.RowsAffected, result.Error
}
