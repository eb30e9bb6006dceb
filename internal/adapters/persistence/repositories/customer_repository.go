package repositories

import (
	"context"

	"pawnledger/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// CustomerRepository handles customer data access
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create creates a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return dbFrom(ctx, r.db).Create(customer).Error
}

// GetByID gets a customer by ID
func (r *CustomerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := dbFrom(ctx, r.db).Where("id = ?", id).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Exists checks if a customer exists
func (r *CustomerRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&models.Customer{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ExistsByNationalID checks if a national ID is taken by a customer other than excludeID
func (r *CustomerRepository) ExistsByNationalID(ctx context.Context, nationalID string, excludeID uint) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&models.Customer{}).
		Where("national_id = ? AND id <> ?", nationalID, excludeID).
		Count(&count).Error
	return count > 0, err
}

// ExistsByPhone checks if a normalized phone is taken by a customer other than excludeID
func (r *CustomerRepository) ExistsByPhone(ctx context.Context, phone string, excludeID uint) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&models.Customer{}).
		Where("phone = ? AND id <> ?", phone, excludeID).
		Count(&count).Error
	return count > 0, err
}

// List lists customers, newest first
func (r *CustomerRepository) List(ctx context.Context, limit int) ([]*models.Customer, error) {
	var customers []*models.Customer
	err := dbFrom(ctx, r.db).
		Order("id DESC").
		Limit(limit).
		Find(&customers).Error
	return customers, err
}

// Updates applies a partial update and reports the affected row count
func (r *CustomerRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) (int64, error) {
	result := dbFrom(ctx, r.db).Model(&models.Customer{}).Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}
