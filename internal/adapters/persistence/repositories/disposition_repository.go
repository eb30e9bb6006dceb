package repositories

import (
	"context"
	"errors"

	"pawnledger/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// DispositionRepository handles disposition data access
type DispositionRepository struct {
	db *gorm.DB
}

// NewDispositionRepository creates a new disposition repository
func NewDispositionRepository(db *gorm.DB) *DispositionRepository {
	return &DispositionRepository{db: db}
}

// Create creates a new disposition
func (r *DispositionRepository) Create(ctx context.Context, disposition *models.Disposition) error {
	return dbFrom(ctx, r.db).Create(disposition).Error
}

// GetByID gets a disposition by ID
func (r *DispositionRepository) GetByID(ctx context.Context, id uint) (*models.Disposition, error) {
	var disposition models.Disposition
	err := dbFrom(ctx, r.db).Where("id = ?", id).First(&disposition).Error
	if err != nil {
		return nil, err
	}
	return &disposition, nil
}

// List lists dispositions, most recent sale first, optionally for one item
func (r *DispositionRepository) List(ctx context.Context, itemID uint, limit int) ([]*models.Disposition, error) {
	var dispositions []*models.Disposition
	query := dbFrom(ctx, r.db)
	if itemID != 0 {
		query = query.Where("item_id = ?", itemID)
	}
	err := query.
		Order("sale_date DESC").
		Order("id DESC").
		Limit(limit).
		Find(&dispositions).Error
	return dispositions, err
}

// LatestForItem returns the most recent disposition of an item, nil when there is none
func (r *DispositionRepository) LatestForItem(ctx context.Context, itemID uint) (*models.Disposition, error) {
	var disposition models.Disposition
	err := dbFrom(ctx, r.db).
		Where("item_id = ?", itemID).
		Order("sale_date DESC").
		Order("id DESC").
		Limit(1).
		Take(&disposition).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &disposition, nil
}

// Save writes every column of an existing disposition
func (r *DispositionRepository) Save(ctx context.Context, disposition *models.Disposition) error {
	return dbFrom(ctx, r.db).Save(disposition).Error
}

// Delete hard deletes a disposition and reports the affected row count
func (r *DispositionRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := dbFrom(ctx, r.db).Where("id = ?", id).Delete(&models.Disposition{})
	return result.RowsAffected, result.Error
}
