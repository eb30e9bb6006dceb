package repositories

import (
	"context"
	"errors"

	"pawnledger/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ItemRepository handles pawn item and appraisal data access
type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create creates a new pawn item
func (r *ItemRepository) Create(ctx context.Context, item *models.PawnItem) error {
	return dbFrom(ctx, r.db).Create(item).Error
}

// GetByID gets a pawn item by ID
func (r *ItemRepository) GetByID(ctx context.Context, id uint) (*models.PawnItem, error) {
	var item models.PawnItem
	err := dbFrom(ctx, r.db).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Exists checks if a pawn item exists
func (r *ItemRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&models.PawnItem{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List lists pawn items, newest first, optionally filtered by status
func (r *ItemRepository) List(ctx context.Context, status string, limit int) ([]*models.PawnItem, error) {
	var items []*models.PawnItem
	query := dbFrom(ctx, r.db)
	if status != "" {
		query = query.Where("item_status = ?", status)
	}
	err := query.Order("id DESC").Limit(limit).Find(&items).Error
	return items, err
}

// Updates applies a partial update and reports the affected row count
func (r *ItemRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) (int64, error) {
	result := dbFrom(ctx, r.db).Model(&models.PawnItem{}).Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}

// CreateAppraisal records an appraisal
func (r *ItemRepository) CreateAppraisal(ctx context.Context, appraisal *models.Appraisal) error {
	return dbFrom(ctx, r.db).Create(appraisal).Error
}

// LatestAppraisal returns the most recent appraisal of an item, nil when there is none.
// Ties on appraisal_date go to the higher id.
func (r *ItemRepository) LatestAppraisal(ctx context.Context, itemID uint) (*models.Appraisal, error) {
	var appraisal models.Appraisal
	err := dbFrom(ctx, r.db).
		Where("item_id = ?", itemID).
		Order("appraisal_date DESC").
		Order("id DESC").
		Limit(1).
		Take(&appraisal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appraisal, nil
}
