package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CascadeRepository runs the set-based reads and deletes the cascade engine
// issues. Table and column names come from the engine's static rule table.
type CascadeRepository struct {
	db *gorm.DB
}

// NewCascadeRepository creates a new cascade repository
func NewCascadeRepository(db *gorm.DB) *CascadeRepository {
	return &CascadeRepository{db: db}
}

// Pluck returns table.selectCol for every row whose whereCol is in ids
func (r *CascadeRepository) Pluck(ctx context.Context, table, selectCol, whereCol string, ids []uint) ([]uint, error) {
	out := []uint{}
	if len(ids) == 0 {
		return out, nil
	}
	err := dbFrom(ctx, r.db).
		Table(table).
		Where(inClause(whereCol, ids)).
		Distinct().
		Pluck(selectCol, &out).Error
	return out, err
}

// DeleteIn deletes every row of table whose column is in ids
func (r *CascadeRepository) DeleteIn(ctx context.Context, table, column string, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := dbFrom(ctx, r.db).Exec("DELETE FROM ? WHERE ?", clause.Table{Name: table}, inClause(column, ids))
	return result.RowsAffected, result.Error
}

func inClause(column string, ids []uint) clause.IN {
	values := make([]interface{}, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return clause.IN{Column: clause.Column{Name: column}, Values: values}
}
