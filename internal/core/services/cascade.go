package services

import (
	"context"

	"pawnledger/internal/adapters/persistence/repositories"
)

// CascadeRule declares that rows of Child reference Parent.id through FKColumn
type CascadeRule struct {
	Parent   string
	Child    string
	FKColumn string
}

// CascadeRules is the dependency graph used by hard deletes
var CascadeRules = []CascadeRule{
	{Parent: "pawn_tickets", Child: "payments", FKColumn: "ticket_id"},
	{Parent: "customers", Child: "pawn_tickets", FKColumn: "customer_id"},
	{Parent: "pawn_items", Child: "appraisals", FKColumn: "item_id"},
	{Parent: "pawn_items", Child: "dispositions", FKColumn: "item_id"},
}

// DeleteCounts reports the rows removed per table
type DeleteCounts map[string]int64

// CascadeEngine deletes rows together with their dependants, leaf first.
// It must run inside the caller's transaction.
type CascadeEngine struct {
	rows  *repositories.CascadeRepository
	rules []CascadeRule
}

// NewCascadeEngine creates a cascade engine over rules
func NewCascadeEngine(rows *repositories.CascadeRepository, rules []CascadeRule) *CascadeEngine {
	return &CascadeEngine{rows: rows, rules: rules}
}

// Delete removes the rows of table with the given ids and everything that
// depends on them
func (e *CascadeEngine) Delete(ctx context.Context, table string, ids []uint) (DeleteCounts, error) {
	counts := DeleteCounts{}
	if err := e.delete(ctx, table, ids, counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (e *CascadeEngine) delete(ctx context.Context, table string, ids []uint, counts DeleteCounts) error {
	if _, seen := counts[table]; !seen {
		counts[table] = 0
	}
	if len(ids) == 0 {
		return nil
	}

	for _, rule := range e.rules {
		if rule.Parent != table {
			continue
		}
		childIDs, err := e.rows.Pluck(ctx, rule.Child, "id", rule.FKColumn, ids)
		if err != nil {
			return err
		}
		if err := e.delete(ctx, rule.Child, childIDs, counts); err != nil {
			return err
		}
	}

	n, err := e.rows.DeleteIn(ctx, table, "id", ids)
	if err != nil {
		return err
	}
	counts[table] += n
	return nil
}

// Collect returns table.selectCol for rows whose whereCol is in ids
func (e *CascadeEngine) Collect(ctx context.Context, table, selectCol, whereCol string, ids []uint) ([]uint, error) {
	return e.rows.Pluck(ctx, table, selectCol, whereCol, ids)
}

// Merge adds other into c
func (c DeleteCounts) Merge(other DeleteCounts) {
	for table, n := range other {
		c[table] += n
	}
}
