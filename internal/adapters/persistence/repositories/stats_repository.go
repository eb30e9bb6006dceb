package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatusCount is one bucket of a GROUP BY status query
type StatusCount struct {
	Status string
	Total  int64
}

// CustomerRank is one row of the top customers ranking
type CustomerRank struct {
	CustomerID  uint
	FirstName   string
	LastName    string
	Phone       string
	TicketCount int64
	TotalLoan   decimal.Decimal
}

// StatsRepository runs the aggregate queries behind the statistics endpoints.
// Each method is an independent read; none of them opens a transaction.
type StatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Count counts the rows of table
func (r *StatsRepository) Count(ctx context.Context, table string) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Table(table).Count(&count).Error
	return count, err
}

// CountBy groups the rows of table by column
func (r *StatsRepository) CountBy(ctx context.Context, table, column string) ([]StatusCount, error) {
	var rows []StatusCount
	err := dbFrom(ctx, r.db).
		Table(table).
		Select(column + " AS status, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	return rows, err
}

// OutstandingPrincipal sums the loan amount of tickets in the given statuses
func (r *StatsRepository) OutstandingPrincipal(ctx context.Context, statuses []string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := dbFrom(ctx, r.db).
		Table("pawn_tickets").
		Where("contract_status IN ?", statuses).
		Select("SUM(loan_amount)").
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

// TotalPayments sums every payment collected
func (r *StatsRepository) TotalPayments(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := dbFrom(ctx, r.db).
		Table("payments").
		Select("SUM(amount)").
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

// TopCustomers ranks customers by ticket count, then total loan amount
func (r *StatsRepository) TopCustomers(ctx context.Context, limit int) ([]CustomerRank, error) {
	var rows []CustomerRank
	err := dbFrom(ctx, r.db).
		Table("customers AS c").
		Select(`c.id AS customer_id, c.first_name, c.last_name, c.phone,
			COUNT(t.id) AS ticket_count, COALESCE(SUM(t.loan_amount), 0) AS total_loan`).
		Joins("JOIN pawn_tickets t ON t.customer_id = c.id").
		Group("c.id, c.first_name, c.last_name, c.phone").
		Order("ticket_count DESC, total_loan DESC, c.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
