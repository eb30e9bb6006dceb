package services

import (
	"context"
	"time"

	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/pkg/logger"
)

const statisticsCacheKey = "pawnledger:statistics"

// TopCustomersDefault and TopCustomersMax bound GET /top-customers
const (
	TopCustomersDefault = 5
	TopCustomersMax     = 50
)

// StatisticsService builds the dashboard figures
type StatisticsService struct {
	stats *repositories.StatsRepository
	cache StatsCache
	ttl   time.Duration
	log   *logger.Logger
}

// NewStatisticsService creates a new statistics service. cache may be nil.
func NewStatisticsService(stats *repositories.StatsRepository, cache StatsCache, opts Options, log *logger.Logger) *StatisticsService {
	return &StatisticsService{stats: stats, cache: cache, ttl: opts.StatsCacheTTL, log: log}
}

// Statistics represents dashboard data
type Statistics struct {
	TotalCustomers       int64            `json:"totalCustomers"`
	TotalEmployees       int64            `json:"totalEmployees"`
	TotalTickets         int64            `json:"totalTickets"`
	TicketsByStatus      map[string]int64 `json:"ticketsByStatus"`
	TotalItems           int64            `json:"totalItems"`
	ItemsByStatus        map[string]int64 `json:"itemsByStatus"`
	OutstandingPrincipal float64          `json:"outstandingPrincipal"`
	TotalPayments        float64          `json:"totalPayments"`
	GeneratedAt          time.Time        `json:"generatedAt"`
}

// CustomerRanking represents one entry of the top customers list
type CustomerRanking struct {
	CustomerID  uint    `json:"customerId"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Phone       string  `json:"phone"`
	TicketCount int64   `json:"ticketCount"`
	TotalLoan   float64 `json:"totalLoan"`
}

// GetStatistics runs each count independently. Figures may disagree with
// each other under concurrent writes.
func (s *StatisticsService) GetStatistics(ctx context.Context) (*Statistics, error) {
	if s.cache != nil {
		var cached Statistics
		hit, err := s.cache.Get(ctx, statisticsCacheKey, &cached)
		if err != nil {
			s.log.Warn("statistics cache read failed", "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	data := &Statistics{
		TicketsByStatus: zeroFilled(domain.ContractStatuses),
		ItemsByStatus:   zeroFilled(domain.ItemStatuses),
		GeneratedAt:     nowUTC(),
	}

	var err error
	if data.TotalCustomers, err = s.stats.Count(ctx, "customers"); err != nil {
		return nil, err
	}
	if data.TotalEmployees, err = s.stats.Count(ctx, "employees"); err != nil {
		return nil, err
	}
	if data.TotalTickets, err = s.stats.Count(ctx, "pawn_tickets"); err != nil {
		return nil, err
	}
	if data.TotalItems, err = s.stats.Count(ctx, "pawn_items"); err != nil {
		return nil, err
	}

	ticketRows, err := s.stats.CountBy(ctx, "pawn_tickets", "contract_status")
	if err != nil {
		return nil, err
	}
	for _, row := range ticketRows {
		data.TicketsByStatus[row.Status] = row.Total
	}

	itemRows, err := s.stats.CountBy(ctx, "pawn_items", "item_status")
	if err != nil {
		return nil, err
	}
	for _, row := range itemRows {
		data.ItemsByStatus[row.Status] = row.Total
	}

	principal, err := s.stats.OutstandingPrincipal(ctx, []string{string(domain.ContractActive)})
	if err != nil {
		return nil, err
	}
	data.OutstandingPrincipal = principal.InexactFloat64()

	paid, err := s.stats.TotalPayments(ctx)
	if err != nil {
		return nil, err
	}
	data.TotalPayments = paid.InexactFloat64()

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, statisticsCacheKey, data, s.ttl); err != nil {
			s.log.Warn("statistics cache write failed", "error", err)
		}
	}
	return data, nil
}

// TopCustomers ranks customers by ticket count, then by total loan amount
func (s *StatisticsService) TopCustomers(ctx context.Context, limit int) ([]CustomerRanking, error) {
	rows, err := s.stats.TopCustomers(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]CustomerRanking, 0, len(rows))
	for _, r := range rows {
		out = append(out, CustomerRanking{
			CustomerID:  r.CustomerID,
			FirstName:   r.FirstName,
			LastName:    r.LastName,
			Phone:       r.Phone,
			TicketCount: r.TicketCount,
			TotalLoan:   r.TotalLoan.InexactFloat64(),
		})
	}
	return out, nil
}

func zeroFilled(keys []string) map[string]int64 {
	m := make(map[string]int64, len(keys))
	for _, k := range keys {
		m[k] = 0
	}
	return m
}
