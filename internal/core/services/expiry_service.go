package services

import (
	"context"
	"fmt"
	"time"

	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// ExpiryService moves overdue open tickets to EXPIRED
type ExpiryService struct {
	tickets *repositories.TicketRepository
	log     *logger.Logger
	now     func() time.Time
}

// NewExpiryService creates a new expiry service
func NewExpiryService(tickets *repositories.TicketRepository, log *logger.Logger) *ExpiryService {
	return &ExpiryService{tickets: tickets, log: log.With("job", "expiry_sweep"), now: nowUTC}
}

// Run expires every ACTIVE or ROLLED_OVER ticket whose due date has passed
func (s *ExpiryService) Run(ctx context.Context) (int64, error) {
	n, err := s.tickets.ExpireOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n == 0 {
		s.log.Debug("no overdue tickets")
		return 0, nil
	}
	s.log.Info("expired overdue tickets", "count", n)
	return n, nil
}

// Schedule registers Run on c using a six-field cron spec (seconds first)
func (s *ExpiryService) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		if _, err := s.Run(context.Background()); err != nil {
			s.log.Error("expiry sweep failed", "error", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("schedule expiry sweep %q: %w", spec, err)
	}
	return id, nil
}
