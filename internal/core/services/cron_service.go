package services

import (
	"pawnledger/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CronService owns the background scheduler
type CronService struct {
	cron    *cron.Cron
	log     *logger.Logger
	started bool
}

// NewCronService creates a scheduler accepting six-field specs (seconds first)
func NewCronService(log *logger.Logger) *CronService {
	return &CronService{
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DiscardLogger))),
		log:  log,
	}
}

// ScheduleExpiry runs the expiry sweep on spec. An empty spec leaves it disabled.
func (s *CronService) ScheduleExpiry(spec string, expiry *ExpiryService) error {
	if spec == "" {
		return nil
	}
	if _, err := expiry.Schedule(s.cron, spec); err != nil {
		return err
	}
	s.log.Info("expiry sweep scheduled", "spec", spec)
	return nil
}

// Entries reports how many jobs are registered
func (s *CronService) Entries() int {
	return len(s.cron.Entries())
}

// Start starts the scheduler in its own goroutine when at least one job is
// registered. It reports whether the scheduler is running.
func (s *CronService) Start() bool {
	if s.started {
		return true
	}
	if s.Entries() == 0 {
		s.log.Debug("no background jobs scheduled, scheduler not started")
		return false
	}
	s.cron.Start()
	s.started = true
	return true
}

// Stop stops a started scheduler and waits for running jobs
func (s *CronService) Stop() {
	if !s.started {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.started = false
}

