package services

import (
	"context"
	"errors"
	"time"

	"pawnledger/internal/core/domain"

	"gorm.io/gorm"
)

// Transactor runs fn inside one database transaction carried by ctx
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// StatsCache stores the statistics snapshot between requests.
// Get reports false on a miss.
type StatsCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Options carries the behaviour switches read from configuration
type Options struct {
	PhoneRegion       string
	StrictTransitions bool
	PurgeItems        bool
	StatsCacheTTL     time.Duration
}

// notFoundAs maps gorm's missing-row error to target
func notFoundAs(err error, target *domain.Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

// translateWrite maps constraint violations raised by the store to conflicts
func translateWrite(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicateEntry.Wrap(err)
	default:
		return err
	}
}

// nowUTC is the clock used for defaulted dates
var nowUTC = func() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
