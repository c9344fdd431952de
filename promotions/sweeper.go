// Package promotions owns the recurring promotion-expiry sweep. The sweep
// is started at boot and stopped at shutdown by the process's lifecycle.
package promotions

import (
	"context"
	"time"

	"dishdash-api/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Sweeper struct {
	db       *gorm.DB
	interval time.Duration
	logger   zerolog.Logger
}

func NewSweeper(db *gorm.DB, interval time.Duration, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		db:       db,
		interval: interval,
		logger:   logger.With().Str("component", "promotion-sweeper").Logger(),
	}
}

// Run sweeps on a fixed interval until ctx is cancelled. Each tick runs to
// completion before the next is taken, so sweeps never overlap.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("promotion sweeper started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("promotion sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep un-promotes every restaurant whose promotion window has passed.
// A concurrent payment extending the same restaurant may race with the
// sweep; both sides write the same two fields, so last write wins safely.
func (s *Sweeper) Sweep() {
	result := s.db.Model(&models.Restaurant{}).
		Where("is_promoted = ? AND promoted_until < ?", true, time.Now()).
		Updates(map[string]interface{}{
			"is_promoted":    false,
			"promoted_until": nil,
		})

	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("promotion sweep failed")
		return
	}

	if result.RowsAffected > 0 {
		s.logger.Info().Int64("expired", result.RowsAffected).Msg("expired promotions cleared")
	}
}
