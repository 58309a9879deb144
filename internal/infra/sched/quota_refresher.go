package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"aslan-support-client/internal/usecase"
)

// QuotaRefresher periodically re-reads token usage so the quota display
// converges even when no messages are being sent.
type QuotaRefresher struct {
	interval time.Duration
	quota    usecase.QuotaTracker
	log      *zerolog.Logger
}

func NewQuotaRefresher(interval time.Duration, quota usecase.QuotaTracker, logger *zerolog.Logger) *QuotaRefresher {
	qLog := logger.With().Str("component", "QuotaRefresher").Logger()
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &QuotaRefresher{
		interval: interval,
		quota:    quota,
		log:      &qLog,
	}
}

func (w *QuotaRefresher) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting quota refresher")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping quota refresher")
			return ctx.Err()
		case <-ticker.C:
			report := w.quota.Refresh(ctx)
			if report.Stale {
				w.log.Debug().Msg("quota refresh returned stale reading")
			}
		}
	}
}
