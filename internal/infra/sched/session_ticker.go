package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"aslan-support-client/internal/usecase"
)

// SessionTicker drives the session clock on a fixed cadence: each tick
// recomputes elapsed duration and fires inactivity/max-duration expiry.
type SessionTicker struct {
	interval time.Duration
	sessions usecase.SessionManager
	log      *zerolog.Logger
}

func NewSessionTicker(interval time.Duration, sessions usecase.SessionManager, logger *zerolog.Logger) *SessionTicker {
	tLog := logger.With().Str("component", "SessionTicker").Logger()
	if interval <= 0 {
		interval = time.Second
	}
	return &SessionTicker{
		interval: interval,
		sessions: sessions,
		log:      &tLog,
	}
}

func (w *SessionTicker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting session ticker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping session ticker")
			return ctx.Err()
		case now := <-ticker.C:
			w.sessions.Tick(ctx, now)
		}
	}
}
