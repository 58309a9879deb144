package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"aslan-support-client/internal/domain"
	"aslan-support-client/internal/domain/model"
	"aslan-support-client/internal/domain/ports/adapter"
	"aslan-support-client/internal/domain/ports/repository"
	"aslan-support-client/internal/infra/logging"
	"aslan-support-client/internal/infra/metrics"
)

// Compile-time check
var _ SessionManager = (*sessionUC)(nil)

// SessionCache mirrors the active session into a fast store.
type SessionCache interface {
	StoreSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// SessionLimits bound how long a session may live.
type SessionLimits struct {
	MaxDuration       time.Duration
	InactivityTimeout time.Duration
}

func DefaultSessionLimits() SessionLimits {
	return SessionLimits{
		MaxDuration:       model.SessionMaxDuration,
		InactivityTimeout: model.SessionInactivityLimit,
	}
}

// SessionManager owns the session lifecycle: NotStarted -> Active -> Ended.
// Ended is terminal; explicit end, inactivity and max-duration expiry are
// mutually exclusive triggers and the first to fire wins.
type SessionManager interface {
	Start(ctx context.Context, userID string) (*model.Session, error)
	// End closes the active session explicitly. Calling it with no active
	// session is a no-op.
	End(ctx context.Context) error
	// Tick advances session time on the 1-second cadence. It recomputes
	// elapsed duration and fires expiry when due.
	Tick(ctx context.Context, now time.Time)
	// Touch records user activity, resetting the inactivity clock.
	Touch(now time.Time)
	// AddTokens accumulates token cost into the active session.
	AddTokens(n int)
	// Active returns a copy of the active session, or nil.
	Active() *model.Session
	// Elapsed reports the display duration: increasing while active,
	// frozen after end.
	Elapsed(now time.Time) time.Duration
}

type sessionUC struct {
	backend  adapter.SupportBackend
	sessions repository.SessionRepository
	cache    SessionCache
	limits   SessionLimits
	// onExpired surfaces the SessionExpired condition to collaborators.
	onExpired func(session *model.Session, reason model.EndReason)
	log       *zerolog.Logger

	mu      sync.Mutex
	current *model.Session
	last    *model.Session
}

func NewSessionManager(
	backend adapter.SupportBackend,
	sessions repository.SessionRepository,
	cache SessionCache,
	limits SessionLimits,
	onExpired func(session *model.Session, reason model.EndReason),
	logger *zerolog.Logger,
) *sessionUC {
	sLog := logger.With().Str("component", "SessionManager").Logger()
	if limits.MaxDuration <= 0 {
		limits.MaxDuration = model.SessionMaxDuration
	}
	if limits.InactivityTimeout <= 0 {
		limits.InactivityTimeout = model.SessionInactivityLimit
	}
	return &sessionUC{
		backend:   backend,
		sessions:  sessions,
		cache:     cache,
		limits:    limits,
		onExpired: onExpired,
		log:       &sLog,
	}
}

func (u *sessionUC) Start(ctx context.Context, userID string) (*model.Session, error) {
	defer logging.TraceDuration(u.log, "SessionManager.Start")()
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	u.mu.Lock()
	if u.current != nil {
		s := *u.current
		u.mu.Unlock()
		return &s, nil
	}
	u.mu.Unlock()

	if resumed := u.resume(ctx, userID); resumed != nil {
		u.mu.Lock()
		u.current = resumed
		u.mu.Unlock()
		u.log.Info().Str("session_id", resumed.ID).Str("user_id", userID).Msg("session resumed")
		s := *resumed
		return &s, nil
	}

	started, err := u.backend.StartSession(ctx, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionStart, err)
	}
	id := started.ID
	if id == "" {
		id = uuid.NewString()
	}
	start := started.StartTime
	if start.IsZero() {
		start = time.Now()
	}
	session, err := model.NewSession(id, userID, start)
	if err != nil {
		return nil, err
	}
	if err := u.sessions.Save(ctx, session); err != nil {
		u.log.Warn().Err(err).Str("session_id", session.ID).Msg("session save failed")
	}
	if u.cache != nil {
		_ = u.cache.StoreSession(ctx, session)
	}

	u.mu.Lock()
	u.current = session
	u.mu.Unlock()

	metrics.IncSessionStarted()
	u.log.Info().Str("session_id", session.ID).Str("user_id", userID).Msg("session started")
	s := *session
	return &s, nil
}

// resume adopts a still-active session left behind by a previous run
// instead of opening a second one for the user. A stored session past its
// limits is closed out and not adopted.
func (u *sessionUC) resume(ctx context.Context, userID string) *model.Session {
	stored, err := u.sessions.FindActiveByUser(ctx, userID)
	if err != nil || stored == nil {
		return nil
	}
	if u.cache != nil {
		// The cache mirror carries the freshest activity clock.
		if cached, err := u.cache.GetSession(ctx, stored.ID); err == nil && cached != nil {
			stored = cached
		}
	}
	now := time.Now()
	if reason, due := stored.ExpiryDue(now, u.limits.MaxDuration, u.limits.InactivityTimeout); due {
		stored.End(now, reason, stored.TokensConsumed)
		u.reportEnd(ctx, stored, reason)
		return nil
	}
	return stored
}

func (u *sessionUC) End(ctx context.Context) error {
	u.mu.Lock()
	session := u.current
	if session == nil {
		u.mu.Unlock()
		return nil
	}
	session.End(time.Now(), model.EndedExplicit, session.TokensConsumed)
	u.current = nil
	u.last = session
	u.mu.Unlock()

	u.reportEnd(ctx, session, model.EndedExplicit)
	return nil
}

// Tick evaluates expiry and applies the state transition under the same
// lock, so a concurrent Touch or AddTokens cannot tear the read.
func (u *sessionUC) Tick(ctx context.Context, now time.Time) {
	u.mu.Lock()
	session := u.current
	if session == nil {
		u.mu.Unlock()
		return
	}
	reason, due := session.ExpiryDue(now, u.limits.MaxDuration, u.limits.InactivityTimeout)
	if !due {
		u.mu.Unlock()
		return
	}
	session.End(now, reason, session.TokensConsumed)
	u.current = nil
	u.last = session
	u.mu.Unlock()

	u.log.Info().Str("session_id", session.ID).Str("reason", string(reason)).Msg("session expired")
	u.reportEnd(ctx, session, reason)
	if u.onExpired != nil {
		s := *session
		u.onExpired(&s, reason)
	}
}

// reportEnd notifies the backend and storage after the session has left
// Active. The session is no longer reachable through u.current here, so no
// other goroutine mutates it. Transport failures are logged; the session is
// considered locally ended regardless.
func (u *sessionUC) reportEnd(ctx context.Context, session *model.Session, reason model.EndReason) {
	if err := u.backend.EndSession(ctx, session.ID, *session.EndTime, session.TokensConsumed); err != nil {
		u.log.Warn().Err(err).Str("session_id", session.ID).Msg("session end report failed; session locally ended")
	}
	if err := u.sessions.Save(ctx, session); err != nil {
		u.log.Warn().Err(err).Str("session_id", session.ID).Msg("ended session save failed")
	}
	if u.cache != nil {
		_ = u.cache.DeleteSession(ctx, session.ID)
	}
	metrics.IncSessionEnded(string(reason))
}

func (u *sessionUC) Touch(now time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.current != nil {
		u.current.Touch(now)
	}
}

func (u *sessionUC) AddTokens(n int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.current != nil {
		u.current.AddTokens(n)
	}
}

func (u *sessionUC) Active() *model.Session {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.current == nil {
		return nil
	}
	s := *u.current
	return &s
}

func (u *sessionUC) Elapsed(now time.Time) time.Duration {
	u.mu.Lock()
	defer u.mu.Unlock()
	switch {
	case u.current != nil:
		return u.current.Elapsed(now)
	case u.last != nil:
		return u.last.Elapsed(now)
	default:
		return 0
	}
}
