package model

import (
	"time"

	"aslan-support-client/internal/domain"
)

type SessionStatus string

const (
	SessionNotStarted SessionStatus = "not_started"
	SessionActive     SessionStatus = "active"
	SessionEnded      SessionStatus = "ended"
)

// EndReason records which trigger closed a session. Triggers are mutually
// exclusive: the first one to fire wins.
type EndReason string

const (
	EndedExplicit    EndReason = "explicit"
	EndedInactivity  EndReason = "inactivity"
	EndedMaxDuration EndReason = "max_duration"
)

// Session is a bounded interval of user interaction with the companion.
// Once ended it is immutable.
type Session struct {
	ID             string
	UserID         string
	StartTime      time.Time
	EndTime        *time.Time
	TokensConsumed int
	Status         SessionStatus
	EndReason      EndReason
	LastActivityAt time.Time
}

func NewSession(id, userID string, start time.Time) (*Session, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Session{
		ID:             id,
		UserID:         userID,
		StartTime:      start,
		Status:         SessionActive,
		LastActivityAt: start,
	}, nil
}

// Touch records user activity, resetting the inactivity clock.
func (s *Session) Touch(now time.Time) {
	if s.Status != SessionActive {
		return
	}
	s.LastActivityAt = now
}

// End closes the session. Ending an already-ended session is a no-op.
func (s *Session) End(now time.Time, reason EndReason, tokensConsumed int) {
	if s.Status == SessionEnded {
		return
	}
	end := now
	s.EndTime = &end
	s.Status = SessionEnded
	s.EndReason = reason
	if tokensConsumed > s.TokensConsumed {
		s.TokensConsumed = tokensConsumed
	}
}

// Elapsed reports the session duration: monotonically increasing while
// active, frozen at EndTime once ended.
func (s *Session) Elapsed(now time.Time) time.Duration {
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return now.Sub(s.StartTime)
}

// ExpiryDue reports whether the session should expire at now, and why.
// Max-duration is checked before inactivity so that a session idle past both
// limits reports the longer-standing trigger.
func (s *Session) ExpiryDue(now time.Time, maxDuration, inactivityTimeout time.Duration) (EndReason, bool) {
	if s.Status != SessionActive {
		return "", false
	}
	if now.Sub(s.StartTime) > maxDuration {
		return EndedMaxDuration, true
	}
	if now.Sub(s.LastActivityAt) > inactivityTimeout {
		return EndedInactivity, true
	}
	return "", false
}

// AddTokens accumulates reported token cost into the running session total.
func (s *Session) AddTokens(n int) {
	if s.Status != SessionActive || n <= 0 {
		return
	}
	s.TokensConsumed += n
}
