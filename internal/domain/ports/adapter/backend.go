package adapter

import (
	"context"
	"time"

	"aslan-support-client/internal/domain/model"
)

// Classification is the backend's verdict on a user message: validity,
// inferred emotion and the token cost of the exchange.
type Classification struct {
	Valid       bool
	Error       string
	Emotion     string
	ColorFlag   string
	TotalTokens int
}

// TokenUsage is the authoritative quota reading from the backend.
type TokenUsage struct {
	MonthlyLimit int
	Consumed     int
}

// StartedSession is the backend acknowledgement of a session start.
type StartedSession struct {
	ID        string
	StartTime time.Time
}

// SupportBackend is the port for the emotional-support backend REST API.
// Emotion classification and token-cost computation are opaque backend
// capabilities; only the contract is specified here.
type SupportBackend interface {
	StartSession(ctx context.Context, userID string, start time.Time) (StartedSession, error)
	EndSession(ctx context.Context, sessionID string, end time.Time, tokensConsumed int) error
	ClassifyMessage(ctx context.Context, content string) (Classification, error)
	FetchTokenUsage(ctx context.Context) (TokenUsage, error)
	CreateAlert(ctx context.Context, alert *model.Alert) error
}
