package repository

import (
	"context"

	"aslan-support-client/internal/domain/model"
)

// -----------------------------
// Local chat history
// -----------------------------

type SessionRepository interface {
	Save(ctx context.Context, session *model.Session) error
	FindByID(ctx context.Context, id string) (*model.Session, error)
	FindActiveByUser(ctx context.Context, userID string) (*model.Session, error)
}

type MessageRepository interface {
	Save(ctx context.Context, message *model.Message) error
	FindByID(ctx context.Context, id string) (*model.Message, error)
	FindBySession(ctx context.Context, sessionID string) ([]*model.Message, error)
	// RefreshEmotion updates the displayed emotion and color flag of an
	// existing message in place.
	RefreshEmotion(ctx context.Context, messageID, emotion string, color model.ColorFlag) error
}

type AlertRepository interface {
	// Upsert persists the alert unless one already exists for the same
	// (message_id, alert_type) key. It reports whether a row was created;
	// hitting an existing key is a no-op, not an error.
	Upsert(ctx context.Context, alert *model.Alert) (created bool, err error)
	FindBySession(ctx context.Context, sessionID string) ([]*model.Alert, error)
}
