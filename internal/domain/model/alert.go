package model

import (
	"time"

	"aslan-support-client/internal/domain"
)

type AlertType string

const (
	AlertCrisis      AlertType = "crisis"
	AlertHighEmotion AlertType = "high_emotion"
)

// Alert is a safety escalation raised for a flagged message. Creation is
// idempotent on (MessageID, Type): the same message may be evaluated by both
// the synchronous pipeline and an asynchronous push event.
type Alert struct {
	ID          string
	SessionID   string
	MessageID   string
	UserID      string
	Type        AlertType
	Description string
	CreatedAt   time.Time
}

func NewAlert(id, sessionID, messageID, userID string, typ AlertType, description string, at time.Time) (*Alert, error) {
	if id == "" || sessionID == "" || messageID == "" || userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if typ != AlertCrisis && typ != AlertHighEmotion {
		return nil, domain.ErrInvalidArgument
	}
	return &Alert{
		ID:          id,
		SessionID:   sessionID,
		MessageID:   messageID,
		UserID:      userID,
		Type:        typ,
		Description: description,
		CreatedAt:   at,
	}, nil
}
