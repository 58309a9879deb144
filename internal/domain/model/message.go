package model

import (
	"time"

	"aslan-support-client/internal/domain"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ColorFlag is the three-level severity indicator derived from an emotion
// label.
type ColorFlag string

const (
	ColorRed    ColorFlag = "red"
	ColorYellow ColorFlag = "yellow"
	ColorGreen  ColorFlag = "green"
)

// ColorFlagFor maps an emotion label to its color flag. The mapping is total:
// unknown or absent emotions map to green.
func ColorFlagFor(emotion string) ColorFlag {
	switch emotion {
	case "angry":
		return ColorRed
	case "sad", "anxious":
		return ColorYellow
	case "calm", "happy":
		return ColorGreen
	default:
		return ColorGreen
	}
}

// Message is a single chat entry. Fields are fixed at creation; only the
// displayed emotion/color may be refreshed in place by a later
// emotion_analysis push event.
type Message struct {
	ID           string
	SessionID    string
	UserID       string
	Text         string
	Role         MessageRole
	EmotionLabel string
	ColorFlag    ColorFlag
	CreatedAt    time.Time
}

func NewMessage(id, sessionID, userID, text string, role MessageRole, emotion string, at time.Time) (*Message, error) {
	if id == "" || sessionID == "" || userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if role != RoleUser && role != RoleAssistant {
		return nil, domain.ErrInvalidArgument
	}
	return &Message{
		ID:           id,
		SessionID:    sessionID,
		UserID:       userID,
		Text:         text,
		Role:         role,
		EmotionLabel: emotion,
		ColorFlag:    ColorFlagFor(emotion),
		CreatedAt:    at,
	}, nil
}

// RefreshEmotion updates the displayed emotion and derived color flag.
func (m *Message) RefreshEmotion(emotion string) {
	m.EmotionLabel = emotion
	m.ColorFlag = ColorFlagFor(emotion)
}
