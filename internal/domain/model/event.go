package model

import "encoding/json"

// RealtimeEventType tags server-initiated push events.
type RealtimeEventType string

const (
	EventAlert           RealtimeEventType = "alert"
	EventTokenUpdate     RealtimeEventType = "token_update"
	EventEmotionAnalysis RealtimeEventType = "emotion_analysis"
)

// RealtimeEvent is the inbound push envelope. Events are transient and never
// persisted client-side.
type RealtimeEvent struct {
	Type    RealtimeEventType `json:"type"`
	Payload json.RawMessage   `json:"payload"`
}

// AlertEvent is the payload of an "alert" push.
type AlertEvent struct {
	SessionID   string `json:"session_id"`
	MessageID   string `json:"message_id"`
	UserID      string `json:"user_id"`
	AlertType   string `json:"alert_type"`
	Description string `json:"description"`
}

// TokenUpdateEvent is the payload of a "token_update" push.
type TokenUpdateEvent struct {
	Consumed     int `json:"consumed"`
	MonthlyLimit int `json:"monthly_token_limit"`
}

// EmotionAnalysisEvent is the payload of an "emotion_analysis" push. It
// refreshes the displayed emotion of an existing message; no new message is
// created.
type EmotionAnalysisEvent struct {
	MessageID string `json:"message_id"`
	Emotion   string `json:"emotion"`
}
