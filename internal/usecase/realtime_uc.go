package usecase

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"aslan-support-client/internal/domain/model"
	"aslan-support-client/internal/domain/ports/repository"
	"aslan-support-client/internal/infra/metrics"
)

// AlertSurface receives server-initiated alerts for display.
type AlertSurface interface {
	Surface(ev model.AlertEvent)
}

// AlertSurfaceFunc adapts a plain function to AlertSurface.
type AlertSurfaceFunc func(ev model.AlertEvent)

func (f AlertSurfaceFunc) Surface(ev model.AlertEvent) { f(ev) }

// EventHandler consumes one decoded push payload.
type EventHandler func(ctx context.Context, payload json.RawMessage) error

// Dispatcher routes inbound realtime events through a handler table keyed by
// event type. Parse failures and unrecognized types are dropped without
// closing the connection.
type Dispatcher struct {
	handlers map[model.RealtimeEventType]EventHandler
	log      *zerolog.Logger
}

func NewDispatcher(
	quota QuotaTracker,
	messages repository.MessageRepository,
	pipeline MessagePipeline,
	surface AlertSurface,
	logger *zerolog.Logger,
) *Dispatcher {
	dLog := logger.With().Str("component", "Dispatcher").Logger()
	d := &Dispatcher{log: &dLog}
	d.handlers = map[model.RealtimeEventType]EventHandler{
		model.EventAlert: func(ctx context.Context, payload json.RawMessage) error {
			var ev model.AlertEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				return err
			}
			typ := model.AlertType(ev.AlertType)
			if typ != model.AlertCrisis && typ != model.AlertHighEmotion {
				return nil
			}
			// The alert store is the dedupe point; the push path and the
			// synchronous pipeline may both see the same message.
			if _, err := pipeline.RaiseAlert(ctx, ev.SessionID, ev.MessageID, ev.UserID, typ, ev.Description); err != nil {
				return err
			}
			if surface != nil {
				surface.Surface(ev)
			}
			return nil
		},
		model.EventTokenUpdate: func(ctx context.Context, payload json.RawMessage) error {
			var ev model.TokenUpdateEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				return err
			}
			quota.ApplyPush(ev)
			return nil
		},
		model.EventEmotionAnalysis: func(ctx context.Context, payload json.RawMessage) error {
			var ev model.EmotionAnalysisEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				return err
			}
			// Refresh in place; no new message is created.
			return messages.RefreshEmotion(ctx, ev.MessageID, ev.Emotion, model.ColorFlagFor(ev.Emotion))
		},
	}
	return d
}

// Dispatch decodes one raw frame and routes it. Undecodable frames and
// unknown event types are ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) {
	var ev model.RealtimeEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		metrics.IncRealtimeEvent("invalid")
		d.log.Debug().Err(err).Msg("dropping undecodable realtime frame")
		return
	}
	handler, ok := d.handlers[ev.Type]
	if !ok {
		metrics.IncRealtimeEvent("unknown")
		d.log.Debug().Str("type", string(ev.Type)).Msg("dropping unrecognized realtime event")
		return
	}
	if err := handler(ctx, ev.Payload); err != nil {
		metrics.IncRealtimeEvent("failed")
		d.log.Warn().Err(err).Str("type", string(ev.Type)).Msg("realtime event handling failed")
		return
	}
	metrics.IncRealtimeEvent(string(ev.Type))
}
