package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"aslan-support-client/internal/domain"
	"aslan-support-client/internal/domain/model"
	"aslan-support-client/internal/domain/ports/adapter"
	"aslan-support-client/internal/domain/ports/repository"
	"aslan-support-client/internal/infra/logging"
	"aslan-support-client/internal/infra/metrics"
)

// Compile-time check
var _ MessagePipeline = (*messageUC)(nil)

// TokenEstimator supplies a local token-cost estimate when the backend
// response omits one.
type TokenEstimator interface {
	Estimate(text string) int
}

// SubmitResult carries everything a caller needs to render one exchange.
type SubmitResult struct {
	Message *model.Message
	// Reply is the locally generated companion response.
	Reply   *model.Message
	Verdict Verdict
	Usage   model.UsageReport
}

// MessagePipeline orchestrates validate -> classify -> persist -> risk-assess
// -> token-update for each outgoing message.
type MessagePipeline interface {
	Submit(ctx context.Context, rawText string) (*SubmitResult, error)
	// SubmitMood pushes a one-tap mood check-in through the same pipeline.
	SubmitMood(ctx context.Context, mood Mood) (*SubmitResult, error)
	// Greet records the assistant's opening message for a fresh session.
	Greet(ctx context.Context) (*model.Message, error)
	// RaiseAlert idempotently creates an alert for (messageID, type). Both
	// the synchronous pipeline and the realtime dispatcher go through it.
	RaiseAlert(ctx context.Context, sessionID, messageID, userID string, typ model.AlertType, description string) (bool, error)
}

type messageUC struct {
	backend   adapter.SupportBackend
	messages  repository.MessageRepository
	alerts    repository.AlertRepository
	quota     QuotaTracker
	sessions  SessionManager
	estimator TokenEstimator
	log       *zerolog.Logger

	mu          sync.Mutex
	pendingMood Mood
}

func NewMessagePipeline(
	backend adapter.SupportBackend,
	messages repository.MessageRepository,
	alerts repository.AlertRepository,
	quota QuotaTracker,
	sessions SessionManager,
	estimator TokenEstimator,
	logger *zerolog.Logger,
) *messageUC {
	mLog := logger.With().Str("component", "MessagePipeline").Logger()
	return &messageUC{
		backend:   backend,
		messages:  messages,
		alerts:    alerts,
		quota:     quota,
		sessions:  sessions,
		estimator: estimator,
		log:       &mLog,
	}
}

func (u *messageUC) Submit(ctx context.Context, rawText string) (*SubmitResult, error) {
	defer logging.TraceDuration(u.log, "MessagePipeline.Submit")()

	// 1. Validate locally. These failures are user-correctable.
	text := strings.TrimSpace(rawText)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > model.MessageMaxLength {
		return nil, domain.ErrMessageTooLong
	}

	session := u.sessions.Active()
	if session == nil {
		return nil, domain.ErrNoActiveSession
	}
	ctx = logging.WithSessID(ctx, session.ID)

	// 2. Classify. Exactly one request per call; retries are the caller's
	// responsibility. No message is created on failure.
	cls, err := u.backend.ClassifyMessage(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassificationUnavailable, err)
	}
	if !cls.Valid {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidArgument, cls.Error)
	}
	tokenCost := cls.TotalTokens
	if tokenCost <= 0 && u.estimator != nil {
		tokenCost = u.estimator.Estimate(text)
	}

	// 3. Persist the message with the returned emotion/color.
	now := time.Now()
	msg, err := model.NewMessage(ulid.Make().String(), session.ID, session.UserID, text, model.RoleUser, cls.Emotion, now)
	if err != nil {
		return nil, err
	}
	if err := u.messages.Save(ctx, msg); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}
	metrics.IncMessage(string(model.RoleUser))
	ctx = logging.WithMsgID(ctx, msg.ID)
	log := logging.With(ctx, u.log)

	// 4. Risk-assess the finalized message.
	verdict := AssessRisk(msg)
	if verdict.NeedsAlert {
		if _, err := u.RaiseAlert(ctx, msg.SessionID, msg.ID, msg.UserID, verdict.AlertType, verdict.Description); err != nil {
			log.Warn().Err(err).Msg("alert creation failed")
		}
	}

	// 5. Report token cost and update session totals.
	usage := u.quota.Report(ctx, tokenCost)
	u.sessions.AddTokens(tokenCost)
	u.sessions.Touch(now)

	reply := u.recordReply(ctx, session, text)

	log.Debug().
		Str("emotion", msg.EmotionLabel).
		Int("token_cost", tokenCost).
		Bool("needs_alert", verdict.NeedsAlert).
		Msg("message submitted")

	return &SubmitResult{Message: msg, Reply: reply, Verdict: verdict, Usage: usage}, nil
}

func (u *messageUC) SubmitMood(ctx context.Context, mood Mood) (*SubmitResult, error) {
	if !KnownMood(mood) {
		return nil, domain.ErrInvalidArgument
	}
	u.mu.Lock()
	u.pendingMood = mood
	u.mu.Unlock()
	return u.Submit(ctx, fmt.Sprintf("I'm feeling %s", mood))
}

func (u *messageUC) Greet(ctx context.Context) (*model.Message, error) {
	session := u.sessions.Active()
	if session == nil {
		return nil, domain.ErrNoActiveSession
	}
	msg, err := model.NewMessage(ulid.Make().String(), session.ID, session.UserID, Greeting, model.RoleAssistant, "", time.Now())
	if err != nil {
		return nil, err
	}
	if err := u.messages.Save(ctx, msg); err != nil {
		return nil, fmt.Errorf("save greeting: %w", err)
	}
	metrics.IncMessage(string(model.RoleAssistant))
	return msg, nil
}

func (u *messageUC) RaiseAlert(ctx context.Context, sessionID, messageID, userID string, typ model.AlertType, description string) (bool, error) {
	alert, err := model.NewAlert(uuid.NewString(), sessionID, messageID, userID, typ, description, time.Now())
	if err != nil {
		return false, err
	}
	created, err := u.alerts.Upsert(ctx, alert)
	if err != nil {
		return false, fmt.Errorf("alert upsert: %w", err)
	}
	if !created {
		return false, nil
	}
	metrics.IncAlert(string(typ))
	if err := u.backend.CreateAlert(ctx, alert); err != nil {
		// Transport failure is non-fatal; the local record stands.
		u.log.Warn().Err(err).Str("alert_id", alert.ID).Msg("alert report failed")
	}
	return true, nil
}

// recordReply persists the local companion response. It travels none of the
// pipeline: no classification, no risk run, no token charge.
func (u *messageUC) recordReply(ctx context.Context, session *model.Session, userText string) *model.Message {
	u.mu.Lock()
	mood := u.pendingMood
	u.pendingMood = ""
	u.mu.Unlock()

	text := CompanionReply(userText, mood)
	reply, err := model.NewMessage(ulid.Make().String(), session.ID, session.UserID, text, model.RoleAssistant, "", time.Now())
	if err != nil {
		return nil
	}
	if err := u.messages.Save(ctx, reply); err != nil {
		u.log.Warn().Err(err).Msg("companion reply save failed")
		return nil
	}
	metrics.IncMessage(string(model.RoleAssistant))
	return reply
}
