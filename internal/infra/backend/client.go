package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"aslan-support-client/internal/domain/model"
	"aslan-support-client/internal/domain/ports/adapter"
	"aslan-support-client/internal/infra/logging"
)

// Compile-time assurance this client satisfies the port
var _ adapter.SupportBackend = (*Client)(nil)

// Client implements adapter.SupportBackend against the REST API.
type Client struct {
	base   string
	token  string
	client *http.Client
	dev    bool
	log    *zerolog.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, dev bool, logger *zerolog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("backend base url empty")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cLog := logger.With().Str("component", "BackendClient").Logger()
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		token:  token,
		client: &http.Client{Timeout: timeout},
		dev:    dev,
		log:    &cLog,
	}, nil
}

type startSessionReq struct {
	UserID    string `json:"user_id"`
	StartTime string `json:"start_time"`
}

type startSessionResp struct {
	ID        string `json:"id"`
	StartTime string `json:"start_time"`
}

func (c *Client) StartSession(ctx context.Context, userID string, start time.Time) (adapter.StartedSession, error) {
	var out startSessionResp
	err := c.do(ctx, http.MethodPost, "/sessions/start", startSessionReq{
		UserID:    userID,
		StartTime: start.UTC().Format(time.RFC3339),
	}, &out)
	if err != nil {
		return adapter.StartedSession{}, err
	}
	started := adapter.StartedSession{ID: out.ID}
	if t, err := time.Parse(time.RFC3339, out.StartTime); err == nil {
		started.StartTime = t
	}
	return started, nil
}

type endSessionReq struct {
	EndTime       string `json:"end_time"`
	TokenConsumed int    `json:"token_consumed"`
}

func (c *Client) EndSession(ctx context.Context, sessionID string, end time.Time, tokensConsumed int) error {
	path := fmt.Sprintf("/sessions/%s/end", sessionID)
	return c.do(ctx, http.MethodPut, path, endSessionReq{
		EndTime:       end.UTC().Format(time.RFC3339),
		TokenConsumed: tokensConsumed,
	}, nil)
}

type validateReq struct {
	Content string `json:"content"`
}

type validateResp struct {
	Valid       bool   `json:"valid"`
	Error       string `json:"error"`
	Emotion     string `json:"emotion"`
	ColorFlag   string `json:"colorFlag"`
	TotalTokens int    `json:"totalTokens"`
}

func (c *Client) ClassifyMessage(ctx context.Context, content string) (adapter.Classification, error) {
	c.log.Debug().Str("content", logging.Redact(content, c.dev)).Msg("requesting classification")
	var out validateResp
	if err := c.do(ctx, http.MethodPost, "/messages/validate", validateReq{Content: content}, &out); err != nil {
		return adapter.Classification{}, err
	}
	return adapter.Classification{
		Valid:       out.Valid,
		Error:       out.Error,
		Emotion:     out.Emotion,
		ColorFlag:   out.ColorFlag,
		TotalTokens: out.TotalTokens,
	}, nil
}

type tokenUsageResp struct {
	MonthlyTokenLimit int `json:"monthly_token_limit"`
	Consumed          int `json:"consumed"`
}

func (c *Client) FetchTokenUsage(ctx context.Context) (adapter.TokenUsage, error) {
	var out tokenUsageResp
	if err := c.do(ctx, http.MethodGet, "/token-usage", nil, &out); err != nil {
		return adapter.TokenUsage{}, err
	}
	return adapter.TokenUsage{MonthlyLimit: out.MonthlyTokenLimit, Consumed: out.Consumed}, nil
}

type createAlertReq struct {
	SessionID        string `json:"session_id"`
	ChatHistoryID    string `json:"chat_history_id"`
	UserID           string `json:"user_id"`
	AlertType        string `json:"alert_type"`
	AlertDescription string `json:"alert_description"`
	AlertTime        string `json:"alert_time"`
}

func (c *Client) CreateAlert(ctx context.Context, alert *model.Alert) error {
	return c.do(ctx, http.MethodPost, "/alerts/create", createAlertReq{
		SessionID:        alert.SessionID,
		ChatHistoryID:    alert.MessageID,
		UserID:           alert.UserID,
		AlertType:        string(alert.Type),
		AlertDescription: alert.Description,
		AlertTime:        alert.CreatedAt.UTC().Format(time.RFC3339),
	}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
		if warn := TokenExpiryWarning(c.token, time.Now()); warn != "" {
			c.log.Warn().Str("path", path).Msg(warn)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
