package realtime

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"aslan-support-client/internal/infra/metrics"
)

// EventSink consumes raw inbound frames. The usecase dispatcher implements
// it; the channel stays transport-only.
type EventSink interface {
	Dispatch(ctx context.Context, raw []byte)
}

// Channel maintains the single logical push connection to the backend.
// Lifecycle: Connecting -> Open -> Closed, with Closed -> Connecting retried
// after a fixed delay indefinitely. No backoff and no retry cap, matching
// the backend contract; cancelling the context is the only way out.
type Channel struct {
	url    string
	header http.Header
	delay  time.Duration
	sink   EventSink
	dialer *websocket.Dialer
	log    *zerolog.Logger
}

func NewChannel(url, bearerToken string, reconnectDelay time.Duration, sink EventSink, logger *zerolog.Logger) *Channel {
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	header := http.Header{}
	if bearerToken != "" {
		header.Set("Authorization", "Bearer "+bearerToken)
	}
	cLog := logger.With().Str("component", "RealtimeChannel").Logger()
	return &Channel{
		url:    url,
		header: header,
		delay:  reconnectDelay,
		sink:   sink,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		log:    &cLog,
	}
}

// Run blocks until ctx is cancelled. It should be run in a goroutine.
func (c *Channel) Run(ctx context.Context) error {
	c.log.Info().Str("url", c.url).Msg("starting realtime channel")
	first := true
	for {
		if !first {
			metrics.IncRealtimeReconnect()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.delay):
			}
		}
		first = false

		if err := c.connectAndRead(ctx); err != nil {
			if ctx.Err() != nil {
				c.log.Info().Msg("realtime channel stopped")
				return ctx.Err()
			}
			c.log.Warn().Err(err).Dur("retry_in", c.delay).Msg("realtime connection lost")
		}
	}
}

// connectAndRead holds one connection until it fails. No handshake payload
// is sent on open.
func (c *Channel) connectAndRead(ctx context.Context) error {
	conn, resp, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return err
	}
	defer conn.Close()
	if resp != nil {
		resp.Body.Close()
	}

	c.log.Info().Msg("realtime channel open")
	metrics.SetRealtimeConnected(true)
	defer metrics.SetRealtimeConnected(false)

	// Close the socket when ctx ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.sink.Dispatch(ctx, raw)
	}
}
