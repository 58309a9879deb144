package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"aslan-support-client/internal/domain/model"
	"aslan-support-client/internal/domain/ports/repository"
	"aslan-support-client/internal/usecase"
)

// Server exposes read-only observability endpoints for the running client:
// health, metrics, and a JSON snapshot of session/quota state.
type Server struct {
	sessions usecase.SessionManager
	quota    usecase.QuotaTracker
	alerts   repository.AlertRepository
	log      *zerolog.Logger
}

func NewServer(sessions usecase.SessionManager, quota usecase.QuotaTracker, alerts repository.AlertRepository, logger *zerolog.Logger) *Server {
	wLog := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		sessions: sessions,
		quota:    quota,
		alerts:   alerts,
		log:      &wLog,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), Recover(s.log), RequestLog(s.log))
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/v1/state", s.handleState)
	return r
}

type sessionView struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	TokensConsumed int        `json:"tokens_consumed"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	AlertCount     int        `json:"alert_count"`
}

type stateView struct {
	Session *sessionView      `json:"session,omitempty"`
	Quota   model.UsageReport `json:"quota"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state := stateView{Quota: s.quota.Current()}
	if session := s.sessions.Active(); session != nil {
		view := sessionView{
			ID:             session.ID,
			UserID:         session.UserID,
			StartTime:      session.StartTime,
			EndTime:        session.EndTime,
			TokensConsumed: session.TokensConsumed,
			ElapsedSeconds: int(s.sessions.Elapsed(time.Now()).Seconds()),
		}
		if alerts, err := s.alerts.FindBySession(r.Context(), session.ID); err == nil {
			view.AlertCount = len(alerts)
		}
		state.Session = &view
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		s.log.Warn().Err(err).Msg("state encode failed")
	}
}
