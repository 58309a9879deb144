// File: internal/infra/db/postgres/session_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"aslan-support-client/internal/domain"
	"aslan-support-client/internal/domain/model"
	"aslan-support-client/internal/domain/ports/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Save(ctx context.Context, s *model.Session) error {
	const q = `
INSERT INTO sessions (id, user_id, start_time, end_time, tokens_consumed, status, end_reason, last_activity_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  end_time = EXCLUDED.end_time,
  tokens_consumed = EXCLUDED.tokens_consumed,
  status = EXCLUDED.status,
  end_reason = EXCLUDED.end_reason,
  last_activity_at = EXCLUDED.last_activity_at;`
	_, err := r.pool.Exec(ctx, q, s.ID, s.UserID, s.StartTime, s.EndTime, s.TokensConsumed, string(s.Status), string(s.EndReason), s.LastActivityAt)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	const q = `
SELECT id, user_id, start_time, end_time, tokens_consumed, status, end_reason, last_activity_at
FROM sessions WHERE id = $1;`
	return r.scanOne(r.pool.QueryRow(ctx, q, id))
}

func (r *SessionRepo) FindActiveByUser(ctx context.Context, userID string) (*model.Session, error) {
	const q = `
SELECT id, user_id, start_time, end_time, tokens_consumed, status, end_reason, last_activity_at
FROM sessions WHERE user_id = $1 AND status = 'active'
ORDER BY start_time DESC LIMIT 1;`
	return r.scanOne(r.pool.QueryRow(ctx, q, userID))
}

func (r *SessionRepo) scanOne(row pgx.Row) (*model.Session, error) {
	var (
		s         model.Session
		endTime   *time.Time
		status    string
		endReason string
	)
	err := row.Scan(&s.ID, &s.UserID, &s.StartTime, &endTime, &s.TokensConsumed, &status, &endReason, &s.LastActivityAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	s.EndTime = endTime
	s.Status = model.SessionStatus(status)
	s.EndReason = model.EndReason(endReason)
	return &s, nil
}
