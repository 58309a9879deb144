// File: internal/infra/db/postgres/alert_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"aslan-support-client/internal/domain/model"
	"aslan-support-client/internal/domain/ports/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

type AlertRepo struct {
	pool *pgxpool.Pool
}

func NewAlertRepo(pool *pgxpool.Pool) *AlertRepo {
	return &AlertRepo{pool: pool}
}

// Upsert inserts the alert unless one exists for (message_id, alert_type).
// The unique index makes the dedupe guarantee hold across the synchronous
// pipeline and the push channel without call-site coordination.
func (r *AlertRepo) Upsert(ctx context.Context, a *model.Alert) (bool, error) {
	const q = `
INSERT INTO alerts (id, session_id, message_id, user_id, alert_type, description, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (message_id, alert_type) DO NOTHING;`
	ct, err := r.pool.Exec(ctx, q, a.ID, a.SessionID, a.MessageID, a.UserID, string(a.Type), a.Description, a.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("upsert alert: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *AlertRepo) FindBySession(ctx context.Context, sessionID string) ([]*model.Alert, error) {
	const q = `
SELECT id, session_id, message_id, user_id, alert_type, description, created_at
FROM alerts WHERE session_id = $1 ORDER BY created_at;`
	rows, err := r.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var out []*model.Alert
	for rows.Next() {
		var (
			a   model.Alert
			typ string
		)
		if err := rows.Scan(&a.ID, &a.SessionID, &a.MessageID, &a.UserID, &typ, &a.Description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Type = model.AlertType(typ)
		out = append(out, &a)
	}
	return out, rows.Err()
}
