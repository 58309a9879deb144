// File: internal/infra/db/postgres/message_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"aslan-support-client/internal/domain"
	"aslan-support-client/internal/domain/model"
	"aslan-support-client/internal/domain/ports/repository"
)

var _ repository.MessageRepository = (*MessageRepo)(nil)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Save(ctx context.Context, m *model.Message) error {
	const q = `
INSERT INTO messages (id, session_id, user_id, text, role, emotion_label, color_flag, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO NOTHING;`
	_, err := r.pool.Exec(ctx, q, m.ID, m.SessionID, m.UserID, m.Text, string(m.Role), m.EmotionLabel, string(m.ColorFlag), m.CreatedAt)
	if err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

func (r *MessageRepo) FindByID(ctx context.Context, id string) (*model.Message, error) {
	const q = `
SELECT id, session_id, user_id, text, role, emotion_label, color_flag, created_at
FROM messages WHERE id = $1;`
	var (
		m     model.Message
		role  string
		color string
	)
	err := r.pool.QueryRow(ctx, q, id).Scan(&m.ID, &m.SessionID, &m.UserID, &m.Text, &role, &m.EmotionLabel, &color, &m.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan message: %w", err)
	}
	m.Role = model.MessageRole(role)
	m.ColorFlag = model.ColorFlag(color)
	return &m, nil
}

func (r *MessageRepo) FindBySession(ctx context.Context, sessionID string) ([]*model.Message, error) {
	const q = `
SELECT id, session_id, user_id, text, role, emotion_label, color_flag, created_at
FROM messages WHERE session_id = $1 ORDER BY id;`
	rows, err := r.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []*model.Message
	for rows.Next() {
		var (
			m     model.Message
			role  string
			color string
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &m.UserID, &m.Text, &role, &m.EmotionLabel, &color, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Role = model.MessageRole(role)
		m.ColorFlag = model.ColorFlag(color)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *MessageRepo) RefreshEmotion(ctx context.Context, messageID, emotion string, color model.ColorFlag) error {
	const q = `UPDATE messages SET emotion_label = $2, color_flag = $3 WHERE id = $1;`
	ct, err := r.pool.Exec(ctx, q, messageID, emotion, string(color))
	if err != nil {
		return fmt.Errorf("refresh emotion: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
