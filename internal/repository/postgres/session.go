package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/interview-assistant/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db *Pool
}

func NewSessionRepository(db *Pool) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

func (r *SessionRepository) Create(ctx context.Context, session model.Session) (model.Session, error) {
	query := `INSERT INTO interview_sessions (user_id, role, status)
			  VALUES ($1, $2, $3)
			  RETURNING id, user_id, role, status, created_at`

	var saved model.Session
	err := r.db.QueryOne(ctx, query, []any{session.UserID, session.Role, string(session.Status)},
		&saved.ID, &saved.UserID, &saved.Role, &saved.Status, &saved.CreatedAt,
	)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return saved, nil
}

func (r *SessionRepository) GetByIDAndUser(ctx context.Context, id, userID int64) (model.Session, error) {
	var session model.Session
	query := `SELECT id, user_id, role, status, created_at
			  FROM interview_sessions WHERE id = $1 AND user_id = $2`

	err := r.db.QueryOne(ctx, query, []any{id, userID},
		&session.ID, &session.UserID, &session.Role, &session.Status, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID int64) ([]model.HistoryItem, error) {
	query := `SELECT s.id, s.role, s.status, s.created_at,
			  (SELECT AVG(f.overall)::float8 FROM feedback f
			   JOIN responses r ON r.id = f.response_id
			   WHERE r.session_id = s.id) AS avg_overall
			  FROM interview_sessions s
			  WHERE s.user_id = $1
			  ORDER BY s.created_at DESC, s.id DESC`

	items := make([]model.HistoryItem, 0)
	err := r.db.QueryAll(ctx, query, []any{userID}, func(rows *sql.Rows) error {
		var (
			item model.HistoryItem
			avg  sql.NullFloat64
		)
		if err := rows.Scan(&item.SessionID, &item.Role, &item.Status, &item.CreatedAt, &avg); err != nil {
			return err
		}
		if avg.Valid {
			value := avg.Float64
			item.AvgOverall = &value
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return items, nil
}
