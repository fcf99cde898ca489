package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/interview-assistant/internal/model"
)

var _ model.QuestionStore = (*QuestionRepository)(nil)

type QuestionRepository struct {
	db *Pool
}

func NewQuestionRepository(db *Pool) *QuestionRepository {
	return &QuestionRepository{
		db: db,
	}
}

func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (model.Question, error) {
	query := `SELECT id, text, role, expected_keywords FROM questions WHERE id = $1`

	question, err := r.queryOne(ctx, query, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Question{}, model.ErrNotFound
		}
		return model.Question{}, fmt.Errorf("failed to get question: %w", err)
	}

	return question, nil
}

// NextUnanswered treats an empty role as "generic questions only".
func (r *QuestionRepository) NextUnanswered(ctx context.Context, sessionID int64, role string) (model.Question, error) {
	query := `SELECT q.id, q.text, q.role, q.expected_keywords
			  FROM questions q
			  WHERE (q.role IS NULL OR q.role = $1)
			  AND q.id NOT IN (SELECT r.question_id FROM responses r WHERE r.session_id = $2)
			  ORDER BY q.id ASC
			  LIMIT 1`

	question, err := r.queryOne(ctx, query, role, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Question{}, model.ErrNotFound
		}
		return model.Question{}, fmt.Errorf("failed to get next question: %w", err)
	}

	return question, nil
}

func (r *QuestionRepository) queryOne(ctx context.Context, query string, args ...any) (model.Question, error) {
	var (
		question model.Question
		role     sql.NullString
	)
	err := r.db.QueryOne(ctx, query, args,
		&question.ID, &question.Text, &role, &question.ExpectedKeywords,
	)
	if err != nil {
		return model.Question{}, err
	}
	if role.Valid {
		question.Role = &role.String
	}

	return question, nil
}
