package postgres

import (
	"context"
	"fmt"

	"github.com/dtroode/interview-assistant/internal/model"
)

var _ model.ResponseStore = (*ResponseRepository)(nil)

type ResponseRepository struct {
	db *Pool
}

func NewResponseRepository(db *Pool) *ResponseRepository {
	return &ResponseRepository{
		db: db,
	}
}

func (r *ResponseRepository) Create(ctx context.Context, response model.Response) (model.Response, error) {
	query := `INSERT INTO responses (session_id, question_id, user_id, answer_text)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, session_id, question_id, user_id, answer_text, created_at`

	var saved model.Response
	err := r.db.QueryOne(ctx, query,
		[]any{response.SessionID, response.QuestionID, response.UserID, response.AnswerText},
		&saved.ID, &saved.SessionID, &saved.QuestionID, &saved.UserID, &saved.AnswerText, &saved.CreatedAt,
	)
	if err != nil {
		return model.Response{}, fmt.Errorf("failed to create response: %w", err)
	}

	return saved, nil
}
