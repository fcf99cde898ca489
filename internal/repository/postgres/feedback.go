package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dtroode/interview-assistant/internal/model"
)

var _ model.FeedbackStore = (*FeedbackRepository)(nil)

const suggestionSeparator = "; "

type FeedbackRepository struct {
	db *Pool
}

func NewFeedbackRepository(db *Pool) *FeedbackRepository {
	return &FeedbackRepository{
		db: db,
	}
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback model.Feedback) error {
	query := `INSERT INTO feedback (response_id, communication, correctness, completeness, overall, suggestions)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Execute(ctx, query,
		feedback.ResponseID, feedback.Communication, feedback.Correctness,
		feedback.Completeness, feedback.Overall, strings.Join(feedback.Suggestions, suggestionSeparator),
	)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	return nil
}

func (r *FeedbackRepository) ListByResponse(ctx context.Context, responseID, userID int64) ([]model.Feedback, error) {
	query := `SELECT f.response_id, f.communication, f.correctness, f.completeness, f.overall, f.suggestions
			  FROM feedback f
			  JOIN responses r ON r.id = f.response_id
			  WHERE f.response_id = $1 AND r.user_id = $2`

	items, err := r.list(ctx, query, responseID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback by response: %w", err)
	}

	return items, nil
}

func (r *FeedbackRepository) ListBySession(ctx context.Context, sessionID, userID int64) ([]model.Feedback, error) {
	query := `SELECT f.response_id, f.communication, f.correctness, f.completeness, f.overall, f.suggestions
			  FROM feedback f
			  JOIN responses r ON r.id = f.response_id
			  WHERE r.session_id = $1 AND r.user_id = $2
			  ORDER BY r.id ASC`

	items, err := r.list(ctx, query, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback by session: %w", err)
	}

	return items, nil
}

func (r *FeedbackRepository) Aggregate(ctx context.Context, sessionID, userID int64) (model.SessionReport, error) {
	query := `SELECT COALESCE(AVG(f.overall), 0)::float8,
			  COALESCE(AVG(f.communication), 0)::float8,
			  COALESCE(AVG(f.correctness), 0)::float8,
			  COALESCE(AVG(f.completeness), 0)::float8,
			  COUNT(f.response_id)
			  FROM feedback f
			  JOIN responses r ON r.id = f.response_id
			  WHERE r.session_id = $1 AND r.user_id = $2`

	report := model.SessionReport{SessionID: sessionID}
	err := r.db.QueryOne(ctx, query, []any{sessionID, userID},
		&report.AvgOverall, &report.AvgCommunication, &report.AvgCorrectness,
		&report.AvgCompleteness, &report.Count,
	)
	if err != nil {
		return model.SessionReport{}, fmt.Errorf("failed to aggregate feedback: %w", err)
	}

	return report, nil
}

func (r *FeedbackRepository) list(ctx context.Context, query string, args ...any) ([]model.Feedback, error) {
	items := make([]model.Feedback, 0)
	err := r.db.QueryAll(ctx, query, args, func(rows *sql.Rows) error {
		var (
			item        model.Feedback
			suggestions string
		)
		if err := rows.Scan(&item.ResponseID, &item.Communication, &item.Correctness,
			&item.Completeness, &item.Overall, &suggestions); err != nil {
			return err
		}
		item.Suggestions = splitSuggestions(suggestions)
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

func splitSuggestions(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, suggestionSeparator)
}
