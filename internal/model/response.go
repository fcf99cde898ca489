package model

import (
	"context"
	"time"
)

// ResponseStore persists answers. Responses are immutable once created.
type ResponseStore interface {
	Create(ctx context.Context, response Response) (Response, error)
}

// Response is a user's answer to one question within one session.
type Response struct {
	ID         int64
	SessionID  int64
	QuestionID int64
	UserID     int64
	AnswerText string
	CreatedAt  time.Time
}

// AnswerResult is returned by answer submission.
type AnswerResult struct {
	ResponseID int64
	Score      ScoreResult
}
