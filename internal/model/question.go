package model

import "context"

// QuestionStore defines read access to the seeded question bank.
type QuestionStore interface {
	GetByID(ctx context.Context, id int64) (Question, error)
	// NextUnanswered returns the lowest-id question applicable to role that has
	// no response in the session yet, or ErrNotFound when none remain.
	NextUnanswered(ctx context.Context, sessionID int64, role string) (Question, error)
}

// ExhaustedQuestionID marks the sentinel returned when a session has no questions left.
const ExhaustedQuestionID int64 = -1

// ExhaustedQuestionText is the message carried by the exhaustion sentinel.
const ExhaustedQuestionText = "No more questions. You can end the session."

// Question is static reference data. A nil Role applies to any session role.
type Question struct {
	ID               int64
	Text             string
	Role             *string
	ExpectedKeywords string
}

// ExhaustedQuestion returns the sentinel question.
func ExhaustedQuestion() Question {
	return Question{ID: ExhaustedQuestionID, Text: ExhaustedQuestionText}
}

// IsExhausted reports whether q is the exhaustion sentinel.
func (q Question) IsExhausted() bool {
	return q.ID == ExhaustedQuestionID
}
