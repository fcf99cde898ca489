package model

import "context"

// FeedbackStore persists and aggregates scoring output.
// Reads are always scoped to the user owning the underlying responses.
type FeedbackStore interface {
	Create(ctx context.Context, feedback Feedback) error
	ListByResponse(ctx context.Context, responseID, userID int64) ([]Feedback, error)
	ListBySession(ctx context.Context, sessionID, userID int64) ([]Feedback, error)
	Aggregate(ctx context.Context, sessionID, userID int64) (SessionReport, error)
}

// Feedback is the scoring output attached to exactly one response.
type Feedback struct {
	ResponseID    int64
	Communication int
	Correctness   int
	Completeness  int
	Overall       int
	Suggestions   []string
}

// SessionReport holds mean scores across a session's feedback.
type SessionReport struct {
	SessionID        int64
	AvgOverall       float64
	AvgCommunication float64
	AvgCorrectness   float64
	AvgCompleteness  float64
	Count            int
}
