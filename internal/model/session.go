package model

import (
	"context"
	"time"
)

// SessionStore defines persistence operations for interview sessions.
// Every lookup is scoped to the owning user.
type SessionStore interface {
	Create(ctx context.Context, session Session) (Session, error)
	GetByIDAndUser(ctx context.Context, id, userID int64) (Session, error)
	ListByUser(ctx context.Context, userID int64) ([]HistoryItem, error)
}

// SessionStatus is the lifecycle state of an interview session.
type SessionStatus string

const (
	// SessionStatusInProgress is the initial and, today, the only state ever set.
	SessionStatusInProgress SessionStatus = "in_progress"
	// SessionStatusCompleted is reserved for a client-driven completion flow.
	SessionStatusCompleted SessionStatus = "completed"
)

// Session is one practice interview attempt by a user.
type Session struct {
	ID        int64
	UserID    int64
	Role      string
	Status    SessionStatus
	CreatedAt time.Time
}

// HistoryItem is a session annotated with its mean overall score.
// AvgOverall is nil when the session has no feedback yet.
type HistoryItem struct {
	SessionID  int64
	Role       string
	Status     SessionStatus
	AvgOverall *float64
	CreatedAt  time.Time
}
