package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/dtroode/interview-assistant/internal/logger"
	"github.com/dtroode/interview-assistant/internal/model"
)

// Report serves read-only views over scored sessions and exports them to object storage.
type Report struct {
	sessionStore  model.SessionStore
	feedbackStore model.FeedbackStore
	storage       model.Storage
	logger        *logger.Logger
	now           func() time.Time
}

// NewReport creates the report service. A nil storage disables archiving.
func NewReport(
	sessionStore model.SessionStore,
	feedbackStore model.FeedbackStore,
	storage model.Storage,
	logger *logger.Logger,
) *Report {
	return &Report{
		sessionStore:  sessionStore,
		feedbackStore: feedbackStore,
		storage:       storage,
		logger:        logger,
		now:           time.Now,
	}
}

// ArchiveDocument is the JSON layout of an exported session report.
type ArchiveDocument struct {
	SessionID  int64          `json:"session_id"`
	UserID     int64          `json:"user_id"`
	Role       string         `json:"role"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	ExportedAt time.Time      `json:"exported_at"`
	Summary    ArchiveSummary `json:"summary"`
	Items      []ArchiveItem  `json:"items"`
}

type ArchiveSummary struct {
	AvgOverall       float64 `json:"avg_overall"`
	AvgCommunication float64 `json:"avg_communication"`
	AvgCorrectness   float64 `json:"avg_correctness"`
	AvgCompleteness  float64 `json:"avg_completeness"`
	Count            int     `json:"count"`
}

type ArchiveItem struct {
	ResponseID    int64    `json:"response_id"`
	Communication int      `json:"communication"`
	Correctness   int      `json:"correctness"`
	Completeness  int      `json:"completeness"`
	Overall       int      `json:"overall"`
	Suggestions   []string `json:"suggestions"`
}

// ArchiveKey is the object key of a session's exported report.
func ArchiveKey(userID, sessionID int64) string {
	return fmt.Sprintf("reports/%d/%d.json", userID, sessionID)
}

// SessionReport averages the user's feedback in a session. No feedback yields zeros.
func (r *Report) SessionReport(ctx context.Context, userID, sessionID int64) (model.SessionReport, error) {
	report, err := r.feedbackStore.Aggregate(ctx, sessionID, userID)
	if err != nil {
		r.logger.Error("Report service: failed to aggregate session",
			"user_id", userID,
			"session_id", sessionID,
			"error", err.Error())
		return model.SessionReport{}, fmt.Errorf("failed to aggregate session: %w", err)
	}
	return report, nil
}

// History lists the user's sessions, newest first.
func (r *Report) History(ctx context.Context, userID int64) ([]model.HistoryItem, error) {
	items, err := r.sessionStore.ListByUser(ctx, userID)
	if err != nil {
		r.logger.Error("Report service: failed to list sessions",
			"user_id", userID,
			"error", err.Error())
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return items, nil
}

func (r *Report) FeedbackForResponse(ctx context.Context, userID, responseID int64) ([]model.Feedback, error) {
	items, err := r.feedbackStore.ListByResponse(ctx, responseID, userID)
	if err != nil {
		r.logger.Error("Report service: failed to list response feedback",
			"user_id", userID,
			"response_id", responseID,
			"error", err.Error())
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return items, nil
}

func (r *Report) FeedbackForSession(ctx context.Context, userID, sessionID int64) ([]model.Feedback, error) {
	items, err := r.feedbackStore.ListBySession(ctx, sessionID, userID)
	if err != nil {
		r.logger.Error("Report service: failed to list session feedback",
			"user_id", userID,
			"session_id", sessionID,
			"error", err.Error())
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return items, nil
}

// ArchiveSession exports the session report with every feedback item and returns the object key.
// Exporting again overwrites the previous archive.
func (r *Report) ArchiveSession(ctx context.Context, userID, sessionID int64) (string, error) {
	if r.storage == nil {
		return "", model.ErrArchiveDisabled
	}

	session, err := r.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return "", err
	}

	report, err := r.SessionReport(ctx, userID, sessionID)
	if err != nil {
		return "", err
	}
	feedback, err := r.FeedbackForSession(ctx, userID, sessionID)
	if err != nil {
		return "", err
	}

	doc := ArchiveDocument{
		SessionID:  session.ID,
		UserID:     session.UserID,
		Role:       session.Role,
		Status:     string(session.Status),
		CreatedAt:  session.CreatedAt,
		ExportedAt: r.now().UTC(),
		Summary: ArchiveSummary{
			AvgOverall:       report.AvgOverall,
			AvgCommunication: report.AvgCommunication,
			AvgCorrectness:   report.AvgCorrectness,
			AvgCompleteness:  report.AvgCompleteness,
			Count:            report.Count,
		},
		Items: make([]ArchiveItem, 0, len(feedback)),
	}
	for _, f := range feedback {
		doc.Items = append(doc.Items, ArchiveItem{
			ResponseID:    f.ResponseID,
			Communication: f.Communication,
			Correctness:   f.Correctness,
			Completeness:  f.Completeness,
			Overall:       f.Overall,
			Suggestions:   f.Suggestions,
		})
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal archive: %w", err)
	}

	key := ArchiveKey(userID, sessionID)
	if err := r.storage.Upload(ctx, key, bytes.NewReader(payload), int64(len(payload))); err != nil {
		r.logger.Error("Report service: failed to upload archive",
			"user_id", userID,
			"session_id", sessionID,
			"error", err.Error())
		return "", fmt.Errorf("failed to upload archive: %w", err)
	}

	r.logger.Info("Report service: session archived",
		"user_id", userID,
		"session_id", sessionID,
		"key", key)

	return key, nil
}

// OpenArchive streams a previously exported report. The caller closes the reader.
func (r *Report) OpenArchive(ctx context.Context, userID, sessionID int64) (io.ReadCloser, error) {
	if r.storage == nil {
		return nil, model.ErrArchiveDisabled
	}

	if _, err := r.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	key := ArchiveKey(userID, sessionID)
	exists, err := r.storage.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check archive: %w", err)
	}
	if !exists {
		return nil, model.ErrArchiveNotFound
	}

	rc, err := r.storage.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return rc, nil
}

func (r *Report) ownedSession(ctx context.Context, userID, sessionID int64) (model.Session, error) {
	session, err := r.sessionStore.GetByIDAndUser(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Session{}, model.ErrSessionNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}
