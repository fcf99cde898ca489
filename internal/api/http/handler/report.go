package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/dtroode/interview-assistant/internal/logger"
	"github.com/dtroode/interview-assistant/internal/model"
	"github.com/dtroode/interview-assistant/internal/service"
)

// Report serves feedback listings, aggregates, history and archives.
type Report struct {
	reportService  *service.Report
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewReport creates a new Report handler.
func NewReport(reportService *service.Report, contextManager model.ContextManager, logger *logger.Logger) *Report {
	return &Report{
		reportService:  reportService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type feedbackItem struct {
	ResponseID    int64    `json:"response_id"`
	Communication int      `json:"communication"`
	Correctness   int      `json:"correctness"`
	Completeness  int      `json:"completeness"`
	Overall       int      `json:"overall"`
	Suggestions   []string `json:"suggestions"`
}

type feedbackListResponse struct {
	Items []feedbackItem `json:"items"`
}

type sessionReportResponse struct {
	SessionID        int64   `json:"session_id"`
	AvgOverall       float64 `json:"avg_overall"`
	AvgCommunication float64 `json:"avg_communication"`
	AvgCorrectness   float64 `json:"avg_correctness"`
	AvgCompleteness  float64 `json:"avg_completeness"`
	Count            int     `json:"count"`
}

type historyItem struct {
	SessionID  int64     `json:"session_id"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	AvgOverall *float64  `json:"avg_overall"`
	CreatedAt  time.Time `json:"created_at"`
}

type historyResponse struct {
	Items []historyItem `json:"items"`
}

type archiveResponse struct {
	Key string `json:"key"`
}

// FeedbackForResponse handles GET /feedback/{response_id}.
func (h *Report) FeedbackForResponse(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		handleError(w, r, model.ErrUnauthenticated, h.logger)
		return
	}

	responseID, err := pathID(r, "response_id")
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	items, err := h.reportService.FeedbackForResponse(r.Context(), identity.UserID, responseID)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, toFeedbackList(items))
}

// FeedbackForSession handles GET /feedback/session/{session_id}.
func (h *Report) FeedbackForSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		handleError(w, r, model.ErrUnauthenticated, h.logger)
		return
	}

	sessionID, err := pathID(r, "session_id")
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	items, err := h.reportService.FeedbackForSession(r.Context(), identity.UserID, sessionID)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, toFeedbackList(items))
}

// SessionReport handles GET /report/session/{session_id}.
func (h *Report) SessionReport(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		handleError(w, r, model.ErrUnauthenticated, h.logger)
		return
	}

	sessionID, err := pathID(r, "session_id")
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	report, err := h.reportService.SessionReport(r.Context(), identity.UserID, sessionID)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, sessionReportResponse{
		SessionID:        sessionID,
		AvgOverall:       report.AvgOverall,
		AvgCommunication: report.AvgCommunication,
		AvgCorrectness:   report.AvgCorrectness,
		AvgCompleteness:  report.AvgCompleteness,
		Count:            report.Count,
	})
}

// History handles GET /report/my.
func (h *Report) History(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		handleError(w, r, model.ErrUnauthenticated, h.logger)
		return
	}

	items, err := h.reportService.History(r.Context(), identity.UserID)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	resp := historyResponse{Items: make([]historyItem, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, historyItem{
			SessionID:  item.SessionID,
			Role:       item.Role,
			Status:     string(item.Status),
			AvgOverall: item.AvgOverall,
			CreatedAt:  item.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// Archive handles POST /report/session/{session_id}/archive.
func (h *Report) Archive(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		handleError(w, r, model.ErrUnauthenticated, h.logger)
		return
	}

	sessionID, err := pathID(r, "session_id")
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	key, err := h.reportService.ArchiveSession(r.Context(), identity.UserID, sessionID)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, archiveResponse{Key: key})
}

// DownloadArchive handles GET /report/session/{session_id}/archive.
func (h *Report) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		handleError(w, r, model.ErrUnauthenticated, h.logger)
		return
	}

	sessionID, err := pathID(r, "session_id")
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	rc, err := h.reportService.OpenArchive(r.Context(), identity.UserID, sessionID)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error("failed to stream archive",
			"user_id", identity.UserID,
			"session_id", sessionID,
			"error", err.Error())
	}
}

func toFeedbackList(items []model.Feedback) feedbackListResponse {
	resp := feedbackListResponse{Items: make([]feedbackItem, 0, len(items))}
	for _, f := range items {
		resp.Items = append(resp.Items, feedbackItem{
			ResponseID:    f.ResponseID,
			Communication: f.Communication,
			Correctness:   f.Correctness,
			Completeness:  f.Completeness,
			Overall:       f.Overall,
			Suggestions:   f.Suggestions,
		})
	}
	return resp
}
