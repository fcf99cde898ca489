package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/dtroode/interview-assistant/internal/logger"
	"github.com/dtroode/interview-assistant/internal/model"
	"github.com/dtroode/interview-assistant/internal/service"
)

// ScoreObserver receives every computed answer score.
type ScoreObserver interface {
	ObserveScore(communication, correctness, completeness, overall int)
}

// Interview serves the session lifecycle: start, next question, answer and status.
type Interview struct {
	interviewService *service.Interview
	observer         ScoreObserver
	contextManager   model.ContextManager
	logger           *logger.Logger
}

// NewInterview creates a new Interview handler. observer may be nil.
func NewInterview(
	interviewService *service.Interview,
	observer ScoreObserver,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Interview {
	return &Interview{
		interviewService: interviewService,
		observer:         observer,
		contextManager:   contextManager,
		logger:           logger,
	}
}

type startRequest struct {
	Role string `json:"role"`
}

type startResponse struct {
	SessionID int64 `json:"session_id"`
}

type answerRequest struct {
	SessionID  int64  `json:"session_id"`
	QuestionID int64  `json:"question_id"`
	AnswerText string `json:"answer_text"`
}

type feedbackBody struct {
	Communication int      `json:"communication"`
	Correctness   int      `json:"correctness"`
	Completeness  int      `json:"completeness"`
	Overall       int      `json:"overall"`
	Suggestions   []string `json:"suggestions"`
}

type answerResponse struct {
	ResponseID int64        `json:"response_id"`
	Feedback   feedbackBody `json:"feedback"`
}

type statusResponse struct {
	SessionID int64  `json:"session_id"`
	Status    string `json:"status"`
}

type questionResponse struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// Start handles POST /interview/start. The body and role are optional.
func (h *Interview) Start(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		handleError(w, r, model.ErrUnauthenticated, h.logger)
		return
	}

	var req startRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		handleError(w, r, err, h.logger)
		return
	}

	sessionID, err := h.interviewService.StartSession(r.Context(), identity.UserID, req.Role)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, startResponse{SessionID: sessionID})
}

// Answer handles POST /interview/answer.
func (h *Interview) Answer(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		handleError(w, r, model.ErrUnauthenticated, h.logger)
		return
	}

	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	if req.SessionID <= 0 || req.QuestionID <= 0 {
		writeMessage(w, http.StatusBadRequest, "session_id and question_id are required")
		return
	}

	result, err := h.interviewService.SubmitAnswer(r.Context(), identity.UserID, req.SessionID, req.QuestionID, req.AnswerText)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	score := result.Score
	if h.observer != nil {
		h.observer.ObserveScore(score.Communication, score.Correctness, score.Completeness, score.Overall)
	}

	writeJSON(w, http.StatusCreated, answerResponse{
		ResponseID: result.ResponseID,
		Feedback: feedbackBody{
			Communication: score.Communication,
			Correctness:   score.Correctness,
			Completeness:  score.Completeness,
			Overall:       score.Overall,
			Suggestions:   score.Suggestions,
		},
	})
}

// Status handles GET /interview/status?session_id=.
func (h *Interview) Status(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		handleError(w, r, model.ErrUnauthenticated, h.logger)
		return
	}

	sessionID, err := queryID(r, "session_id")
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	status, err := h.interviewService.GetStatus(r.Context(), identity.UserID, sessionID)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{SessionID: sessionID, Status: string(status)})
}

// NextQuestion handles GET /question/next?session_id=. An exhausted session yields id -1.
func (h *Interview) NextQuestion(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		handleError(w, r, model.ErrUnauthenticated, h.logger)
		return
	}

	sessionID, err := queryID(r, "session_id")
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	question, err := h.interviewService.NextQuestion(r.Context(), identity.UserID, sessionID)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, questionResponse{ID: question.ID, Text: question.Text})
}
