package handler

import (
	"errors"
	"net/http"

	"github.com/dtroode/interview-assistant/internal/logger"
	"github.com/dtroode/interview-assistant/internal/model"
)

var errMalformedBody = errors.New("malformed request body")

// handleError writes the status and message matching a service error.
// Anything unrecognised is logged and hidden behind a generic 500.
func handleError(w http.ResponseWriter, r *http.Request, err error, logger *logger.Logger) {
	switch {
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, errMalformedBody):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrEmailTaken):
		writeMessage(w, http.StatusConflict, "email already registered")
	case errors.Is(err, model.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, model.ErrUnauthenticated):
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, model.ErrSessionNotFound):
		writeMessage(w, http.StatusNotFound, "session not found")
	case errors.Is(err, model.ErrArchiveNotFound):
		writeMessage(w, http.StatusNotFound, "archive not found")
	case errors.Is(err, model.ErrArchiveDisabled):
		writeMessage(w, http.StatusServiceUnavailable, "report archive is not configured")
	default:
		logger.Error("unhandled request error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error())
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
