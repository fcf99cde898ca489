package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/dtroode/interview-assistant/internal/model"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	return nil
}

func queryID(r *http.Request, name string) (int64, error) {
	return parseID(r.URL.Query().Get(name), name)
}

func pathID(r *http.Request, name string) (int64, error) {
	return parseID(chi.URLParam(r, name), name)
}

func parseID(raw, name string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", model.ErrInvalidInput, name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", model.ErrInvalidInput, name)
	}
	return id, nil
}
