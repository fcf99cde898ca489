package handler

import (
	"net/http"
	"time"
)

// Health serves liveness endpoints.
type Health struct {
	now func() time.Time
}

func NewHealth() *Health {
	return &Health{now: time.Now}
}

type pingResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// Root handles GET /.
func (h *Health) Root(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "Healthy")
}

// Ping handles GET /_ping.
func (h *Health) Ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, pingResponse{Status: "ok", Time: h.now().UTC()})
}
