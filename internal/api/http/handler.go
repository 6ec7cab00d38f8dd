package http

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/bbockelm/cellpainting-download/internal/domain"
)

// StatusSource exposes the running fetch task's state.
type StatusSource interface {
	Status() domain.FetchStatus
}

// StatusHandler serves the fetch task's status snapshot.
type StatusHandler struct {
	source StatusSource
	logger *slog.Logger
}

// NewStatusHandler creates a StatusHandler reading from source.
func NewStatusHandler(source StatusSource, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{source: source, logger: logger}
}

// GetStatus handles GET /status.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.source.Status())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
