package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/user/storefront-harvester/internal/delivery/http/response"
	"github.com/user/storefront-harvester/internal/usecase"
)

// ProgressSource exposes the state of the running harvest.
type ProgressSource interface {
	Snapshot() usecase.RunProgress
}

type Handler struct {
	progress ProgressSource
}

// NewHandler creates a handler. progress may be nil for runs without an
// orchestrator, such as consolidation.
func NewHandler(progress ProgressSource) *Handler {
	return &Handler{
		progress: progress,
	}
}

func (h *Handler) HandleRunStatus(w http.ResponseWriter, r *http.Request) {
	if h.progress == nil {
		h.writeJSONError(w, "No harvest run in progress", http.StatusNotFound)
		return
	}

	snap := h.progress.Snapshot()
	resp := response.RunStatusResponse{
		Profile:     snap.Profile,
		Total:       snap.Total,
		Finished:    snap.Finished,
		Records:     snap.Records,
		CurrentSeed: snap.CurrentSeed.String(),
		LastStop:    string(snap.LastStop),
		StartedAt:   optionalTime(snap.StartedAt),
		UpdatedAt:   optionalTime(snap.UpdatedAt),
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
