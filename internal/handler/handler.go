package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/mgomezch/netifmon/internal/codec"
	"github.com/mgomezch/netifmon/internal/domain"
	"github.com/mgomezch/netifmon/internal/repository"
	"github.com/mgomezch/netifmon/internal/store"
)

// History lists recorded refresh cycles.
type History interface {
	ListRefreshes(ctx context.Context, limit int) ([]repository.Entry, error)
}

// RefreshKicker requests an immediate refresh cycle without waiting for
// the next scheduled tick.
type RefreshKicker interface {
	Kick()
}

// StateHandler serves the read surface. It only ever reads store state;
// it never blocks or influences the refresh loop.
type StateHandler struct {
	store   *store.Store
	history History
	kicker  RefreshKicker
}

// NewStateHandler creates a handler over the given store.
func NewStateHandler(st *store.Store) *StateHandler {
	return &StateHandler{store: st}
}

// SetHistory enables the history endpoint.
func (h *StateHandler) SetHistory(history History) {
	h.history = history
}

// SetRefreshKicker enables the manual-refresh endpoint.
func (h *StateHandler) SetRefreshKicker(k RefreshKicker) {
	h.kicker = k
}

// AddRoutes registers the API routes on mux.
func (h *StateHandler) AddRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/interfaces", h.GetInterfaces)
	mux.HandleFunc("GET /api/diff", h.GetDiff)
	mux.HandleFunc("GET /api/history", h.GetHistory)
	mux.HandleFunc("GET /api/export/json", h.ExportJSON)
	mux.HandleFunc("GET /api/export/yaml", h.ExportYAML)
	mux.HandleFunc("POST /api/refresh", h.TriggerRefresh)
	mux.HandleFunc("GET /api/healthz", h.Healthz)
}

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// GetInterfaces returns the current snapshot. Before any data exists it
// returns an empty object, never an error.
func (h *StateHandler) GetInterfaces(w http.ResponseWriter, r *http.Request) {
	snap := h.store.State().New
	if snap == nil {
		snap = domain.Snapshot{}
	}
	h.writeJSON(w, snap, http.StatusOK)
}

// GetDiff returns the latest per-differ results; empty before the first
// completed refresh.
func (h *StateHandler) GetDiff(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.store.State().Diff, http.StatusOK)
}

// GetHistory returns recent refresh cycles, newest first. ?limit=N caps
// the result (default 50).
func (h *StateHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		h.writeError(w, "History not configured", "No history database was configured", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeError(w, "Invalid limit", "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := h.history.ListRefreshes(r.Context(), limit)
	if err != nil {
		log.Printf("Failed to list refresh history: %v", err)
		h.writeError(w, "Failed to list history", err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []repository.Entry{}
	}
	h.writeJSON(w, entries, http.StatusOK)
}

// TriggerRefresh kicks an immediate cycle on the scheduler's goroutine
// and returns without waiting for it.
func (h *StateHandler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	if h.kicker == nil {
		h.writeError(w, "Refresh not configured", "No scheduler is running", http.StatusServiceUnavailable)
		return
	}
	h.kicker.Kick()
	h.writeJSON(w, map[string]string{"status": "refresh_triggered"}, http.StatusAccepted)
}

// Healthz is a simple liveness endpoint.
func (h *StateHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// ExportJSON downloads the current snapshot as JSON.
func (h *StateHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=interfaces.json")
	if err := codec.NewJSONCodec().Export(h.store.State().New, w); err != nil {
		log.Printf("Failed to export JSON: %v", err)
		// Can't write error response as we already set headers
	}
}

// ExportYAML downloads the current snapshot as YAML.
func (h *StateHandler) ExportYAML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-yaml")
	w.Header().Set("Content-Disposition", "attachment; filename=interfaces.yml")
	if err := codec.NewYAMLCodec().Export(h.store.State().New, w); err != nil {
		log.Printf("Failed to export YAML: %v", err)
		// Can't write error response as we already set headers
	}
}

// Helper methods

func (h *StateHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *StateHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
