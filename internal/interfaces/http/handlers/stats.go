package handlers

import (
	"net/http"
	"time"

	"github.com/gizitrack/stuntmap/internal/application/analytics"
)

// StatsHandler serves the statistics table and the headline summary.
type StatsHandler struct {
	service DatasetProvider
}

// NewStatsHandler builds the handler.
func NewStatsHandler(service DatasetProvider) *StatsHandler {
	return &StatsHandler{service: service}
}

// StatsResponse is the body of GET /api/v1/stats.
type StatsResponse struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Filtered    bool                 `json:"filtered"`
	Stats       []analytics.StatsRow `json:"stats"`
	Summary     analytics.Summary    `json:"summary"`
}

// GetStats returns the per-region statistics for the requested selection.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ds, err := h.service.Dataset(r.Context(), parseSelection(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		GeneratedAt: ds.GeneratedAt,
		Filtered:    ds.Filtered,
		Stats:       ds.Stats,
		Summary:     ds.Summary,
	})
}
