package handlers

import (
	"net/http"
	"time"

	"github.com/gizitrack/stuntmap/internal/application/analytics"
)

// MetaHandler serves the filter option lists and the join diagnostics.
type MetaHandler struct {
	service DatasetProvider
}

// NewMetaHandler builds the handler.
func NewMetaHandler(service DatasetProvider) *MetaHandler {
	return &MetaHandler{service: service}
}

// RegionsResponse is the body of GET /api/v1/regions.
type RegionsResponse struct {
	Regions []analytics.RegionOption `json:"regions"`
}

// GetRegions lists the region filter options.
func (h *MetaHandler) GetRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.service.Regions(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RegionsResponse{Regions: regions})
}

// FacilitiesResponse is the body of GET /api/v1/facilities.
type FacilitiesResponse struct {
	Facilities []string `json:"facilities"`
}

// GetFacilities lists the facility filter options.
func (h *MetaHandler) GetFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.service.Facilities(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FacilitiesResponse{Facilities: facilities})
}

// DiagnosticsResponse is the body of GET /api/v1/diagnostics.
type DiagnosticsResponse struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Diagnostics analytics.Diagnostics `json:"diagnostics"`
}

// GetDiagnostics reports the name mismatches of the current full dataset.
// The dashboard renders the record-side mismatches as a warning banner.
func (h *MetaHandler) GetDiagnostics(w http.ResponseWriter, r *http.Request) {
	ds, err := h.service.Dataset(r.Context(), analytics.Selection{})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DiagnosticsResponse{
		GeneratedAt: ds.GeneratedAt,
		Diagnostics: ds.Diagnostics,
	})
}
