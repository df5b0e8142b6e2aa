package handlers

import (
	"net/http"

	"github.com/gizitrack/stuntmap/internal/application/analytics"
)

// MapHandler serves the choropleth-ready GeoJSON feature collection.
type MapHandler struct {
	service DatasetProvider
}

// NewMapHandler builds the handler.
func NewMapHandler(service DatasetProvider) *MapHandler {
	return &MapHandler{service: service}
}

// GetMap returns the joined feature collection: one GeoJSON feature per
// boundary region, statistics and risk classification in the properties,
// the normalized region key as the feature id.
func (h *MapHandler) GetMap(w http.ResponseWriter, r *http.Request) {
	ds, err := h.service.Dataset(r.Context(), parseSelection(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.FeatureCollectionJSON(ds.Features))
}
