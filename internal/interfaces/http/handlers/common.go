// Package handlers implements the dashboard API endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gizitrack/stuntmap/internal/application/analytics"
	appErrors "github.com/gizitrack/stuntmap/pkg/errors"
)

// DatasetProvider is the slice of the analytics service the handlers need.
type DatasetProvider interface {
	Dataset(ctx context.Context, sel analytics.Selection) (*analytics.Dataset, error)
	Regions(ctx context.Context) ([]analytics.RegionOption, error)
	Facilities(ctx context.Context) ([]string, error)
}

// parseSelection reads the filter query parameters.  Both parameters repeat
// (?region=Waru&region=Candi); absence, or the literal "all", means no
// restriction along that dimension.
func parseSelection(r *http.Request) analytics.Selection {
	q := r.URL.Query()
	return analytics.Selection{
		Regions:    q["region"],
		Facilities: q["facility"],
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeAppError maps an application error onto its HTTP status via the
// error-code table.  Server-side causes are masked; load errors keep their
// message so an operator sees which source is broken.
func writeAppError(w http.ResponseWriter, err error) {
	code := appErrors.GetCode(err)
	status := appErrors.HTTPStatusForCode(code)

	message := err.Error()
	if appErrors.IsServerError(code) && !appErrors.IsLoadError(err) {
		message = "internal server error"
	}

	writeJSON(w, status, ErrorResponse{
		Code:    code.String(),
		Message: message,
	})
}
