package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gizitrack/stuntmap/internal/application/analytics"
	"github.com/gizitrack/stuntmap/internal/infrastructure/monitoring/logging"
	"github.com/gizitrack/stuntmap/internal/interfaces/http/handlers"
)

type staticProvider struct {
	dataset analytics.Dataset
}

func (p *staticProvider) Dataset(ctx context.Context, sel analytics.Selection) (*analytics.Dataset, error) {
	ds := p.dataset
	return &ds, nil
}

func (p *staticProvider) Regions(ctx context.Context) ([]analytics.RegionOption, error) {
	return []analytics.RegionOption{{Key: "WARU", Name: "Waru", InCatalog: true}}, nil
}

func (p *staticProvider) Facilities(ctx context.Context) ([]string, error) {
	return []string{"Puskesmas Waru"}, nil
}

func testRouter() *httptest.Server {
	provider := &staticProvider{
		dataset: analytics.Dataset{
			Stats: []analytics.StatsRow{{
				RegionStats: analytics.RegionStats{Key: "WARU", Total: 2, Stunting: 1, Percentage: 50.00},
				Category:    analytics.CategoryHigh,
			}},
			Summary: analytics.Summary{TotalRecords: 2, TotalStunting: 1, OverallPercentage: 50.00, RegionCount: 1},
		},
	}
	router := NewRouter(RouterConfig{
		StatsHandler:  handlers.NewStatsHandler(provider),
		MapHandler:    handlers.NewMapHandler(provider),
		MetaHandler:   handlers.NewMetaHandler(provider),
		HealthHandler: handlers.NewHealthHandler(),
		CORSOrigins:   []string{"https://dashboard.example"},
		Logger:        logging.NewNopLogger(),
	})
	return httptest.NewServer(router)
}

func TestRouterRoutes(t *testing.T) {
	srv := testRouter()
	defer srv.Close()

	for _, path := range []string{
		"/healthz",
		"/readyz",
		"/api/v1/stats",
		"/api/v1/map",
		"/api/v1/regions",
		"/api/v1/facilities",
		"/api/v1/diagnostics",
	} {
		resp, err := srv.Client().Get(srv.URL + path)
		require.NoError(t, err, path)
		assert.Equal(t, 200, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	srv := testRouter()
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/api/v1/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 404, resp.StatusCode)
}

func TestRouterCORSPreflight(t *testing.T) {
	srv := testRouter()
	defer srv.Close()

	req := httptest.NewRequest("OPTIONS", srv.URL+"/api/v1/stats", nil)
	req.RequestURI = ""
	req.Header.Set("Origin", "https://dashboard.example")
	req.Header.Set("Access-Control-Request-Method", "GET")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 204, resp.StatusCode)
	assert.Equal(t, "https://dashboard.example", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRouterStatsBody(t *testing.T) {
	srv := testRouter()
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/api/v1/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body handlers.StatsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Stats, 1)
	assert.Equal(t, "WARU", body.Stats[0].Key)
}
