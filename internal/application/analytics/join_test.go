package analytics

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gizitrack/stuntmap/internal/domain/region"
	"github.com/gizitrack/stuntmap/internal/domain/screening"
)

func testCatalog(t *testing.T, names ...string) *region.Catalog {
	t.Helper()

	type rawFeature struct {
		Type       string                 `json:"type"`
		Geometry   json.RawMessage        `json:"geometry"`
		Properties map[string]interface{} `json:"properties"`
	}
	features := make([]rawFeature, 0, len(names))
	for i, name := range names {
		features = append(features, rawFeature{
			Type:     "Feature",
			Geometry: json.RawMessage(fmt.Sprintf(`{"type":"Point","coordinates":[%d,0]}`, i)),
			Properties: map[string]interface{}{
				"WADMKC": name,
			},
		})
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type":     "FeatureCollection",
		"features": features,
	})
	require.NoError(t, err)

	fc, err := region.ParseFeatureCollection(payload)
	require.NoError(t, err)
	return region.NewCatalog(fc, []string{"WADMKC"})
}

func TestJoinEndToEnd(t *testing.T) {
	records := []screening.Record{
		{RegionName: "Kec A", Stunting: true},
		{RegionName: "kec a ", Stunting: false},
		{RegionName: "Kec B", Stunting: true},
	}
	catalog := testCatalog(t, "KEC A", "KEC C")

	stats := Aggregate(records)
	res := Join(catalog, stats)

	require.Len(t, res.Features, 2, "one entry per distinct catalog key, stats-only regions excluded")

	a := res.Features[0]
	assert.Equal(t, "KEC A", a.ID)
	assert.True(t, a.HasData)
	assert.Equal(t, 2, a.Stats.Total)
	assert.Equal(t, 1, a.Stats.Stunting)
	assert.InDelta(t, 50.00, a.Stats.Percentage, 0.0001)
	assert.Equal(t, CategoryHigh, a.Category)
	assert.Equal(t, PredictionNeedsAttention, a.Prediction)

	c := res.Features[1]
	assert.Equal(t, "KEC C", c.ID)
	assert.False(t, c.HasData)
	assert.Equal(t, 0, c.Stats.Total)
	assert.Equal(t, 0, c.Stats.Stunting)
	assert.Zero(t, c.Stats.Percentage)
	assert.Equal(t, CategoryNoData, c.Category)
	assert.Equal(t, PredictionNoData, c.Prediction)

	assert.Equal(t, []string{"KEC B"}, res.UnmatchedStatsKeys)
	assert.Equal(t, []string{"Kec B"}, res.UnmatchedStatsNames)
	assert.Equal(t, []string{"KEC C"}, res.UnmatchedFeatureKeys)
}

func TestJoinFollowsCatalogOrder(t *testing.T) {
	catalog := testCatalog(t, "WARU", "CANDI", "TARIK")
	stats := Aggregate([]screening.Record{
		{RegionName: "Tarik"},
		{RegionName: "Waru"},
	})

	res := Join(catalog, stats)
	require.Len(t, res.Features, 3)
	assert.Equal(t, "WARU", res.Features[0].ID)
	assert.Equal(t, "CANDI", res.Features[1].ID)
	assert.Equal(t, "TARIK", res.Features[2].ID)
}

func TestJoinEmptyStats(t *testing.T) {
	catalog := testCatalog(t, "WARU", "CANDI")
	res := Join(catalog, Aggregate(nil))

	require.Len(t, res.Features, 2)
	for _, jf := range res.Features {
		assert.False(t, jf.HasData)
		assert.Equal(t, CategoryNoData, jf.Category)
	}
	assert.Empty(t, res.UnmatchedStatsKeys)
	assert.Equal(t, []string{"CANDI", "WARU"}, res.UnmatchedFeatureKeys)
}

func TestJoinNeverMutatesCatalog(t *testing.T) {
	catalog := testCatalog(t, "WARU")
	before, ok := catalog.Lookup("WARU")
	require.True(t, ok)
	beforeGeometry := string(before.Geometry)
	beforeProps := len(before.Properties)

	stats := Aggregate([]screening.Record{{RegionName: "Waru", Stunting: true}})
	res := Join(catalog, stats)

	// Render GeoJSON too; property enrichment must land on a copy.
	_ = res.Features[0].GeoJSON()

	after, ok := catalog.Lookup("WARU")
	require.True(t, ok)
	assert.Equal(t, beforeGeometry, string(after.Geometry))
	assert.Len(t, after.Properties, beforeProps)
	assert.NotContains(t, after.Properties, "percentage")
	assert.NotContains(t, after.Properties, "category")
}

func TestJoinedFeatureGeoJSON(t *testing.T) {
	catalog := testCatalog(t, "WARU")
	stats := Aggregate([]screening.Record{
		{RegionName: "Waru", Stunting: true},
		{RegionName: "Waru", Stunting: false},
	})

	res := Join(catalog, stats)
	require.Len(t, res.Features, 1)

	obj := res.Features[0].GeoJSON()
	assert.Equal(t, "Feature", obj["type"])
	assert.Equal(t, "WARU", obj["id"])

	props, ok := obj["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "WARU", props["region_key"])
	assert.Equal(t, 2, props["total"])
	assert.Equal(t, 1, props["stunting"])
	assert.Equal(t, 50.00, props["percentage"])
	assert.Equal(t, "High", props["category"])
	assert.Equal(t, PredictionNeedsAttention, props["prediction"])
	assert.Equal(t, true, props["has_data"])
	assert.Equal(t, "WARU", props["WADMKC"], "source properties carried through")
}

func TestFeatureCollectionJSON(t *testing.T) {
	catalog := testCatalog(t, "WARU", "CANDI")
	res := Join(catalog, Aggregate(nil))

	fc := FeatureCollectionJSON(res.Features)
	assert.Equal(t, "FeatureCollection", fc["type"])

	features, ok := fc["features"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, features, 2)

	// Round-trips as valid JSON.
	payload, err := json.Marshal(fc)
	require.NoError(t, err)
	parsed, err := region.ParseFeatureCollection(payload)
	require.NoError(t, err)
	assert.Len(t, parsed.Features, 2)
}
