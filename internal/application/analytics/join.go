package analytics

import (
	"sort"

	"github.com/gizitrack/stuntmap/internal/domain/region"
)

// JoinedFeature is one catalog feature annotated with its region statistics
// and risk classification.  It layers derived data over the catalog feature
// without touching the feature's own geometry or property map.
type JoinedFeature struct {
	// ID is the normalized region key.  Choropleth renderers bind their
	// location column against it (featureidkey = "id").
	ID string `json:"id"`

	// Feature is the backing catalog feature.  Every JoinedFeature has
	// one; statistics without a backing geometry are never fabricated
	// into features.
	Feature region.Feature `json:"feature"`

	// Stats is the region's aggregated statistics, zero-filled (with Key
	// and RawName set from the catalog) when the region has no records.
	Stats RegionStats `json:"stats"`

	// HasData reports whether any screening records matched this region.
	HasData bool `json:"has_data"`

	Category   RiskCategory `json:"category"`
	Prediction string       `json:"prediction"`
}

// JoinResult is the output of one join pass: the render-ready feature set
// plus the mismatch diagnostics for both sides.
type JoinResult struct {
	// Features holds exactly one entry per distinct catalog key, in
	// catalog order.
	Features []JoinedFeature

	// UnmatchedStatsKeys lists normalized keys present in the statistics
	// but absent from the catalog, sorted.  These regions are excluded
	// from Features and surfaced as a non-fatal warning so an operator
	// can fix the source data.
	UnmatchedStatsKeys []string

	// UnmatchedStatsNames lists the raw record spellings behind
	// UnmatchedStatsKeys, aligned by index.
	UnmatchedStatsNames []string

	// UnmatchedFeatureKeys lists catalog keys with no statistics,
	// sorted.  These regions still appear in Features with zero-filled
	// stats: regions exist on the map even with no data.
	UnmatchedFeatureKeys []string
}

// Join merges aggregated statistics into the boundary catalog by normalized
// key.  The catalog is never mutated; every call produces fresh joined
// structures, so one catalog serves repeated joins across filter changes.
func Join(catalog *region.Catalog, stats *StatsByRegion) JoinResult {
	catalogKeys := catalog.Keys()
	res := JoinResult{Features: make([]JoinedFeature, 0, len(catalogKeys))}

	for _, key := range catalogKeys {
		feat, _ := catalog.Lookup(key)
		jf := JoinedFeature{ID: key, Feature: feat}

		if st, ok := stats.Get(key); ok {
			jf.Stats = *st
			jf.HasData = true
			jf.Category, jf.Prediction = Classify(st.Percentage)
		} else {
			jf.Stats = RegionStats{Key: key, RawName: feat.RawName}
			jf.Category = CategoryNoData
			jf.Prediction = PredictionNoData
			res.UnmatchedFeatureKeys = append(res.UnmatchedFeatureKeys, key)
		}

		res.Features = append(res.Features, jf)
	}

	catalogSet := catalog.KeySet()
	for _, key := range stats.Keys() {
		if !catalogSet[key] {
			res.UnmatchedStatsKeys = append(res.UnmatchedStatsKeys, key)
		}
	}
	sort.Strings(res.UnmatchedStatsKeys)
	for _, key := range res.UnmatchedStatsKeys {
		st, _ := stats.Get(key)
		res.UnmatchedStatsNames = append(res.UnmatchedStatsNames, st.RawName)
	}
	sort.Strings(res.UnmatchedFeatureKeys)

	return res
}

// GeoJSON renders the joined feature as a fresh GeoJSON feature object:
// the original geometry verbatim, a copy of the original properties with
// the derived fields added, and the normalized key as the feature id.  The
// backing catalog feature's property map is copied, never written to.
func (jf JoinedFeature) GeoJSON() map[string]interface{} {
	props := make(map[string]interface{}, len(jf.Feature.Properties)+7)
	for k, v := range jf.Feature.Properties {
		props[k] = v
	}
	props["region_key"] = jf.ID
	props["total"] = jf.Stats.Total
	props["stunting"] = jf.Stats.Stunting
	props["percentage"] = jf.Stats.Percentage
	props["category"] = string(jf.Category)
	props["prediction"] = jf.Prediction
	props["has_data"] = jf.HasData

	return map[string]interface{}{
		"type":       "Feature",
		"id":         jf.ID,
		"geometry":   jf.Feature.Geometry,
		"properties": props,
	}
}

// FeatureCollectionJSON renders the whole joined feature set as a GeoJSON
// feature collection ready for a choropleth layer.
func FeatureCollectionJSON(features []JoinedFeature) map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(features))
	for _, jf := range features {
		out = append(out, jf.GeoJSON())
	}
	return map[string]interface{}{
		"type":     "FeatureCollection",
		"features": out,
	}
}
