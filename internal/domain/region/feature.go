// Package region holds the administrative-boundary catalog: GeoJSON
// features indexed by normalized region key.  The catalog is read-only
// shared state after load; join output is layered on top of it, never
// written back into it.
package region

import (
	"encoding/json"
	"fmt"

	appErrors "github.com/gizitrack/stuntmap/pkg/errors"
	"github.com/gizitrack/stuntmap/pkg/normalize"
)

// Feature is one administrative region from the boundary catalog.  Geometry
// is kept as the raw JSON payload: the pipeline never needs to interpret
// coordinates, and keeping the bytes opaque guarantees the source geometry
// cannot be corrupted by the join step.
type Feature struct {
	// Geometry is the feature's geometry object, verbatim from the source.
	Geometry json.RawMessage `json:"geometry"`

	// Properties is the feature's property map, verbatim from the source.
	Properties map[string]interface{} `json:"properties"`

	// RawName is the region name resolved from Properties via the
	// priority-ordered key list; empty when no candidate key is present.
	RawName string `json:"-"`

	// Key is normalize.Key(RawName), the join key.  An empty key is
	// valid but degenerate: it will never match real screening data.
	Key string `json:"-"`
}

// FeatureCollection is the wire shape of the boundary catalog source.
type FeatureCollection struct {
	Type     string `json:"type"`
	Features []struct {
		Geometry   json.RawMessage        `json:"geometry"`
		Properties map[string]interface{} `json:"properties"`
	} `json:"features"`
}

// ParseFeatureCollection decodes raw GeoJSON bytes and verifies the payload
// is a well-formed feature collection.  Anything else (invalid JSON, a bare
// geometry, a collection without a feature list) is a load error: the
// boundary catalog is a primary input and no pipeline run proceeds on a
// malformed one.
func ParseFeatureCollection(data []byte) (*FeatureCollection, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeSourceParse, "boundary catalog is not valid JSON")
	}
	if fc.Type != "FeatureCollection" {
		return nil, appErrors.Newf(appErrors.ErrCodeSourceParse,
			"boundary catalog is not a feature collection (type %q)", fc.Type)
	}
	if fc.Features == nil {
		return nil, appErrors.New(appErrors.ErrCodeSourceParse,
			"boundary catalog has no feature list")
	}
	return &fc, nil
}

// resolveName picks the first present, non-empty candidate property from
// props in priority order.  Property values that are not strings are
// stringified the same way the source exporter would print them.
func resolveName(props map[string]interface{}, nameKeys []string) string {
	for _, key := range nameKeys {
		v, ok := props[key]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			if s != "" {
				return s
			}
			continue
		}
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// newFeature builds a catalog Feature from a raw collection entry.
func newFeature(geometry json.RawMessage, props map[string]interface{}, nameKeys []string) Feature {
	raw := resolveName(props, nameKeys)
	return Feature{
		Geometry:   geometry,
		Properties: props,
		RawName:    raw,
		Key:        normalize.Key(raw),
	}
}
