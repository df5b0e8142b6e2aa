package source

import (
	"context"

	"github.com/gizitrack/stuntmap/internal/domain/region"
)

// GeoJSONCatalogSource loads the boundary catalog from a raw GeoJSON
// source.  It satisfies the pipeline's catalog source contract.
type GeoJSONCatalogSource struct {
	raw      RawSource
	nameKeys []string
}

// NewGeoJSONCatalogSource builds a catalog source reading GeoJSON from raw.
// nameKeys is the priority-ordered property list the region name is
// resolved from.
func NewGeoJSONCatalogSource(raw RawSource, nameKeys []string) *GeoJSONCatalogSource {
	return &GeoJSONCatalogSource{raw: raw, nameKeys: nameKeys}
}

// Load fetches and parses the feature collection.  A malformed collection
// is a load error; the catalog is a primary input.
func (s *GeoJSONCatalogSource) Load(ctx context.Context) (*region.Catalog, error) {
	data, err := s.raw.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	fc, err := region.ParseFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	return region.NewCatalog(fc, s.nameKeys), nil
}

// Fingerprint delegates to the raw source.
func (s *GeoJSONCatalogSource) Fingerprint(ctx context.Context) (string, error) {
	return s.raw.Fingerprint(ctx)
}
