package region

// Catalog indexes boundary features by normalized region key.  It is built
// once per source load and shared read-only across every subsequent
// aggregation and join; repeated joins after filter changes reuse the same
// catalog instance.
type Catalog struct {
	features []Feature
	byKey    map[string]int
}

// NewCatalog builds a Catalog from a parsed feature collection.  nameKeys is
// the priority-ordered list of property names the region name is read from
// (configuration, not an ad hoc conditional chain).
//
// Duplicate keys keep the first feature; later duplicates are retained in
// Features() so the collection round-trips, but lookups are deterministic.
func NewCatalog(fc *FeatureCollection, nameKeys []string) *Catalog {
	c := &Catalog{
		features: make([]Feature, 0, len(fc.Features)),
		byKey:    make(map[string]int, len(fc.Features)),
	}
	for _, f := range fc.Features {
		feat := newFeature(f.Geometry, f.Properties, nameKeys)
		c.features = append(c.features, feat)
		if _, exists := c.byKey[feat.Key]; !exists {
			c.byKey[feat.Key] = len(c.features) - 1
		}
	}
	return c
}

// Lookup returns the feature for a normalized key.
func (c *Catalog) Lookup(key string) (Feature, bool) {
	idx, ok := c.byKey[key]
	if !ok {
		return Feature{}, false
	}
	return c.features[idx], true
}

// Keys returns every distinct normalized key in first-seen feature order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.byKey))
	seen := make(map[string]bool, len(c.byKey))
	for _, f := range c.features {
		if !seen[f.Key] {
			seen[f.Key] = true
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// KeySet returns the distinct normalized keys as a set.
func (c *Catalog) KeySet() map[string]bool {
	set := make(map[string]bool, len(c.byKey))
	for k := range c.byKey {
		set[k] = true
	}
	return set
}

// Features returns all features in source order.  Callers must treat the
// returned slice and its elements as read-only.
func (c *Catalog) Features() []Feature {
	return c.features
}

// Len returns the number of features in the catalog.
func (c *Catalog) Len() int {
	return len(c.features)
}
