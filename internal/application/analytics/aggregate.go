// Package analytics implements the core reconciliation pipeline: screening
// records are partitioned by normalized region key, aggregated into
// per-region statistics, classified by risk, and joined onto the boundary
// catalog.  Everything here is pure computation over in-memory collections;
// each call allocates fresh output and never mutates its inputs.
package analytics

import (
	"math"

	"github.com/gizitrack/stuntmap/internal/domain/screening"
)

// RegionStats holds the aggregated screening metrics for one normalized
// region key.  Recomputed on every aggregation pass, never persisted
// independently of its source record set.
type RegionStats struct {
	Key     string `json:"key"`
	RawName string `json:"region"` // first-seen raw spelling from the records

	Total      int     `json:"total"`
	Stunting   int     `json:"stunting"`
	Percentage float64 `json:"percentage"` // 2-decimal rounding, 0 when Total is 0

	Short         int `json:"short"`
	SeverelyShort int `json:"severely_short"`

	Wasted         int `json:"wasted"`
	SeverelyWasted int `json:"severely_wasted"`

	Underweight         int `json:"underweight"`
	SeverelyUnderweight int `json:"severely_underweight"`

	Male   int `json:"male"`
	Female int `json:"female"`
}

// StatsByRegion is the aggregation result: one RegionStats per distinct
// normalized key, iterable in first-seen input order.
type StatsByRegion struct {
	order []string
	byKey map[string]*RegionStats
}

// Get returns the stats for a normalized key.
func (s *StatsByRegion) Get(key string) (*RegionStats, bool) {
	st, ok := s.byKey[key]
	return st, ok
}

// Keys returns the distinct keys in first-seen input order.
func (s *StatsByRegion) Keys() []string {
	return s.order
}

// KeySet returns the distinct keys as a set.
func (s *StatsByRegion) KeySet() map[string]bool {
	set := make(map[string]bool, len(s.order))
	for _, k := range s.order {
		set[k] = true
	}
	return set
}

// All returns every RegionStats in first-seen input order.
func (s *StatsByRegion) All() []*RegionStats {
	out := make([]*RegionStats, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.byKey[k])
	}
	return out
}

// Len returns the number of distinct region keys.
func (s *StatsByRegion) Len() int {
	return len(s.order)
}

// Aggregate partitions records by normalized region key and computes the
// per-region totals, stunting percentage, and status breakdowns in a single
// pass.  Records with a degenerate (empty) key aggregate under "" like any
// other partition; they simply never match a real boundary.
func Aggregate(records []screening.Record) *StatsByRegion {
	out := &StatsByRegion{byKey: make(map[string]*RegionStats)}

	for _, r := range records {
		key := r.RegionKey()
		st, ok := out.byKey[key]
		if !ok {
			st = &RegionStats{Key: key, RawName: r.RegionName}
			out.byKey[key] = st
			out.order = append(out.order, key)
		}

		st.Total++
		if r.Stunting {
			st.Stunting++
		}

		switch r.HeightForAge {
		case screening.HeightShort:
			st.Short++
		case screening.HeightSeverelyShort:
			st.SeverelyShort++
		}

		switch r.WeightForHeight {
		case screening.WeightHeightWasted:
			st.Wasted++
		case screening.WeightHeightSeverelyWasted:
			st.SeverelyWasted++
		}

		switch r.WeightForAge {
		case screening.WeightAgeUnderweight:
			st.Underweight++
		case screening.WeightAgeSeverelyUnderweight:
			st.SeverelyUnderweight++
		}

		switch r.Gender {
		case screening.GenderMale:
			st.Male++
		case screening.GenderFemale:
			st.Female++
		}
	}

	for _, st := range out.byKey {
		st.Percentage = Percentage(st.Stunting, st.Total)
	}

	return out
}

// Percentage returns round(part/total*100, 2), or 0 when total is 0.  Any
// caller deriving a percentage from a zero total must treat it as 0%, never
// as an error.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}
