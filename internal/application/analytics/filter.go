package analytics

import (
	"github.com/gizitrack/stuntmap/internal/domain/screening"
	"github.com/gizitrack/stuntmap/pkg/normalize"
)

// SelectAll is the sentinel meaning "no restriction along this dimension".
const SelectAll = "all"

// Selection restricts the record set by region and/or facility before
// aggregation.  An empty slice, or one containing SelectAll, means no
// restriction along that dimension.
type Selection struct {
	Regions    []string `json:"regions"`
	Facilities []string `json:"facilities"`
}

// IsAll reports whether the selection imposes no restriction at all.
func (s Selection) IsAll() bool {
	return isAll(s.Regions) && isAll(s.Facilities)
}

func isAll(values []string) bool {
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		if normalize.Key(v) == "ALL" {
			return true
		}
	}
	return false
}

// keySet builds a normalized lookup set from the selected values.
func keySet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[normalize.Key(v)] = true
	}
	return set
}

// Filter returns the records matching the selection.  Comparison runs on
// normalized keys on both sides, so "Kec A" selects "kec a " records.  The
// input slice is never mutated; the result is a fresh slice (possibly
// sharing record values, which are themselves immutable).
func Filter(records []screening.Record, sel Selection) []screening.Record {
	filterRegions := !isAll(sel.Regions)
	filterFacilities := !isAll(sel.Facilities)
	if !filterRegions && !filterFacilities {
		out := make([]screening.Record, len(records))
		copy(out, records)
		return out
	}

	var regionSet, facilitySet map[string]bool
	if filterRegions {
		regionSet = keySet(sel.Regions)
	}
	if filterFacilities {
		facilitySet = keySet(sel.Facilities)
	}

	out := make([]screening.Record, 0, len(records))
	for _, r := range records {
		if filterRegions && !regionSet[r.RegionKey()] {
			continue
		}
		if filterFacilities && !facilitySet[normalize.Key(r.FacilityName)] {
			continue
		}
		out = append(out, r)
	}
	return out
}
