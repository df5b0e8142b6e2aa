// Package screening defines the per-child screening record entity and its
// repository contract.  Records are immutable once loaded; the pipeline owns
// them for the duration of one aggregation pass.
package screening

import (
	"strings"

	"github.com/gizitrack/stuntmap/pkg/normalize"
)

// Gender of the screened child.
type Gender string

const (
	GenderMale    Gender = "Male"
	GenderFemale  Gender = "Female"
	GenderUnknown Gender = "Unknown"
)

// HeightForAge is the height-for-age (stunting axis) screening status.
type HeightForAge string

const (
	HeightNormal        HeightForAge = "Normal"
	HeightShort         HeightForAge = "Short"
	HeightSeverelyShort HeightForAge = "Severely-Short"
)

// WeightForHeight is the weight-for-height (wasting axis) screening status.
type WeightForHeight string

const (
	WeightHeightNormal         WeightForHeight = "Normal"
	WeightHeightWasted         WeightForHeight = "Wasted"
	WeightHeightSeverelyWasted WeightForHeight = "Severely-Wasted"
)

// WeightForAge is the weight-for-age (underweight axis) screening status.
type WeightForAge string

const (
	WeightAgeNormal              WeightForAge = "Normal"
	WeightAgeUnderweight         WeightForAge = "Underweight"
	WeightAgeSeverelyUnderweight WeightForAge = "Severely-Underweight"
)

// Record is one measured child.  RegionName and FacilityName are kept raw;
// the normalized join key is derived on demand so the record itself stays a
// faithful copy of the source row.
type Record struct {
	RegionName      string
	FacilityName    string
	Gender          Gender
	Stunting        bool
	HeightForAge    HeightForAge
	WeightForHeight WeightForHeight
	WeightForAge    WeightForAge
}

// RegionKey returns the normalized join key for the record's region.
func (r Record) RegionKey() string {
	return normalize.Key(r.RegionName)
}

// ParseGender maps the raw CSV token to a Gender.  The upstream exports mix
// Indonesian and English spellings.
func ParseGender(raw string) Gender {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "L", "LAKI-LAKI", "LAKI LAKI", "M", "MALE":
		return GenderMale
	case "P", "PEREMPUAN", "F", "FEMALE":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// ParseBoolFlag maps boolean-like CSV tokens ("Yes"/"No", "Ya"/"Tidak",
// "1"/"0", "true"/"false") to a bool.  Unrecognised tokens are false.
func ParseBoolFlag(raw string) bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "YES", "YA", "Y", "TRUE", "1":
		return true
	default:
		return false
	}
}

// ParseHeightForAge maps the raw status token to a HeightForAge value.
// Unrecognised tokens default to Normal so a stray label never inflates the
// stunting breakdowns; the stunting flag is authoritative for the headline
// percentage regardless.
func ParseHeightForAge(raw string) HeightForAge {
	switch canonStatus(raw) {
	case "SHORT", "PENDEK":
		return HeightShort
	case "SEVERELY SHORT", "SANGAT PENDEK":
		return HeightSeverelyShort
	default:
		return HeightNormal
	}
}

// ParseWeightForHeight maps the raw status token to a WeightForHeight value.
func ParseWeightForHeight(raw string) WeightForHeight {
	switch canonStatus(raw) {
	case "WASTED", "GIZI KURANG", "KURUS":
		return WeightHeightWasted
	case "SEVERELY WASTED", "GIZI BURUK", "SANGAT KURUS":
		return WeightHeightSeverelyWasted
	default:
		return WeightHeightNormal
	}
}

// ParseWeightForAge maps the raw status token to a WeightForAge value.
func ParseWeightForAge(raw string) WeightForAge {
	switch canonStatus(raw) {
	case "UNDERWEIGHT", "BERAT BADAN KURANG":
		return WeightAgeUnderweight
	case "SEVERELY UNDERWEIGHT", "BERAT BADAN SANGAT KURANG":
		return WeightAgeSeverelyUnderweight
	default:
		return WeightAgeNormal
	}
}

// canonStatus upper-cases, trims, and collapses hyphens so "Severely-Short"
// and "severely short" compare equal.
func canonStatus(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	return strings.ReplaceAll(s, "-", " ")
}
