package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gizitrack/stuntmap/internal/domain/screening"
)

func TestAggregateGroupsByNormalizedKey(t *testing.T) {
	records := []screening.Record{
		{RegionName: "Kec A", Stunting: true},
		{RegionName: "kec a ", Stunting: false},
		{RegionName: "  KEC A", Stunting: false},
		{RegionName: "Kec B", Stunting: true},
	}

	stats := Aggregate(records)

	require.Equal(t, 2, stats.Len())
	assert.Equal(t, []string{"KEC A", "KEC B"}, stats.Keys())

	a, ok := stats.Get("KEC A")
	require.True(t, ok)
	assert.Equal(t, "Kec A", a.RawName, "first-seen raw spelling wins")
	assert.Equal(t, 3, a.Total)
	assert.Equal(t, 1, a.Stunting)
	assert.InDelta(t, 33.33, a.Percentage, 0.0001)

	b, ok := stats.Get("KEC B")
	require.True(t, ok)
	assert.Equal(t, 1, b.Total)
	assert.Equal(t, 1, b.Stunting)
	assert.InDelta(t, 100.0, b.Percentage, 0.0001)
}

func TestAggregatePreservesFirstSeenOrder(t *testing.T) {
	records := []screening.Record{
		{RegionName: "Tarik"},
		{RegionName: "Waru"},
		{RegionName: "Candi"},
		{RegionName: "waru"},
		{RegionName: "TARIK"},
	}

	stats := Aggregate(records)
	assert.Equal(t, []string{"TARIK", "WARU", "CANDI"}, stats.Keys())

	all := stats.All()
	require.Len(t, all, 3)
	assert.Equal(t, "TARIK", all[0].Key)
	assert.Equal(t, "WARU", all[1].Key)
	assert.Equal(t, "CANDI", all[2].Key)
}

func TestAggregateStatusBreakdowns(t *testing.T) {
	records := []screening.Record{
		{
			RegionName:      "Waru",
			Gender:          screening.GenderMale,
			Stunting:        true,
			HeightForAge:    screening.HeightSeverelyShort,
			WeightForHeight: screening.WeightHeightWasted,
			WeightForAge:    screening.WeightAgeUnderweight,
		},
		{
			RegionName:      "Waru",
			Gender:          screening.GenderFemale,
			HeightForAge:    screening.HeightShort,
			WeightForHeight: screening.WeightHeightSeverelyWasted,
			WeightForAge:    screening.WeightAgeSeverelyUnderweight,
		},
		{
			RegionName:      "Waru",
			Gender:          screening.GenderFemale,
			HeightForAge:    screening.HeightNormal,
			WeightForHeight: screening.WeightHeightNormal,
			WeightForAge:    screening.WeightAgeNormal,
		},
	}

	stats := Aggregate(records)
	st, ok := stats.Get("WARU")
	require.True(t, ok)

	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 1, st.Stunting)
	assert.Equal(t, 1, st.Short)
	assert.Equal(t, 1, st.SeverelyShort)
	assert.Equal(t, 1, st.Wasted)
	assert.Equal(t, 1, st.SeverelyWasted)
	assert.Equal(t, 1, st.Underweight)
	assert.Equal(t, 1, st.SeverelyUnderweight)
	assert.Equal(t, 1, st.Male)
	assert.Equal(t, 2, st.Female)
}

func TestAggregateEmptyInput(t *testing.T) {
	stats := Aggregate(nil)
	assert.Equal(t, 0, stats.Len())
	assert.Empty(t, stats.Keys())
	assert.Empty(t, stats.All())
}

func TestAggregateDegenerateKey(t *testing.T) {
	records := []screening.Record{
		{RegionName: "   ", Stunting: true},
		{RegionName: "", Stunting: false},
	}

	stats := Aggregate(records)
	require.Equal(t, 1, stats.Len())

	st, ok := stats.Get("")
	require.True(t, ok)
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.Stunting)
}

func TestAggregateIsDeterministic(t *testing.T) {
	records := []screening.Record{
		{RegionName: "Kec A", Stunting: true, Gender: screening.GenderMale},
		{RegionName: "kec a ", Stunting: false, Gender: screening.GenderFemale},
		{RegionName: "Kec B", Stunting: true},
	}

	first := Aggregate(records)
	second := Aggregate(records)

	assert.Equal(t, first.Keys(), second.Keys())
	for _, key := range first.Keys() {
		a, _ := first.Get(key)
		b, _ := second.Get(key)
		assert.Equal(t, *a, *b)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name  string
		part  int
		total int
		want  float64
	}{
		{"zero total is zero, not an error", 5, 0, 0},
		{"zero part", 0, 10, 0},
		{"exact half", 1, 2, 50.00},
		{"one third rounds to 2 decimals", 1, 3, 33.33},
		{"two thirds rounds up", 2, 3, 66.67},
		{"full", 7, 7, 100.00},
		{"one in eight", 1, 8, 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentage(tt.part, tt.total), 0.0001)
		})
	}
}
