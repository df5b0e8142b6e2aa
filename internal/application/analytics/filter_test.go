package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gizitrack/stuntmap/internal/domain/screening"
)

func filterFixture() []screening.Record {
	return []screening.Record{
		{RegionName: "Waru", FacilityName: "Puskesmas Waru"},
		{RegionName: "waru ", FacilityName: "Puskesmas Medaeng"},
		{RegionName: "Candi", FacilityName: "Puskesmas Candi"},
		{RegionName: "Tarik", FacilityName: "Puskesmas Tarik"},
	}
}

func TestSelectionIsAll(t *testing.T) {
	assert.True(t, Selection{}.IsAll())
	assert.True(t, Selection{Regions: []string{"all"}}.IsAll())
	assert.True(t, Selection{Regions: []string{" ALL "}, Facilities: []string{"All"}}.IsAll())
	assert.False(t, Selection{Regions: []string{"Waru"}}.IsAll())
	assert.False(t, Selection{Facilities: []string{"Puskesmas Waru"}}.IsAll())

	// The sentinel anywhere in the list disables that dimension.
	assert.True(t, Selection{Regions: []string{"Waru", "all"}}.IsAll())
}

func TestFilterAllReturnsEverything(t *testing.T) {
	records := filterFixture()
	out := Filter(records, Selection{Regions: []string{"all"}})
	assert.Equal(t, records, out)
}

func TestFilterByRegionNormalizes(t *testing.T) {
	out := Filter(filterFixture(), Selection{Regions: []string{" waru"}})
	require.Len(t, out, 2)
	assert.Equal(t, "Waru", out[0].RegionName)
	assert.Equal(t, "waru ", out[1].RegionName)
}

func TestFilterByFacility(t *testing.T) {
	out := Filter(filterFixture(), Selection{Facilities: []string{"puskesmas candi"}})
	require.Len(t, out, 1)
	assert.Equal(t, "Candi", out[0].RegionName)
}

func TestFilterBothDimensionsIntersect(t *testing.T) {
	out := Filter(filterFixture(), Selection{
		Regions:    []string{"Waru"},
		Facilities: []string{"Puskesmas Medaeng"},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "Puskesmas Medaeng", out[0].FacilityName)
}

func TestFilterNoMatchIsEmptyNotError(t *testing.T) {
	out := Filter(filterFixture(), Selection{Regions: []string{"Nowhere"}})
	assert.Empty(t, out)
	assert.NotNil(t, out)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := filterFixture()
	snapshot := make([]screening.Record, len(records))
	copy(snapshot, records)

	out := Filter(records, Selection{Regions: []string{"Waru"}})
	out = append(out, screening.Record{RegionName: "Injected"})
	_ = out

	assert.Equal(t, snapshot, records)
}
