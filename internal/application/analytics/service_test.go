package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gizitrack/stuntmap/internal/domain/region"
	"github.com/gizitrack/stuntmap/internal/domain/screening"
	"github.com/gizitrack/stuntmap/internal/infrastructure/monitoring/logging"
	appErrors "github.com/gizitrack/stuntmap/pkg/errors"
)

type stubRepo struct {
	records     []screening.Record
	fingerprint string
	err         error
	fetches     int
}

func (s *stubRepo) FetchAll(ctx context.Context) ([]screening.Record, error) {
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *stubRepo) Fingerprint(ctx context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.fingerprint, nil
}

type stubCatalogSource struct {
	catalog     *region.Catalog
	fingerprint string
	err         error
	loads       int
}

func (s *stubCatalogSource) Load(ctx context.Context) (*region.Catalog, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.catalog, nil
}

func (s *stubCatalogSource) Fingerprint(ctx context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.fingerprint, nil
}

type memoryCache struct {
	entries map[string]*Dataset
	hits    int
	puts    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*Dataset)}
}

func (c *memoryCache) Get(ctx context.Context, fingerprint string) (*Dataset, bool) {
	ds, ok := c.entries[fingerprint]
	if ok {
		c.hits++
	}
	return ds, ok
}

func (c *memoryCache) Put(ctx context.Context, fingerprint string, ds *Dataset) {
	c.puts++
	c.entries[fingerprint] = ds
}

type captureAlerts struct {
	published [][]RegionAlert
	err       error
}

func (c *captureAlerts) PublishHighRisk(ctx context.Context, alerts []RegionAlert) error {
	c.published = append(c.published, alerts)
	return c.err
}

type captureObserver struct {
	observations int
	cacheHits    int
	statsSide    int
	featureSide  int
}

func (o *captureObserver) ObservePipeline(d time.Duration, records, regions int, cacheHit bool) {
	o.observations++
	if cacheHit {
		o.cacheHits++
	}
}

func (o *captureObserver) SetUnmatched(statsSide, featureSide int) {
	o.statsSide = statsSide
	o.featureSide = featureSide
}

func newTestService(t *testing.T, repo *stubRepo, src *stubCatalogSource, opts ...ServiceOption) *Service {
	t.Helper()
	return NewService(repo, src, logging.NewNopLogger(), opts...)
}

func TestServiceDataset(t *testing.T) {
	repo := &stubRepo{
		records: []screening.Record{
			{RegionName: "Kec A", FacilityName: "Puskesmas A", Stunting: true},
			{RegionName: "kec a ", FacilityName: "Puskesmas A"},
			{RegionName: "Kec B", FacilityName: "Puskesmas B", Stunting: true},
		},
		fingerprint: "rec-v1",
	}
	src := &stubCatalogSource{catalog: testCatalog(t, "KEC A", "KEC C"), fingerprint: "geo-v1"}
	observer := &captureObserver{}
	svc := newTestService(t, repo, src, WithObserver(observer))

	ds, err := svc.Dataset(context.Background(), Selection{})
	require.NoError(t, err)

	assert.Equal(t, "rec-v1|geo-v1", ds.Fingerprint)
	assert.False(t, ds.Filtered)

	require.Len(t, ds.Stats, 2)
	assert.Equal(t, "KEC A", ds.Stats[0].Key)
	assert.Equal(t, CategoryHigh, ds.Stats[0].Category)
	assert.Equal(t, "KEC B", ds.Stats[1].Key)

	require.Len(t, ds.Features, 2)
	assert.Equal(t, "KEC A", ds.Features[0].ID)
	assert.Equal(t, "KEC C", ds.Features[1].ID)
	assert.False(t, ds.Features[1].HasData)

	assert.Equal(t, []string{"KEC B"}, ds.Diagnostics.UnmatchedStatsKeys)
	assert.Equal(t, []string{"KEC C"}, ds.Diagnostics.UnmatchedFeatureKeys)

	assert.Equal(t, 3, ds.Summary.TotalRecords)
	assert.Equal(t, 2, ds.Summary.TotalStunting)
	assert.InDelta(t, 66.67, ds.Summary.OverallPercentage, 0.0001)
	assert.Equal(t, 2, ds.Summary.RegionCount)
	assert.InDelta(t, TrendPlaceholder, ds.Summary.TrendPct, 0.0001)

	assert.Equal(t, 1, observer.observations)
	assert.Equal(t, 1, observer.statsSide)
	assert.Equal(t, 1, observer.featureSide)
}

func TestServiceDatasetFiltered(t *testing.T) {
	repo := &stubRepo{
		records: []screening.Record{
			{RegionName: "Waru", Stunting: true},
			{RegionName: "Candi"},
		},
		fingerprint: "rec-v1",
	}
	src := &stubCatalogSource{catalog: testCatalog(t, "WARU", "CANDI"), fingerprint: "geo-v1"}
	cache := newMemoryCache()
	svc := newTestService(t, repo, src, WithCache(cache))

	ds, err := svc.Dataset(context.Background(), Selection{Regions: []string{"Waru"}})
	require.NoError(t, err)

	assert.True(t, ds.Filtered)
	assert.Equal(t, 1, ds.Summary.TotalRecords)
	require.Len(t, ds.Stats, 1)
	assert.Equal(t, "WARU", ds.Stats[0].Key)

	// Filtered datasets bypass the snapshot cache entirely.
	assert.Equal(t, 0, cache.puts)
}

func TestServiceDatasetCacheRoundTrip(t *testing.T) {
	repo := &stubRepo{
		records:     []screening.Record{{RegionName: "Waru", Stunting: true}},
		fingerprint: "rec-v1",
	}
	src := &stubCatalogSource{catalog: testCatalog(t, "WARU"), fingerprint: "geo-v1"}
	cache := newMemoryCache()
	observer := &captureObserver{}
	svc := newTestService(t, repo, src, WithCache(cache), WithObserver(observer))

	first, err := svc.Dataset(context.Background(), Selection{})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.puts)
	assert.Equal(t, 1, repo.fetches)

	second, err := svc.Dataset(context.Background(), Selection{})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, 1, repo.fetches, "cache hit skips the record fetch")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, observer.cacheHits)
}

func TestServiceDatasetInvalidatesOnFingerprintChange(t *testing.T) {
	repo := &stubRepo{
		records:     []screening.Record{{RegionName: "Waru", Stunting: true}},
		fingerprint: "rec-v1",
	}
	src := &stubCatalogSource{catalog: testCatalog(t, "WARU"), fingerprint: "geo-v1"}
	cache := newMemoryCache()
	svc := newTestService(t, repo, src, WithCache(cache))

	_, err := svc.Dataset(context.Background(), Selection{})
	require.NoError(t, err)

	repo.fingerprint = "rec-v2"
	_, err = svc.Dataset(context.Background(), Selection{})
	require.NoError(t, err)

	assert.Equal(t, 0, cache.hits)
	assert.Equal(t, 2, cache.puts)
	assert.Equal(t, 2, repo.fetches)
}

func TestServiceDatasetPropagatesLoadError(t *testing.T) {
	loadErr := appErrors.New(appErrors.ErrCodeSourceParse, "bad csv row")
	repo := &stubRepo{err: loadErr}
	src := &stubCatalogSource{catalog: testCatalog(t, "WARU"), fingerprint: "geo-v1"}
	svc := newTestService(t, repo, src)

	_, err := svc.Dataset(context.Background(), Selection{})
	require.Error(t, err)
	assert.True(t, appErrors.IsLoadError(err))
}

func TestServicePublishesHighRiskAlerts(t *testing.T) {
	repo := &stubRepo{
		records: []screening.Record{
			{RegionName: "Waru", Stunting: true},
			{RegionName: "Waru", Stunting: true},
			{RegionName: "Waru"},
			{RegionName: "Candi"},
		},
		fingerprint: "rec-v1",
	}
	src := &stubCatalogSource{catalog: testCatalog(t, "WARU", "CANDI"), fingerprint: "geo-v1"}
	sink := &captureAlerts{}
	svc := newTestService(t, repo, src, WithAlerts(sink))

	_, err := svc.Dataset(context.Background(), Selection{})
	require.NoError(t, err)

	require.Len(t, sink.published, 1)
	require.Len(t, sink.published[0], 1, "only High regions alert")

	alert := sink.published[0][0]
	assert.NotEmpty(t, alert.ID)
	assert.Equal(t, "WARU", alert.RegionKey)
	assert.Equal(t, "Waru", alert.RegionName)
	assert.InDelta(t, 66.67, alert.Percentage, 0.0001)
	assert.Equal(t, string(CategoryHigh), alert.Category)
}

func TestServiceAlertFailureDoesNotFailDataset(t *testing.T) {
	repo := &stubRepo{
		records:     []screening.Record{{RegionName: "Waru", Stunting: true}},
		fingerprint: "rec-v1",
	}
	src := &stubCatalogSource{catalog: testCatalog(t, "WARU"), fingerprint: "geo-v1"}
	sink := &captureAlerts{err: appErrors.New(appErrors.ErrCodeAlertPublishFailed, "broker down")}
	svc := newTestService(t, repo, src, WithAlerts(sink))

	ds, err := svc.Dataset(context.Background(), Selection{})
	require.NoError(t, err)
	assert.NotNil(t, ds)
	assert.Len(t, sink.published, 1)
}

func TestServiceNoAlertsForFilteredDatasets(t *testing.T) {
	repo := &stubRepo{
		records:     []screening.Record{{RegionName: "Waru", Stunting: true}},
		fingerprint: "rec-v1",
	}
	src := &stubCatalogSource{catalog: testCatalog(t, "WARU"), fingerprint: "geo-v1"}
	sink := &captureAlerts{}
	svc := newTestService(t, repo, src, WithAlerts(sink))

	_, err := svc.Dataset(context.Background(), Selection{Regions: []string{"Waru"}})
	require.NoError(t, err)
	assert.Empty(t, sink.published, "alerting reflects the full dataset only")
}

func TestServiceRegions(t *testing.T) {
	repo := &stubRepo{
		records: []screening.Record{
			{RegionName: "Kec B"},
			{RegionName: "kec a"},
		},
		fingerprint: "rec-v1",
	}
	src := &stubCatalogSource{catalog: testCatalog(t, "Kec A", "Kec C"), fingerprint: "geo-v1"}
	svc := newTestService(t, repo, src)

	options, err := svc.Regions(context.Background())
	require.NoError(t, err)
	require.Len(t, options, 3)

	assert.Equal(t, RegionOption{Key: "KEC A", Name: "Kec A", InCatalog: true}, options[0])
	assert.Equal(t, RegionOption{Key: "KEC B", Name: "Kec B", InCatalog: false}, options[1])
	assert.Equal(t, RegionOption{Key: "KEC C", Name: "Kec C", InCatalog: true}, options[2])
}

func TestServiceFacilities(t *testing.T) {
	repo := &stubRepo{
		records: []screening.Record{
			{RegionName: "Waru", FacilityName: "Puskesmas Waru"},
			{RegionName: "Waru", FacilityName: "puskesmas waru "},
			{RegionName: "Candi", FacilityName: "Puskesmas Candi"},
			{RegionName: "Candi", FacilityName: "   "},
		},
		fingerprint: "rec-v1",
	}
	src := &stubCatalogSource{catalog: testCatalog(t, "WARU"), fingerprint: "geo-v1"}
	svc := newTestService(t, repo, src)

	facilities, err := svc.Facilities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Puskesmas Candi", "Puskesmas Waru"}, facilities)
}
