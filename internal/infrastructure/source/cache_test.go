package source

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gizitrack/stuntmap/internal/domain/screening"
)

type countingRepo struct {
	mu          sync.Mutex
	records     []screening.Record
	fingerprint string
	fetches     int
}

func (c *countingRepo) FetchAll(ctx context.Context) ([]screening.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetches++
	return c.records, nil
}

func (c *countingRepo) Fingerprint(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fingerprint, nil
}

func (c *countingRepo) set(fingerprint string, records []screening.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fingerprint = fingerprint
	c.records = records
}

func (c *countingRepo) fetchCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}

func TestMemoRecordSourceReusesUnchangedData(t *testing.T) {
	repo := &countingRepo{}
	repo.set("v1", []screening.Record{{RegionName: "Waru"}})
	memo := NewMemoRecordSource(repo)

	for i := 0; i < 3; i++ {
		records, err := memo.FetchAll(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 1)
	}
	assert.Equal(t, 1, repo.fetchCount())
}

func TestMemoRecordSourceReloadsOnFingerprintChange(t *testing.T) {
	repo := &countingRepo{}
	repo.set("v1", []screening.Record{{RegionName: "Waru"}})
	memo := NewMemoRecordSource(repo)

	_, err := memo.FetchAll(context.Background())
	require.NoError(t, err)

	repo.set("v2", []screening.Record{{RegionName: "Waru"}, {RegionName: "Candi"}})
	records, err := memo.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 2, repo.fetchCount())
}

func TestMemoRecordSourceInvalidate(t *testing.T) {
	repo := &countingRepo{}
	repo.set("v1", []screening.Record{{RegionName: "Waru"}})
	memo := NewMemoRecordSource(repo)

	_, err := memo.FetchAll(context.Background())
	require.NoError(t, err)

	memo.Invalidate()
	_, err = memo.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.fetchCount())
}

func TestMemoRecordSourceConcurrentLoads(t *testing.T) {
	repo := &countingRepo{}
	repo.set("v1", []screening.Record{{RegionName: "Waru"}})
	memo := NewMemoRecordSource(repo)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := memo.FetchAll(context.Background())
			assert.NoError(t, err)
			assert.Len(t, records, 1)
		}()
	}
	wg.Wait()

	// Concurrent first loads collapse; an exact count is scheduler
	// dependent but it must stay far below the caller count.
	assert.LessOrEqual(t, repo.fetchCount(), 2)
}

func TestMemoCatalogSourceReusesParsedCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boundaries.geojson")
	require.NoError(t, os.WriteFile(path, []byte(sampleGeoJSON), 0o644))
	memo := NewMemoCatalogSource(NewGeoJSONCatalogSource(NewFileSource(path), []string{"WADMKC", "WADMKEC"}))

	first, err := memo.Load(context.Background())
	require.NoError(t, err)
	second, err := memo.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second, "unchanged source serves the same catalog instance")

	memo.Invalidate()
	third, err := memo.Load(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, first.Keys(), third.Keys())
}
