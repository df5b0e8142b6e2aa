package source

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/gizitrack/stuntmap/internal/domain/region"
	"github.com/gizitrack/stuntmap/internal/domain/screening"
)

// MemoRecordSource wraps a screening repository and memoizes the parsed
// record set per source fingerprint.  Concurrent loads for the same
// fingerprint collapse into one fetch; a fingerprint change or an explicit
// Invalidate drops the memo.
type MemoRecordSource struct {
	inner screening.Repository

	group singleflight.Group

	mu          sync.RWMutex
	fingerprint string
	records     []screening.Record
}

// NewMemoRecordSource wraps inner with fingerprint memoization.
func NewMemoRecordSource(inner screening.Repository) *MemoRecordSource {
	return &MemoRecordSource{inner: inner}
}

// FetchAll returns the memoized record set when the source fingerprint is
// unchanged, loading through the inner repository otherwise.
func (m *MemoRecordSource) FetchAll(ctx context.Context) ([]screening.Record, error) {
	fp, err := m.inner.Fingerprint(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	if m.fingerprint == fp && m.records != nil {
		records := m.records
		m.mu.RUnlock()
		return records, nil
	}
	m.mu.RUnlock()

	v, err, _ := m.group.Do(fp, func() (interface{}, error) {
		records, err := m.inner.FetchAll(ctx)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.fingerprint = fp
		m.records = records
		m.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]screening.Record), nil
}

// Fingerprint delegates to the inner repository.
func (m *MemoRecordSource) Fingerprint(ctx context.Context) (string, error) {
	return m.inner.Fingerprint(ctx)
}

// Invalidate drops the memoized record set.
func (m *MemoRecordSource) Invalidate() {
	m.mu.Lock()
	m.fingerprint = ""
	m.records = nil
	m.mu.Unlock()
}

// MemoCatalogSource memoizes the parsed boundary catalog per source
// fingerprint, same scheme as MemoRecordSource.  The catalog is read-only
// after construction, so handing the same instance to every caller is safe.
type MemoCatalogSource struct {
	inner interface {
		Load(ctx context.Context) (*region.Catalog, error)
		Fingerprint(ctx context.Context) (string, error)
	}

	group singleflight.Group

	mu          sync.RWMutex
	fingerprint string
	catalog     *region.Catalog
}

// NewMemoCatalogSource wraps inner with fingerprint memoization.
func NewMemoCatalogSource(inner *GeoJSONCatalogSource) *MemoCatalogSource {
	return &MemoCatalogSource{inner: inner}
}

// Load returns the memoized catalog when the source fingerprint is
// unchanged, loading and parsing otherwise.
func (m *MemoCatalogSource) Load(ctx context.Context) (*region.Catalog, error) {
	fp, err := m.inner.Fingerprint(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	if m.fingerprint == fp && m.catalog != nil {
		catalog := m.catalog
		m.mu.RUnlock()
		return catalog, nil
	}
	m.mu.RUnlock()

	v, err, _ := m.group.Do(fp, func() (interface{}, error) {
		catalog, err := m.inner.Load(ctx)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.fingerprint = fp
		m.catalog = catalog
		m.mu.Unlock()
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*region.Catalog), nil
}

// Fingerprint delegates to the inner source.
func (m *MemoCatalogSource) Fingerprint(ctx context.Context) (string, error) {
	return m.inner.Fingerprint(ctx)
}

// Invalidate drops the memoized catalog.
func (m *MemoCatalogSource) Invalidate() {
	m.mu.Lock()
	m.fingerprint = ""
	m.catalog = nil
	m.mu.Unlock()
}
