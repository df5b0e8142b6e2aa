package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/gizitrack/stuntmap/internal/domain/region"
	"github.com/gizitrack/stuntmap/internal/domain/screening"
	"github.com/gizitrack/stuntmap/internal/infrastructure/monitoring/logging"
	appErrors "github.com/gizitrack/stuntmap/pkg/errors"
	"github.com/gizitrack/stuntmap/pkg/normalize"
)

// TrendPlaceholder is the month-over-month trend figure shown on the
// dashboard summary.  The upstream system hardcodes it; no historical data
// backs it, so it is carried as a constant rather than computed.
const TrendPlaceholder = 2.5

// CatalogSource loads the boundary catalog.  Implementations read from a
// local file or object storage and may memoize the parsed catalog per
// content fingerprint.
type CatalogSource interface {
	Load(ctx context.Context) (*region.Catalog, error)
	Fingerprint(ctx context.Context) (string, error)
}

// DatasetCache memoizes fully-built unfiltered datasets per source
// fingerprint.  A cache is optional; a nil cache disables memoization.
type DatasetCache interface {
	// Get returns the cached dataset for fingerprint, or false on a miss.
	// Cache failures degrade to a miss; they never fail the pipeline.
	Get(ctx context.Context, fingerprint string) (*Dataset, bool)

	// Put stores the dataset under fingerprint.
	Put(ctx context.Context, fingerprint string, ds *Dataset)
}

// RegionAlert is one high-risk region notification handed to the alert
// publisher when a freshly-built dataset crosses the High threshold.
type RegionAlert struct {
	ID          string    `json:"id"`
	RegionKey   string    `json:"region_key"`
	RegionName  string    `json:"region_name"`
	Total       int       `json:"total"`
	Stunting    int       `json:"stunting"`
	Percentage  float64   `json:"percentage"`
	Category    string    `json:"category"`
	Prediction  string    `json:"prediction"`
	GeneratedAt time.Time `json:"generated_at"`
}

// AlertPublisher delivers intervention alerts for high-risk regions.
// Optional; a nil publisher disables alerting.
type AlertPublisher interface {
	PublishHighRisk(ctx context.Context, alerts []RegionAlert) error
}

// Observer receives pipeline measurements.  Optional; a nil observer
// disables instrumentation.
type Observer interface {
	ObservePipeline(duration time.Duration, records, regions int, cacheHit bool)
	SetUnmatched(statsSide, featureSide int)
}

// StatsRow is one row of the statistics table: the aggregated metrics plus
// the risk classification.
type StatsRow struct {
	RegionStats
	Category   RiskCategory `json:"category"`
	Prediction string       `json:"prediction"`
}

// Summary holds the dashboard headline figures for the whole record set.
type Summary struct {
	TotalRecords      int     `json:"total_records"`
	TotalStunting     int     `json:"total_stunting"`
	OverallPercentage float64 `json:"overall_percentage"`
	RegionCount       int     `json:"region_count"`

	// TrendPct is a non-functional placeholder (see TrendPlaceholder).
	TrendPct float64 `json:"trend_pct"`
}

// Diagnostics reports name mismatches between the two sources.  Mismatches
// are a recovered condition, not an error: the dashboard shows them as a
// warning so an operator can fix the source data.
type Diagnostics struct {
	UnmatchedStatsKeys   []string `json:"unmatched_stats_keys"`
	UnmatchedStatsNames  []string `json:"unmatched_stats_names"`
	UnmatchedFeatureKeys []string `json:"unmatched_feature_keys"`
}

// Dataset is one complete pipeline output: the statistics table, the joined
// feature set, and the join diagnostics.  Produced fresh per request (or
// served from the snapshot cache for unfiltered requests).
type Dataset struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Fingerprint string        `json:"fingerprint"`
	Filtered    bool          `json:"filtered"`
	Stats       []StatsRow    `json:"stats"`
	Features    []JoinedFeature `json:"features"`
	Diagnostics Diagnostics   `json:"diagnostics"`
	Summary     Summary       `json:"summary"`
}

// Service runs the pipeline end to end: fetch records, filter, aggregate,
// classify, join, publish alerts.  The catalog and record sources are
// injected; cache, alerts, and observer are optional.
type Service struct {
	records   screening.Repository
	catalog   CatalogSource
	cache     DatasetCache
	alerts    AlertPublisher
	observer  Observer
	logger    logging.Logger
}

// ServiceOption configures optional Service collaborators.
type ServiceOption func(*Service)

// WithCache attaches a dataset snapshot cache.
func WithCache(c DatasetCache) ServiceOption {
	return func(s *Service) { s.cache = c }
}

// WithAlerts attaches a high-risk alert publisher.
func WithAlerts(p AlertPublisher) ServiceOption {
	return func(s *Service) { s.alerts = p }
}

// WithObserver attaches a pipeline metrics observer.
func WithObserver(o Observer) ServiceOption {
	return func(s *Service) { s.observer = o }
}

// NewService constructs the pipeline service.
func NewService(records screening.Repository, catalog CatalogSource, log logging.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		records: records,
		catalog: catalog,
		logger:  log.Named("analytics"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dataset builds the complete statistics dataset for the given selection.
// Unfiltered datasets are memoized per source fingerprint; filtered ones
// are always computed fresh (a linear scan, cheap by design).  Load errors
// from either source halt the run and propagate.
func (s *Service) Dataset(ctx context.Context, sel Selection) (*Dataset, error) {
	start := time.Now()

	fingerprint, err := s.fingerprint(ctx)
	if err != nil {
		return nil, err
	}

	unfiltered := sel.IsAll()
	if unfiltered && s.cache != nil {
		if ds, ok := s.cache.Get(ctx, fingerprint); ok {
			if s.observer != nil {
				s.observer.ObservePipeline(time.Since(start), ds.Summary.TotalRecords, len(ds.Stats), true)
			}
			return ds, nil
		}
	}

	records, err := s.records.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}

	if !unfiltered {
		records = Filter(records, sel)
	}

	ds := s.build(records, catalog, fingerprint, !unfiltered)

	if len(ds.Diagnostics.UnmatchedStatsKeys) > 0 {
		s.logger.Warn("regions in records have no boundary match",
			logging.Strings("raw_names", ds.Diagnostics.UnmatchedStatsNames),
			logging.Strings("keys", ds.Diagnostics.UnmatchedStatsKeys),
		)
	}

	if unfiltered {
		if s.cache != nil {
			s.cache.Put(ctx, fingerprint, ds)
		}
		s.publishAlerts(ctx, ds)
	}

	if s.observer != nil {
		s.observer.ObservePipeline(time.Since(start), len(records), len(ds.Stats), false)
		s.observer.SetUnmatched(len(ds.Diagnostics.UnmatchedStatsKeys), len(ds.Diagnostics.UnmatchedFeatureKeys))
	}

	return ds, nil
}

// build assembles a Dataset from an already-loaded record set and catalog.
func (s *Service) build(records []screening.Record, catalog *region.Catalog, fingerprint string, filtered bool) *Dataset {
	stats := Aggregate(records)
	join := Join(catalog, stats)

	rows := make([]StatsRow, 0, stats.Len())
	totalStunting := 0
	for _, st := range stats.All() {
		category, prediction := Classify(st.Percentage)
		rows = append(rows, StatsRow{RegionStats: *st, Category: category, Prediction: prediction})
		totalStunting += st.Stunting
	}

	return &Dataset{
		GeneratedAt: time.Now().UTC(),
		Fingerprint: fingerprint,
		Filtered:    filtered,
		Stats:       rows,
		Features:    join.Features,
		Diagnostics: Diagnostics{
			UnmatchedStatsKeys:   join.UnmatchedStatsKeys,
			UnmatchedStatsNames:  join.UnmatchedStatsNames,
			UnmatchedFeatureKeys: join.UnmatchedFeatureKeys,
		},
		Summary: Summary{
			TotalRecords:      len(records),
			TotalStunting:     totalStunting,
			OverallPercentage: Percentage(totalStunting, len(records)),
			RegionCount:       stats.Len(),
			TrendPct:          TrendPlaceholder,
		},
	}
}

// publishAlerts emits one alert per High-category region.  Alert delivery
// failures are logged and swallowed: alerting is downstream of the
// dataset, never a reason to fail the request that produced it.
func (s *Service) publishAlerts(ctx context.Context, ds *Dataset) {
	if s.alerts == nil {
		return
	}

	var alerts []RegionAlert
	now := time.Now().UTC()
	for _, row := range ds.Stats {
		if row.Category != CategoryHigh {
			continue
		}
		alerts = append(alerts, RegionAlert{
			ID:          uuid.NewString(),
			RegionKey:   row.Key,
			RegionName:  row.RawName,
			Total:       row.Total,
			Stunting:    row.Stunting,
			Percentage:  row.Percentage,
			Category:    string(row.Category),
			Prediction:  row.Prediction,
			GeneratedAt: now,
		})
	}
	if len(alerts) == 0 {
		return
	}

	if err := s.alerts.PublishHighRisk(ctx, alerts); err != nil {
		s.logger.Error("failed to publish high-risk alerts",
			logging.Int("alerts", len(alerts)),
			logging.Err(err),
		)
	}
}

// Regions lists the filterable region options: every distinct normalized
// key present in either source, with the catalog's raw spelling preferred
// for display, sorted by key.
func (s *Service) Regions(ctx context.Context) ([]RegionOption, error) {
	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.records.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	options := make(map[string]RegionOption)
	for _, key := range catalog.Keys() {
		feat, _ := catalog.Lookup(key)
		options[key] = RegionOption{Key: key, Name: feat.RawName, InCatalog: true}
	}
	for _, r := range records {
		key := r.RegionKey()
		if _, ok := options[key]; !ok {
			options[key] = RegionOption{Key: key, Name: r.RegionName}
		}
	}

	out := make([]RegionOption, 0, len(options))
	for _, opt := range options {
		out = append(out, opt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// RegionOption is one entry of the region filter dropdown.
type RegionOption struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	InCatalog bool   `json:"in_catalog"`
}

// Facilities lists the distinct facility names in the record set, sorted.
func (s *Service) Facilities(ctx context.Context) ([]string, error) {
	records, err := s.records.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string)
	for _, r := range records {
		key := normalize.Key(r.FacilityName)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; !ok {
			seen[key] = r.FacilityName
		}
	}

	out := make([]string, 0, len(seen))
	for _, name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// fingerprint combines the record and boundary fingerprints into the
// memoization key for one coherent snapshot of both sources.
func (s *Service) fingerprint(ctx context.Context) (string, error) {
	rf, err := s.records.Fingerprint(ctx)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.CodeUnknown, "failed to fingerprint record source")
	}
	bf, err := s.catalog.Fingerprint(ctx)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.CodeUnknown, "failed to fingerprint boundary source")
	}
	return rf + "|" + bf, nil
}
