// Package app wires configuration into running components: sources,
// pipeline service, cache, alerting, metrics, and the HTTP server.  Both
// the server binary and the CLI build from here so every entry point gets
// identical wiring.
package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/gizitrack/stuntmap/internal/application/analytics"
	"github.com/gizitrack/stuntmap/internal/config"
	"github.com/gizitrack/stuntmap/internal/domain/screening"
	"github.com/gizitrack/stuntmap/internal/infrastructure/database/postgres"
	"github.com/gizitrack/stuntmap/internal/infrastructure/database/redis"
	"github.com/gizitrack/stuntmap/internal/infrastructure/messaging/kafka"
	"github.com/gizitrack/stuntmap/internal/infrastructure/monitoring/logging"
	"github.com/gizitrack/stuntmap/internal/infrastructure/monitoring/prometheus"
	"github.com/gizitrack/stuntmap/internal/infrastructure/source"
	httpiface "github.com/gizitrack/stuntmap/internal/interfaces/http"
	"github.com/gizitrack/stuntmap/internal/interfaces/http/handlers"
)

// Components holds everything a built application exposes.
type Components struct {
	Config  *config.Config
	Logger  logging.Logger
	Service *analytics.Service
	Metrics *prometheus.Metrics

	records screening.Repository
	catalog analytics.CatalogSource
	redis   *goredis.Client
	watcher *source.Watcher
	checks  []handlers.ReadinessCheck
	closers []func() error
}

// Build assembles every component from config.  Optional collaborators
// (Redis, Kafka, the file watcher) attach only when enabled.
func Build(cfg *config.Config, log logging.Logger) (*Components, error) {
	c := &Components{
		Config:  cfg,
		Logger:  log,
		Metrics: prometheus.New(),
	}

	if err := c.buildRecordSource(cfg, log); err != nil {
		return nil, err
	}
	if err := c.buildCatalogSource(cfg, log); err != nil {
		return nil, err
	}

	opts := []analytics.ServiceOption{analytics.WithObserver(c.Metrics)}

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		c.redis = client
		c.closers = append(c.closers, client.Close)
		c.checks = append(c.checks, handlers.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
		opts = append(opts, analytics.WithCache(
			redis.NewSnapshotCache(client, cfg.Redis.KeyPrefix, cfg.Redis.DefaultTTL, log)))
	}

	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, log)
		c.closers = append(c.closers, producer.Close)
		opts = append(opts, analytics.WithAlerts(kafka.NewAlertSink(producer, log)))
	}

	c.Service = analytics.NewService(c.records, c.catalog, log, opts...)

	c.checks = append(c.checks,
		handlers.ReadinessCheck{
			Name: "records",
			Check: func(ctx context.Context) error {
				_, err := c.records.Fingerprint(ctx)
				return err
			},
		},
		handlers.ReadinessCheck{
			Name: "boundaries",
			Check: func(ctx context.Context) error {
				_, err := c.catalog.Fingerprint(ctx)
				return err
			},
		},
	)

	return c, nil
}

func (c *Components) buildRecordSource(cfg *config.Config, log logging.Logger) error {
	var repo screening.Repository

	switch cfg.Records.Source {
	case "csv":
		repo = source.NewCSVRecordSource(source.NewFileSource(cfg.Records.Path))
	case "postgres":
		conn, err := postgres.NewConnection(cfg.Database, log)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, conn.Close)
		if cfg.Database.MigrationPath != "" {
			if err := conn.RunMigrations(cfg.Database.MigrationPath); err != nil {
				return err
			}
		}
		repo = postgres.NewScreeningRepo(conn)
	case "minio":
		client, err := source.NewObjectClient(cfg.MinIO, log)
		if err != nil {
			return err
		}
		repo = source.NewCSVRecordSource(
			source.NewObjectSource(client, cfg.MinIO.Bucket, cfg.Records.Object))
	default:
		return fmt.Errorf("unsupported records source %q", cfg.Records.Source)
	}

	memo := source.NewMemoRecordSource(repo)
	c.records = memo

	if cfg.Records.Watch && cfg.Records.Source == "csv" {
		if err := c.watch(cfg.Records.Path, memo, log); err != nil {
			return err
		}
	}
	return nil
}

func (c *Components) buildCatalogSource(cfg *config.Config, log logging.Logger) error {
	var raw source.RawSource

	switch cfg.Boundaries.Source {
	case "file":
		raw = source.NewFileSource(cfg.Boundaries.Path)
	case "minio":
		client, err := source.NewObjectClient(cfg.MinIO, log)
		if err != nil {
			return err
		}
		raw = source.NewObjectSource(client, cfg.MinIO.Bucket, cfg.Boundaries.Object)
	default:
		return fmt.Errorf("unsupported boundaries source %q", cfg.Boundaries.Source)
	}

	memo := source.NewMemoCatalogSource(
		source.NewGeoJSONCatalogSource(raw, cfg.Boundaries.NameKeys))
	c.catalog = memo

	if cfg.Records.Watch && cfg.Boundaries.Source == "file" {
		if err := c.watch(cfg.Boundaries.Path, memo, log); err != nil {
			return err
		}
	}
	return nil
}

func (c *Components) watch(path string, inv source.Invalidator, log logging.Logger) error {
	if c.watcher == nil {
		w, err := source.NewWatcher(log)
		if err != nil {
			return err
		}
		c.watcher = w
		w.Start()
		c.closers = append(c.closers, w.Close)
	}
	return c.watcher.Add(path, inv)
}

// ReadinessChecks returns the dependency probes for /readyz.
func (c *Components) ReadinessChecks() []handlers.ReadinessCheck {
	return c.checks
}

// Close releases every held resource in reverse construction order.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.Logger.Warn("failed to close component", logging.Err(err))
		}
	}
	c.closers = nil
}

// RunServer builds the components and serves the API until ctx is
// cancelled.
func RunServer(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	components, err := Build(cfg, log)
	if err != nil {
		return err
	}
	defer components.Close()

	router := httpiface.NewRouter(httpiface.RouterConfig{
		StatsHandler:   handlers.NewStatsHandler(components.Service),
		MapHandler:     handlers.NewMapHandler(components.Service),
		MetaHandler:    handlers.NewMetaHandler(components.Service),
		HealthHandler:  handlers.NewHealthHandler(components.ReadinessChecks()...),
		MetricsHandler: components.Metrics.Handler(),
		HTTPObserver:   components.Metrics,
		CORSOrigins:    cfg.Server.CORSOrigins,
		Logger:         log,
	})
	server := httpiface.NewServer(cfg.Server, router, log)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Stop(shutdownCtx)
	}
}
