package config

import "time"

// Default values applied to unset fields before validation.
const (
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultRecordsSource    = "csv"
	DefaultRecordsPath      = "data/data_skrining_stunting.csv"
	DefaultBoundariesSource = "file"
	DefaultBoundariesPath   = "data/kecamatan_sidoarjo.geojson"

	DefaultRedisTTL       = 15 * time.Minute
	DefaultRedisKeyPrefix = "stuntmap:"

	DefaultKafkaAlertTopic = "stuntmap.alerts.high-risk"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultNameKeys is the priority-ordered list of GeoJSON property names the
// kecamatan name is resolved from.  The upstream boundary exports are
// inconsistent about which one they use.
var DefaultNameKeys = []string{"WADMKC", "WADMKEC", "kecamatan"}

// ApplyDefaults fills every unset field of cfg with its default value.
// Explicitly-set values are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Records.Source == "" {
		cfg.Records.Source = DefaultRecordsSource
	}
	if cfg.Records.Source == "csv" && cfg.Records.Path == "" {
		cfg.Records.Path = DefaultRecordsPath
	}

	if cfg.Boundaries.Source == "" {
		cfg.Boundaries.Source = DefaultBoundariesSource
	}
	if cfg.Boundaries.Source == "file" && cfg.Boundaries.Path == "" {
		cfg.Boundaries.Path = DefaultBoundariesPath
	}
	if len(cfg.Boundaries.NameKeys) == 0 {
		cfg.Boundaries.NameKeys = append([]string(nil), DefaultNameKeys...)
	}

	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 10
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = "migrations"
	}

	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}

	if cfg.Kafka.AlertTopic == "" {
		cfg.Kafka.AlertTopic = DefaultKafkaAlertTopic
	}
	if cfg.Kafka.BatchSize == 0 {
		cfg.Kafka.BatchSize = 100
	}
	if cfg.Kafka.Timeout == 0 {
		cfg.Kafka.Timeout = 10 * time.Second
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// NewDefaultConfig returns a Config populated entirely from defaults.
// Useful for local development and tests.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
