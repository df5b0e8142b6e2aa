// Package config defines all configuration structures for the stuntmap
// service.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// RecordsConfig describes where the screening records come from.
type RecordsConfig struct {
	// Source selects the record backend: "csv", "postgres" or "minio".
	Source string `mapstructure:"source"`

	// Path is the CSV file path when Source is "csv".
	Path string `mapstructure:"path"`

	// Object is the bucket object key when Source is "minio".
	Object string `mapstructure:"object"`

	// Watch enables file-change invalidation of the loader cache for
	// file-backed sources.
	Watch bool `mapstructure:"watch"`
}

// BoundariesConfig describes the administrative-boundary catalog source.
type BoundariesConfig struct {
	// Source selects the boundary backend: "file" or "minio".
	Source string `mapstructure:"source"`

	// Path is the GeoJSON file path when Source is "file".
	Path string `mapstructure:"path"`

	// Object is the bucket object key when Source is "minio".
	Object string `mapstructure:"object"`

	// NameKeys is the priority-ordered list of feature property names the
	// region name is read from.  The first present key wins; a feature
	// with none of them gets an empty (degenerate) join key.
	NameKeys []string `mapstructure:"name_keys"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the optional
// database-backed record source.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds parameters for the dataset snapshot cache.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds parameters for the intervention-alert publisher.
type KafkaConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Brokers    []string      `mapstructure:"brokers"`
	AlertTopic string        `mapstructure:"alert_topic"`
	BatchSize  int           `mapstructure:"batch_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// MinIOConfig holds S3-compatible object-storage parameters for
// bucket-hosted record and boundary files.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// Config is the root configuration structure for the service.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Records    RecordsConfig    `mapstructure:"records"`
	Boundaries BoundariesConfig `mapstructure:"boundaries"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	Log        LogConfig        `mapstructure:"log"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	switch c.Records.Source {
	case "csv":
		if c.Records.Path == "" {
			return fmt.Errorf("config: records.path is required when records.source is csv")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required when records.source is postgres")
		}
		if c.Database.User == "" {
			return fmt.Errorf("config: database.user is required when records.source is postgres")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required when records.source is postgres")
		}
	case "minio":
		if c.MinIO.Endpoint == "" || c.MinIO.Bucket == "" {
			return fmt.Errorf("config: minio.endpoint and minio.bucket are required when records.source is minio")
		}
		if c.Records.Object == "" {
			return fmt.Errorf("config: records.object is required when records.source is minio")
		}
	default:
		return fmt.Errorf("config: records.source %q is invalid; expected csv|postgres|minio", c.Records.Source)
	}

	switch c.Boundaries.Source {
	case "file":
		if c.Boundaries.Path == "" {
			return fmt.Errorf("config: boundaries.path is required when boundaries.source is file")
		}
	case "minio":
		if c.MinIO.Endpoint == "" || c.MinIO.Bucket == "" {
			return fmt.Errorf("config: minio.endpoint and minio.bucket are required when boundaries.source is minio")
		}
		if c.Boundaries.Object == "" {
			return fmt.Errorf("config: boundaries.object is required when boundaries.source is minio")
		}
	default:
		return fmt.Errorf("config: boundaries.source %q is invalid; expected file|minio", c.Boundaries.Source)
	}

	if len(c.Boundaries.NameKeys) == 0 {
		return fmt.Errorf("config: boundaries.name_keys must contain at least one property name")
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis.enabled is true")
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.AlertTopic == "" {
			return fmt.Errorf("config: kafka.alert_topic is required when kafka.enabled is true")
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
