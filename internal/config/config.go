package config

import (
	"fmt"
	"time"

	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/errors"
)

// Config holds the application's configuration.
type Config struct {
	Server      ServerConfig         `mapstructure:"server"`
	Storage     StorageConfig        `mapstructure:"storage"`
	Database    DatabaseConfig       `mapstructure:"database"`
	Redis       RedisConfig          `mapstructure:"redis"`
	Kafka       KafkaConfig          `mapstructure:"kafka"`
	Log         LogConfig            `mapstructure:"log"`
	Tracing     TracingConfig        `mapstructure:"tracing"`
	Idempotency IdempotencyConfig    `mapstructure:"idempotency"`
	Report      ReportConfig         `mapstructure:"report"`
	Scoring     models.ScoringTables `mapstructure:"scoring"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	EnablePprof     bool          `mapstructure:"enable_pprof"`
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction reports whether debug surfaces must stay off.
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// StorageConfig selects the ledger backend.
type StorageConfig struct {
	Driver      constants.StorageDriver `mapstructure:"driver"`
	StatsFile   string                  `mapstructure:"stats_file"`
	HistoryFile string                  `mapstructure:"history_file"`

	// SlowCommitThreshold 超过该时长的提交记录为慢操作
	SlowCommitThreshold time.Duration `mapstructure:"slow_commit_threshold"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

type RedisConfig struct {
	Addresses    []string `mapstructure:"addresses"`
	Password     string   `mapstructure:"password"`
	DB           int      `mapstructure:"db"`
	PoolSize     int      `mapstructure:"pool_size"`
	MinIdleConns int      `mapstructure:"min_idle_conns"`
	KeyPrefix    string   `mapstructure:"key_prefix"`
}

// KafkaConfig configures the completed-assessment event stream.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

type IdempotencyConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// ReportConfig shapes the text and API reports.
type ReportConfig struct {
	// MaxRiskFactors caps the factors printed in the text report; 0 prints all.
	MaxRiskFactors int `mapstructure:"max_risk_factors"`
	HistoryLimit   int `mapstructure:"history_limit"`
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "fatal": true}

// Validate checks enumerations, required fields and the scoring tables.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.ErrConfiguration(fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if !validLogLevels[c.Log.Level] {
		return errors.ErrConfiguration(fmt.Sprintf("log.level %q is not one of debug, info, warn, error, fatal", c.Log.Level))
	}

	switch c.Storage.Driver {
	case constants.StorageDriverFile:
		if c.Storage.StatsFile == "" || c.Storage.HistoryFile == "" {
			return errors.ErrConfiguration("storage.stats_file and storage.history_file are required for the file driver")
		}
	case constants.StorageDriverSQLite:
		if c.Database.SQLitePath == "" {
			return errors.ErrConfiguration("database.sqlite_path is required for the sqlite driver")
		}
	case constants.StorageDriverPostgres:
		if c.Database.Host == "" || c.Database.Database == "" {
			return errors.ErrConfiguration("database.host and database.database are required for the postgres driver")
		}
	case constants.StorageDriverRedis:
		if len(c.Redis.Addresses) == 0 {
			return errors.ErrConfiguration("redis.addresses is required for the redis driver")
		}
	default:
		return errors.ErrConfiguration(fmt.Sprintf("storage.driver %q is not one of file, sqlite, postgres, redis", c.Storage.Driver))
	}

	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return errors.ErrConfiguration("kafka.brokers and kafka.topic are required when kafka is enabled")
	}
	if c.Tracing.Enabled && c.Tracing.JaegerEndpoint == "" {
		return errors.ErrConfiguration("tracing.jaeger_endpoint is required when tracing is enabled")
	}
	if c.Report.MaxRiskFactors < 0 {
		return errors.ErrConfiguration("report.max_risk_factors must not be negative")
	}
	return c.Scoring.Validate()
}

// applyScoringDefaults fills every scoring section the file left empty with the stock tables.
func (c *Config) applyScoringDefaults() {
	def := models.DefaultScoringTables()
	if len(c.Scoring.Questions) == 0 {
		c.Scoring.Questions = def.Questions
	}
	if len(c.Scoring.Thresholds) == 0 {
		c.Scoring.Thresholds = def.Thresholds
	}
	if len(c.Scoring.Recommendations) == 0 {
		c.Scoring.Recommendations = def.Recommendations
	}
}
