package config

import (
	"context"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/errors"
	"github.com/turtacn/diabrisk/pkg/logger"
)

// Loader reads config.yaml, environment overrides and defaults, and watches the file for changes.
type Loader struct {
	v   *viper.Viper
	log logger.Logger
	mu  sync.Mutex

	onReject func(error)
}

// NewLoader creates a loader. When configFile is empty the file is searched
// in /etc/diabrisk/ and the working directory.
func NewLoader(configFile string, log logger.Logger) *Loader {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/diabrisk/")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("DIABRISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v, log: log.WithComponent("config")}
}

// LoadConfig loads the configuration from file, environment variables, and defaults.
func LoadConfig(configFile string, log logger.Logger) (*Config, error) {
	return NewLoader(configFile, log).Load()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", constants.DefaultShutdownTimeout)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.enable_pprof", false)

	v.SetDefault("storage.driver", string(constants.StorageDriverFile))
	v.SetDefault("storage.stats_file", constants.DefaultStatsFile)
	v.SetDefault("storage.history_file", constants.DefaultHistoryFile)
	v.SetDefault("storage.slow_commit_threshold", constants.DefaultSlowCommitThreshold)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "diabrisk")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "diabrisk")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.sqlite_path", "diabrisk.db")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "10m")

	v.SetDefault("redis.addresses", []string{"localhost:6379"})
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.key_prefix", constants.RedisKeyPrefix)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "diabrisk.assessments")
	v.SetDefault("kafka.batch_timeout", "50ms")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_path", "stdout")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "")
	v.SetDefault("tracing.service_name", constants.ServiceName)
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("idempotency.enabled", true)
	v.SetDefault("idempotency.ttl", constants.DefaultIdempotencyTTL)

	v.SetDefault("report.max_risk_factors", constants.DefaultMaxRiskFactors)
	v.SetDefault("report.history_limit", constants.DefaultHistoryLimit)

	def := models.DefaultScoringTables().BMIPoints
	v.SetDefault("scoring.bmi_points.underweight", def.Underweight)
	v.SetDefault("scoring.bmi_points.normal", def.Normal)
	v.SetDefault("scoring.bmi_points.overweight", def.Overweight)
	v.SetDefault("scoring.bmi_points.obese", def.Obese)
}

// Load reads and validates the configuration. A missing file is not an error.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.WrapError(err, errors.CodeConfiguration, "failed to read config file")
		}
	}
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.CodeConfiguration, "failed to unmarshal config")
	}
	cfg.applyScoringDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFileUsed returns the path of the loaded file, or "" when running on defaults.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// OnReloadRejected registers fn to be called when a changed file fails validation.
func (l *Loader) OnReloadRejected(fn func(error)) {
	l.onReject = fn
}

// WatchScoring re-reads the file on every write and hands the new scoring tables to apply.
// An update that fails validation is logged and dropped; apply is not called.
func (l *Loader) WatchScoring(apply func(models.ScoringTables) error) {
	ctx := context.Background()
	if l.v.ConfigFileUsed() == "" {
		l.log.Info(ctx, "No config file in use, scoring tables will not be watched")
		return
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		l.mu.Lock()
		cfg, err := l.decode()
		l.mu.Unlock()
		if err != nil {
			l.log.Error(ctx, "Rejected config reload, keeping previous scoring tables", err,
				logger.String("file", e.Name))
			if l.onReject != nil {
				l.onReject(err)
			}
			return
		}
		if err := apply(cfg.Scoring); err != nil {
			l.log.Error(ctx, "Failed to apply reloaded scoring tables", err, logger.String("file", e.Name))
			return
		}
		l.log.Info(ctx, "Scoring tables reloaded", logger.String("file", e.Name))
	})
	l.v.WatchConfig()
}
