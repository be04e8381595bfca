// Package persistence selects and opens the assessment ledger configured for this process.
package persistence

import (
	"context"
	"fmt"

	"github.com/turtacn/diabrisk/internal/config"
	"github.com/turtacn/diabrisk/internal/domain/repository"
	"github.com/turtacn/diabrisk/internal/domain/service"
	"github.com/turtacn/diabrisk/internal/infrastructure/persistence/file"
	"github.com/turtacn/diabrisk/internal/infrastructure/persistence/redis"
	"github.com/turtacn/diabrisk/internal/infrastructure/persistence/sqldb"
	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/errors"
	"github.com/turtacn/diabrisk/pkg/logger"
)

// NewLedger opens the backend named by cfg.Storage.Driver. Skipped corrupt
// entries are counted on metrics.
func NewLedger(ctx context.Context, cfg *config.Config, log logger.Logger, metrics service.Metrics) (repository.AssessmentLedger, error) {
	driver := cfg.Storage.Driver
	countCorrupt := func() { metrics.RecordCorruptRecord(string(driver)) }

	switch driver {
	case constants.StorageDriverFile:
		log.Info(ctx, "Using file ledger",
			logger.String("stats_file", cfg.Storage.StatsFile),
			logger.String("history_file", cfg.Storage.HistoryFile))
		return file.NewLedger(cfg.Storage.StatsFile, cfg.Storage.HistoryFile, log,
			func(int, error) { countCorrupt() }), nil

	case constants.StorageDriverSQLite, constants.StorageDriverPostgres:
		conn, err := sqldb.NewDBConnection(ctx, driver, &cfg.Database, log)
		if err != nil {
			return nil, err
		}
		ledger, err := sqldb.NewLedger(ctx, conn, log, func(uint64, error) { countCorrupt() })
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		return ledger, nil

	case constants.StorageDriverRedis:
		conn := redis.NewRedisConnection(&cfg.Redis, log)
		if err := conn.Connect(ctx); err != nil {
			return nil, err
		}
		return redis.NewLedger(conn, cfg.Redis.KeyPrefix, log, func(int, error) { countCorrupt() }), nil

	default:
		return nil, errors.ErrConfiguration(fmt.Sprintf("unsupported storage driver %q", driver))
	}
}
