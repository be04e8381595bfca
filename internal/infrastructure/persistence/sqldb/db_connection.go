// Package sqldb provides the relational ledger backend (PostgreSQL or SQLite) on top of gorm.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/turtacn/diabrisk/internal/config"
	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/errors"
	"github.com/turtacn/diabrisk/pkg/logger"
)

// DBConnection manages the gorm handle and its connection pool lifecycle.
type DBConnection struct {
	db     *gorm.DB
	driver constants.StorageDriver
	logger logger.Logger
}

// NewDBConnection opens a PostgreSQL or SQLite database and performs an initial health check.
//
// Parameters:
//   - ctx: Context for connection timeout control
//   - driver: constants.StorageDriverPostgres or constants.StorageDriverSQLite
//   - cfg: Database configuration including host, credentials, and pool settings
//   - log: Logger instance for connection lifecycle events
func NewDBConnection(ctx context.Context, driver constants.StorageDriver, cfg *config.DatabaseConfig, log logger.Logger) (*DBConnection, error) {
	if cfg == nil {
		return nil, errors.ErrConfiguration("database configuration is missing")
	}

	var dialector gorm.Dialector
	switch driver {
	case constants.StorageDriverPostgres:
		log.Info(ctx, "Initializing PostgreSQL connection pool",
			logger.String("host", cfg.Host),
			logger.Int("port", cfg.Port),
			logger.String("database", cfg.Database),
			logger.Int("max_conns", cfg.MaxConns),
		)
		dialector = postgres.Open(cfg.GetDSN())
	case constants.StorageDriverSQLite:
		log.Info(ctx, "Opening SQLite database", logger.String("path", cfg.SQLitePath))
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, errors.ErrConfiguration(fmt.Sprintf("unsupported sql driver %q", driver))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Error(ctx, "Failed to open database", err, logger.String("driver", string(driver)))
		return nil, errors.ErrPersistence("failed to open database").WithCause(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.ErrPersistence("failed to access connection pool").WithCause(err)
	}
	configurePool(sqlDB, driver, cfg)

	conn := &DBConnection{db: db, driver: driver, logger: log}
	if err := conn.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info(ctx, "Database connection initialized successfully",
		logger.String("driver", string(driver)),
		logger.Int("open_conns", sqlDB.Stats().OpenConnections),
	)
	return conn, nil
}

// NewDBConnectionFromGorm wraps an already opened handle, used by tests.
func NewDBConnectionFromGorm(db *gorm.DB, driver constants.StorageDriver, log logger.Logger) *DBConnection {
	return &DBConnection{db: db, driver: driver, logger: log}
}

func configurePool(sqlDB *sql.DB, driver constants.StorageDriver, cfg *config.DatabaseConfig) {
	if driver == constants.StorageDriverSQLite {
		// SQLite allows a single writer; one connection avoids SQLITE_BUSY under concurrent commits.
		sqlDB.SetMaxOpenConns(1)
		return
	}
	if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.MaxConnLifetime)
	}
	if cfg.MaxConnIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
	}
}

// DB returns the gorm handle for repository implementations.
func (c *DBConnection) DB() *gorm.DB {
	return c.db
}

// Driver returns the configured driver name.
func (c *DBConnection) Driver() constants.StorageDriver {
	return c.driver
}

// Ping verifies database connectivity and warns on high latency.
func (c *DBConnection) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return errors.ErrPersistence("failed to access connection pool").WithCause(err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		c.logger.Error(ctx, "Database ping failed", err)
		return mapDBError(err)
	}

	if latency := time.Since(start); latency > 100*time.Millisecond {
		c.logger.Warn(ctx, "High database latency detected",
			logger.Int64("latency_ms", latency.Milliseconds()),
			logger.Int("threshold_ms", 100),
		)
	}
	return nil
}

// Close shuts down the connection pool.
func (c *DBConnection) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	c.logger.Info(context.Background(), "Closing database connection pool",
		logger.String("driver", string(c.driver)))
	return sqlDB.Close()
}
