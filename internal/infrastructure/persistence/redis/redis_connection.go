// Package redis provides Redis connection management and the Redis-backed assessment ledger.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/diabrisk/internal/config"
	"github.com/turtacn/diabrisk/pkg/errors"
	"github.com/turtacn/diabrisk/pkg/logger"
)

// RedisConnection manages Redis client lifecycle and health monitoring.
// One address connects to a standalone server; several connect to a cluster.
type RedisConnection struct {
	config *config.RedisConfig
	client redis.UniversalClient
	logger logger.Logger
}

// NewRedisConnection creates a connection manager. Call Connect before use.
func NewRedisConnection(cfg *config.RedisConfig, log logger.Logger) *RedisConnection {
	return &RedisConnection{config: cfg, logger: log.WithComponent("redis")}
}

// NewRedisConnectionFromClient wraps an existing client, used by tests.
func NewRedisConnectionFromClient(client redis.UniversalClient, cfg *config.RedisConfig, log logger.Logger) *RedisConnection {
	return &RedisConnection{config: cfg, client: client, logger: log.WithComponent("redis")}
}

// Connect establishes the client and validates connectivity with a ping.
func (rc *RedisConnection) Connect(ctx context.Context) error {
	if rc.client != nil {
		rc.logger.Warn(ctx, "Redis connection already initialized")
		return nil
	}
	if len(rc.config.Addresses) == 0 {
		return errors.ErrConfiguration("redis addresses not configured")
	}

	poolSize := rc.config.PoolSize
	if poolSize == 0 {
		poolSize = 10
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:           rc.config.Addresses,
		Password:        rc.config.Password,
		DB:              rc.config.DB,
		PoolSize:        poolSize,
		MinIdleConns:    rc.config.MinIdleConns,
		ConnMaxIdleTime: 5 * time.Minute,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
		MaxRetries:      3,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		rc.logger.Error(ctx, "Redis ping failed", err, logger.Any("addrs", rc.config.Addresses))
		_ = client.Close()
		return errors.ErrPersistence("redis connection failed").WithCause(err)
	}

	rc.client = client
	rc.logger.Info(ctx, "Redis connection established successfully",
		logger.Any("addrs", rc.config.Addresses),
		logger.Int("pool_size", poolSize),
	)
	return nil
}

// GetClient returns the Redis client instance, or nil before Connect.
func (rc *RedisConnection) GetClient() redis.UniversalClient {
	return rc.client
}

// Ping checks Redis server connectivity.
func (rc *RedisConnection) Ping(ctx context.Context) error {
	if rc.client == nil {
		return errors.ErrPersistence("redis connection not initialized")
	}
	if err := rc.client.Ping(ctx).Err(); err != nil {
		rc.logger.Error(ctx, "Redis ping failed", err)
		return errors.ErrPersistence("redis ping failed").WithCause(err)
	}
	return nil
}

// HealthCheck reports connectivity, latency and pool statistics.
func (rc *RedisConnection) HealthCheck(ctx context.Context) (map[string]interface{}, error) {
	if rc.client == nil {
		return nil, fmt.Errorf("redis connection not initialized")
	}

	health := make(map[string]interface{})
	start := time.Now()
	err := rc.client.Ping(ctx).Err()
	health["connected"] = err == nil
	health["latency_ms"] = time.Since(start).Milliseconds()
	if err != nil {
		health["error"] = err.Error()
		return health, err
	}

	stats := rc.client.PoolStats()
	health["total_conns"] = stats.TotalConns
	health["idle_conns"] = stats.IdleConns
	health["pool_timeouts"] = stats.Timeouts
	return health, nil
}

// Close gracefully closes the connection and releases resources.
func (rc *RedisConnection) Close() error {
	if rc.client == nil {
		return nil
	}
	if err := rc.client.Close(); err != nil {
		rc.logger.Error(context.Background(), "Failed to close Redis connection", err)
		return err
	}
	rc.client = nil
	rc.logger.Info(context.Background(), "Redis connection closed successfully")
	return nil
}
