package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/diabrisk/internal/config"
	"github.com/turtacn/diabrisk/internal/domain/service"
	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/errors"
	"github.com/turtacn/diabrisk/pkg/logger"
)

func TestNewLedger_Drivers(t *testing.T) {
	dir := t.TempDir()
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"file", config.Config{Storage: config.StorageConfig{
			Driver:      constants.StorageDriverFile,
			StatsFile:   filepath.Join(dir, "stats.txt"),
			HistoryFile: filepath.Join(dir, "history.txt"),
		}}},
		{"sqlite", config.Config{
			Storage:  config.StorageConfig{Driver: constants.StorageDriverSQLite},
			Database: config.DatabaseConfig{SQLitePath: filepath.Join(dir, "diabrisk.db")},
		}},
		{"redis", config.Config{
			Storage: config.StorageConfig{Driver: constants.StorageDriverRedis},
			Redis:   config.RedisConfig{Addresses: []string{mr.Addr()}, KeyPrefix: "factory"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			l, err := NewLedger(ctx, &tt.cfg, logger.NewNoopLogger(), service.NewNoopMetrics())
			require.NoError(t, err)
			defer l.Close()

			assert.Equal(t, tt.name, l.Backend())
			require.NoError(t, l.Ping(ctx))
			s, err := l.Stats(ctx)
			require.NoError(t, err)
			assert.Zero(t, s.TotalAssessments)
		})
	}
}

func TestNewLedger_UnknownDriver(t *testing.T) {
	cfg := config.Config{Storage: config.StorageConfig{Driver: "mongo"}}
	_, err := NewLedger(context.Background(), &cfg, logger.NewNoopLogger(), service.NewNoopMetrics())
	assert.True(t, errors.IsConfigurationError(err))
}
