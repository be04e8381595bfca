package monitoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/logger"
)

func TestZapLogger_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFromCore(core).WithComponent("orchestrator")

	ctx := context.WithValue(context.Background(), constants.ContextKeyRequestID, "req-1")
	log.Error(ctx, "commit failed", errors.New("disk full"), logger.Int("score", 8))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "commit failed", entry.Message)
	assert.Equal(t, "orchestrator", fields["component"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "disk full", fields["error"])
	assert.EqualValues(t, 8, fields["score"])
}
