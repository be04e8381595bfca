package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/diabrisk/internal/config"
	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/logger"
)

type replayCounter struct{ n atomic.Int64 }

func (r *replayCounter) IncIdempotentReplay() { r.n.Add(1) }

func newIdempotentRouter(handler gin.HandlerFunc, enabled bool) (*gin.Engine, *replayCounter, *IdempotencyStore) {
	gin.SetMode(gin.TestMode)
	store := NewIdempotencyStore(time.Minute)
	replays := &replayCounter{}
	cfg := &config.IdempotencyConfig{Enabled: enabled, TTL: time.Minute}

	r := gin.New()
	r.POST("/api/evaluate", IdempotencyMiddleware(store, cfg, replays, logger.NewNoopLogger()), handler)
	return r, replays, store
}

func post(r http.Handler, key string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", nil)
	if key != "" {
		req.Header.Set(constants.HeaderIdempotencyKey, key)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyMiddleware_Replay(t *testing.T) {
	var calls atomic.Int64
	router, replays, _ := newIdempotentRouter(func(c *gin.Context) {
		n := calls.Add(1)
		c.JSON(http.StatusOK, gin.H{"call": n})
	}, true)

	first := post(router, "abc")
	second := post(router, "abc")

	assert.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(constants.HeaderIdempotentReplay))
	assert.Empty(t, first.Header().Get(constants.HeaderIdempotentReplay))
	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, int64(1), replays.n.Load())

	post(router, "other")
	post(router, "")
	post(router, "")
	assert.Equal(t, int64(4), calls.Load())
}

func TestIdempotencyMiddleware_ClientErrorsAreReplayed(t *testing.T) {
	var calls atomic.Int64
	router, _, _ := newIdempotentRouter(func(c *gin.Context) {
		calls.Add(1)
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
	}, true)

	post(router, "k")
	w := post(router, "k")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(1), calls.Load())
}

func TestIdempotencyMiddleware_ServerErrorsAreRetried(t *testing.T) {
	var calls atomic.Int64
	router, _, store := newIdempotentRouter(func(c *gin.Context) {
		if calls.Add(1) == 1 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}, true)

	assert.Equal(t, http.StatusServiceUnavailable, post(router, "k").Code)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, http.StatusOK, post(router, "k").Code)
	assert.Equal(t, int64(2), calls.Load())
}

func TestIdempotencyMiddleware_InFlightConflict(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	router, _, _ := newIdempotentRouter(func(c *gin.Context) {
		close(started)
		<-release
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}, true)

	var wg sync.WaitGroup
	var first *httptest.ResponseRecorder
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = post(router, "slow")
	}()

	<-started
	conflict := post(router, "slow")
	close(release)
	wg.Wait()

	assert.Equal(t, http.StatusConflict, conflict.Code)
	require.NotNil(t, first)
	assert.Equal(t, http.StatusOK, first.Code)
}

func TestIdempotencyMiddleware_Disabled(t *testing.T) {
	var calls atomic.Int64
	router, _, store := newIdempotentRouter(func(c *gin.Context) {
		calls.Add(1)
		c.Status(http.StatusOK)
	}, false)

	post(router, "k")
	post(router, "k")
	assert.Equal(t, int64(2), calls.Load())
	assert.Equal(t, 0, store.Len())
}
