package middleware

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/turtacn/diabrisk/internal/application/dto"
	"github.com/turtacn/diabrisk/internal/config"
	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/errors"
	"github.com/turtacn/diabrisk/pkg/logger"
)

// ReplayRecorder counts responses served from the idempotency cache.
type ReplayRecorder interface {
	IncIdempotentReplay()
}

// cachedResponse is a completed response kept for replay.
type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

// pendingMarker occupies the key while the first request is still running.
type pendingMarker struct{}

// bodyRecorder tees the response body so it can be cached.
type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// IdempotencyStore holds completed responses keyed by Idempotency-Key.
type IdempotencyStore struct {
	cache *gocache.Cache
}

// NewIdempotencyStore creates a store whose entries expire after ttl.
func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = constants.DefaultIdempotencyTTL
	}
	return &IdempotencyStore{cache: gocache.New(ttl, 2*ttl)}
}

// Len returns the number of keys held, including in-flight ones.
func (s *IdempotencyStore) Len() int {
	return s.cache.ItemCount()
}

// IdempotencyMiddleware returns a Gin middleware that lets a client retry a submission without double counting.
// A request carrying an Idempotency-Key is executed once; later requests with the same key receive the stored
// response. A retry that arrives while the first request is still running is rejected with 409 Conflict.
// Server errors are not stored, so the client can retry them.
// IdempotencyMiddleware 返回一个 Gin 中间件，使客户端可以重试提交而不会重复计数。
// 携带相同 Idempotency-Key 的请求只执行一次，之后的请求直接返回缓存的响应。
func IdempotencyMiddleware(store *IdempotencyStore, cfg *config.IdempotencyConfig, replays ReplayRecorder, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(constants.HeaderIdempotencyKey))
		if !cfg.Enabled || key == "" {
			c.Next()
			return
		}

		cacheKey := c.Request.Method + " " + c.FullPath() + " " + key
		if err := store.cache.Add(cacheKey, pendingMarker{}, gocache.DefaultExpiration); err != nil {
			cached, found := store.cache.Get(cacheKey)
			if resp, ok := cached.(cachedResponse); found && ok {
				log.Info(c.Request.Context(), "Replaying idempotent response", logger.String("idempotency_key", key))
				replays.IncIdempotentReplay()
				c.Header(constants.HeaderIdempotentReplay, "true")
				c.Data(resp.status, resp.contentType, resp.body)
				c.Abort()
				return
			}
			log.Warn(c.Request.Context(), "Idempotent request still in progress", logger.String("idempotency_key", key))
			c.AbortWithStatusJSON(http.StatusConflict, dto.ErrorResponse(
				errors.ErrConflict("a request with this Idempotency-Key is still being processed"),
				c.GetString(string(constants.ContextKeyTraceID))))
			return
		}

		stored := false
		defer func() {
			if !stored {
				store.cache.Delete(cacheKey)
			}
		}()

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError {
			return
		}
		stored = true
		store.cache.Set(cacheKey, cachedResponse{
			status:      c.Writer.Status(),
			contentType: c.Writer.Header().Get("Content-Type"),
			body:        append([]byte(nil), recorder.buf.Bytes()...),
		}, gocache.DefaultExpiration)
	}
}
