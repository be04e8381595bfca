package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/diabrisk/pkg/logger"
)

const checkTimeout = 2 * time.Second

// Pinger is a dependency whose availability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	deps map[string]Pinger
	log  logger.Logger
}

// NewHealthHandler creates a new HealthHandler. deps maps a check name to the dependency it pings.
func NewHealthHandler(deps map[string]Pinger, log logger.Logger) *HealthHandler {
	return &HealthHandler{deps: deps, log: log}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Checks the health of the service and its dependencies.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "healthy"
	checks := h.performChecks(c.Request.Context())

	httpStatus := http.StatusOK
	for _, checkStatus := range checks {
		if checkStatus != "ok" {
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	})
}

// ReadinessCheck godoc
// @Summary      Readiness Check
// @Description  Checks if the service is ready to accept traffic.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	h.HealthCheck(c)
}

// LivenessCheck reports that the process is serving requests.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (h *HealthHandler) performChecks(ctx context.Context) map[string]string {
	checks := make(map[string]string, len(h.deps))
	var mu sync.Mutex

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	// Checks never return an error to the group so that every dependency is reported.
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		name, dep := name, h.deps[name]
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, checkTimeout)
			defer cancel()

			status := "ok"
			if err := dep.Ping(cctx); err != nil {
				status = "error: " + err.Error()
				h.log.Warn(ctx, "Health check failed", logger.String("check", name), logger.Err(err))
			}
			mu.Lock()
			checks[name] = status
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return checks
}
