package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/turtacn/diabrisk/internal/application/dto"
	appService "github.com/turtacn/diabrisk/internal/application/service"
	"github.com/turtacn/diabrisk/internal/config"
	domainService "github.com/turtacn/diabrisk/internal/domain/service"
	"github.com/turtacn/diabrisk/internal/infrastructure/monitoring"
	"github.com/turtacn/diabrisk/internal/infrastructure/persistence/file"
	"github.com/turtacn/diabrisk/internal/interfaces/http/handlers"
	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/logger"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	log := logger.NewNoopLogger()
	dir := t.TempDir()

	cfg := &config.Config{
		Server:      config.ServerConfig{Environment: "test"},
		Idempotency: config.IdempotencyConfig{Enabled: true, TTL: time.Minute},
		Report:      config.ReportConfig{MaxRiskFactors: 3, HistoryLimit: 50},
	}

	registry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(registry)
	ledger := file.NewLedger(filepath.Join(dir, "stats.txt"), filepath.Join(dir, "history.txt"), log, nil)
	svc := appService.NewAssessmentAppService(domainService.MustDefaultRuleSet(), ledger, nil,
		monitoring.NewMetricsAdapter(metrics), cfg.Report, log)
	t.Cleanup(func() { _ = svc.Close() })

	r := NewRouter(cfg, log, otel.Tracer("test"), metrics, registry,
		handlers.NewHealthHandler(map[string]handlers.Pinger{"ledger": ledger}, log),
		handlers.NewAssessmentHandler(svc, log))
	r.SetupRoutes()
	return r
}

func evaluate(r *Router, key string) *httptest.ResponseRecorder {
	body := `{"answers":[2,1,1,2,1,2,2,3,3,2],"height":170,"weight":70}`
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(constants.HeaderIdempotencyKey, key)
	}
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)
	return w
}

func get(r *Router, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRouter_AssessmentFlow(t *testing.T) {
	r := newTestRouter(t)

	w := evaluate(r, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.EvaluateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 8, resp.Score)
	assert.Equal(t, "LOW", resp.Risk)
	assert.Equal(t, int64(1), resp.TotalAssessments)
	assert.NotEmpty(t, w.Header().Get(constants.HeaderRequestID))

	w = get(r, "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalUsers":1,"sumOfScores":8,"averageScore":8}`, w.Body.String())

	w = get(r, "/api/history")
	require.Equal(t, http.StatusOK, w.Code)
	var history dto.HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.History, 1)
	assert.Equal(t, "LOW", history.History[0].Risk)
}

func TestRouter_IdempotentRetryCountsOnce(t *testing.T) {
	r := newTestRouter(t)

	first := evaluate(r, "retry-1")
	second := evaluate(r, "retry-1")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(constants.HeaderIdempotentReplay))

	assert.JSONEq(t, `{"totalUsers":1,"sumOfScores":8,"averageScore":8}`, get(r, "/api/stats").Body.String())
}

func TestRouter_ValidationError(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", bytes.NewBufferString(`{"answers":[1,2,3],"height":170,"weight":70}`))
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")

	assert.JSONEq(t, `{"totalUsers":0,"sumOfScores":0,"averageScore":0}`, get(r, "/api/stats").Body.String())
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	r := newTestRouter(t)

	assert.Equal(t, http.StatusOK, get(r, "/live").Code)
	assert.Equal(t, http.StatusOK, get(r, "/ready").Code)
	assert.Equal(t, http.StatusOK, get(r, "/health").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/nope").Code)

	evaluate(r, "")
	metrics := get(r, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "diabrisk_assessments_total")
	assert.Contains(t, metrics.Body.String(), "diabrisk_http_requests_total")

	questions := get(r, "/api/questions")
	assert.Equal(t, http.StatusOK, questions.Code)
}
