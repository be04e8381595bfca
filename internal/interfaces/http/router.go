package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/diabrisk/internal/application/dto"
	"github.com/turtacn/diabrisk/internal/config"
	"github.com/turtacn/diabrisk/internal/infrastructure/monitoring"
	"github.com/turtacn/diabrisk/internal/interfaces/http/handlers"
	"github.com/turtacn/diabrisk/internal/interfaces/http/middleware"
	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/errors"
	"github.com/turtacn/diabrisk/pkg/logger"
)

// Router HTTP 路由器
type Router struct {
	engine            *gin.Engine
	config            *config.Config
	logger            logger.Logger
	tracer            trace.Tracer
	metrics           *monitoring.Metrics
	gatherer          prometheus.Gatherer
	idempotency       *middleware.IdempotencyStore
	healthHandler     *handlers.HealthHandler
	assessmentHandler *handlers.AssessmentHandler
	server            *http.Server
}

// NewRouter 创建路由器
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	tracer trace.Tracer,
	metrics *monitoring.Metrics,
	gatherer prometheus.Gatherer,
	healthHandler *handlers.HealthHandler,
	assessmentHandler *handlers.AssessmentHandler,
) *Router {
	// 设置 Gin 模式
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	return &Router{
		engine:            engine,
		config:            cfg,
		logger:            log.WithComponent("http"),
		tracer:            tracer,
		metrics:           metrics,
		gatherer:          gatherer,
		idempotency:       middleware.NewIdempotencyStore(cfg.Idempotency.TTL),
		healthHandler:     healthHandler,
		assessmentHandler: assessmentHandler,
	}
}

// SetupRoutes 设置路由
func (r *Router) SetupRoutes() {
	// 全局中间件
	r.engine.Use(
		middleware.RecoveryMiddleware(r.logger),
		middleware.RequestIDMiddleware(),
		middleware.ObservabilityMiddleware(r.tracer, r.metrics),
		middleware.LoggingMiddleware(r.logger),
	)

	// CORS 配置
	origins := r.config.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.engine.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", constants.HeaderRequestID, constants.HeaderIdempotencyKey},
		ExposeHeaders: []string{constants.HeaderRequestID, constants.HeaderIdempotentReplay},
		MaxAge:        12 * time.Hour,
	}))

	// 健康检查路由
	r.engine.GET("/health", r.healthHandler.HealthCheck)
	r.engine.GET("/ready", r.healthHandler.ReadinessCheck)
	r.engine.GET("/live", r.healthHandler.LivenessCheck)

	// Prometheus metrics
	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))

	// Pprof 性能分析（仅在非生产环境）
	if r.config.Server.EnablePprof && !r.config.Server.IsProduction() {
		pprof.Register(r.engine)
	}

	// API 路由组
	api := r.engine.Group("/api")
	{
		api.POST("/evaluate",
			middleware.IdempotencyMiddleware(r.idempotency, &r.config.Idempotency, r.metrics, r.logger),
			r.assessmentHandler.Evaluate)
		api.GET("/history", r.assessmentHandler.History)
		api.GET("/stats", r.assessmentHandler.Stats)
		api.GET("/questions", r.assessmentHandler.Questions)
	}

	// 404 处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse(errors.ErrNotFound("route "+c.Request.URL.Path),
			c.GetString(string(constants.ContextKeyTraceID))))
	})
}

// Start 启动 HTTP 服务器，阻塞直到 ctx 被取消或服务器出错
func (r *Router) Start(ctx context.Context) error {
	r.SetupRoutes()

	addr := r.config.Server.Addr()
	r.server = &http.Server{
		Addr:           addr,
		Handler:        r.engine,
		ReadTimeout:    r.config.Server.ReadTimeout,
		WriteTimeout:   r.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	r.logger.Info(ctx, "Starting HTTP server", logger.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// 优雅关闭
	timeout := r.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = constants.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return r.Stop(shutdownCtx)
}

// Stop 停止 HTTP 服务器
func (r *Router) Stop(ctx context.Context) error {
	if r.server == nil {
		return nil
	}

	r.logger.Info(ctx, "Stopping HTTP server...")
	if err := r.server.Shutdown(ctx); err != nil {
		r.logger.Error(ctx, "Server forced to shutdown", err)
		return err
	}
	r.logger.Info(ctx, "HTTP server stopped")
	return nil
}

// Engine 返回 gin 引擎，供测试使用
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
