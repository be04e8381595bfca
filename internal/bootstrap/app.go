// Package bootstrap assembles the service from configuration. It is shared by
// the HTTP server and the command line tool.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	appService "github.com/turtacn/diabrisk/internal/application/service"
	"github.com/turtacn/diabrisk/internal/config"
	"github.com/turtacn/diabrisk/internal/domain/repository"
	domainService "github.com/turtacn/diabrisk/internal/domain/service"
	"github.com/turtacn/diabrisk/internal/infrastructure/events"
	"github.com/turtacn/diabrisk/internal/infrastructure/monitoring"
	"github.com/turtacn/diabrisk/internal/infrastructure/persistence"
	"github.com/turtacn/diabrisk/internal/interfaces/http"
	"github.com/turtacn/diabrisk/internal/interfaces/http/handlers"
	"github.com/turtacn/diabrisk/pkg/logger"
)

// Options adjusts how the App is assembled.
type Options struct {
	// ConfigFile overrides the config search path.
	ConfigFile string
	// LogOutput overrides log.output_path, e.g. "stderr" for the CLI.
	LogOutput string
	// DisableEvents skips the Kafka publisher even when it is configured.
	DisableEvents bool
}

// App holds the assembled components.
type App struct {
	Config   *config.Config
	Loader   *config.Loader
	Logger   logger.Logger
	Registry *prometheus.Registry
	Metrics  *monitoring.Metrics
	Tracing  *monitoring.TracingManager
	Ledger   repository.AssessmentLedger
	Events   domainService.EventPublisher
	Service  appService.AssessmentAppService
}

// New loads configuration and opens every dependency. On error, anything
// already opened is closed.
func New(ctx context.Context, opts Options) (app *App, err error) {
	startupLogger, err := monitoring.NewZapLogger(&config.LogConfig{Level: "info", Format: "json", OutputPath: "stderr"})
	if err != nil {
		return nil, fmt.Errorf("failed to create startup logger: %w", err)
	}

	loader := config.NewLoader(opts.ConfigFile, startupLogger)
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if opts.LogOutput != "" {
		cfg.Log.OutputPath = opts.LogOutput
	}

	log, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	app = &App{Config: cfg, Loader: loader, Logger: log}
	defer func() {
		if err != nil {
			app.Close(context.Background())
			app = nil
		}
	}()

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app.Metrics = monitoring.NewMetrics(app.Registry)
	metrics := monitoring.NewMetricsAdapter(app.Metrics)

	app.Tracing, err = monitoring.NewTracingManager(cfg, log)
	if err != nil {
		return app, err
	}

	app.Ledger, err = persistence.NewLedger(ctx, cfg, log, metrics)
	if err != nil {
		return app, err
	}

	app.Events = domainService.NewNoopEventPublisher()
	if cfg.Kafka.Enabled && !opts.DisableEvents {
		app.Events = events.NewKafkaPublisher(cfg.Kafka, log)
	}

	rules, err := domainService.NewRuleSet(cfg.Scoring)
	if err != nil {
		return app, err
	}
	app.Service = appService.NewAssessmentAppService(rules, app.Ledger, app.Events, metrics, cfg.Report, log,
		appService.WithTracer(app.Tracing.Tracer()),
		appService.WithSlowCommitThreshold(cfg.Storage.SlowCommitThreshold))

	log.Info(ctx, "Assessment service assembled",
		logger.String("storage", app.Ledger.Backend()),
		logger.Bool("events", cfg.Kafka.Enabled && !opts.DisableEvents),
		logger.String("config_file", loader.ConfigFileUsed()))
	return app, nil
}

// WatchConfig hot-reloads the scoring tables when the config file changes.
func (a *App) WatchConfig() {
	a.Loader.OnReloadRejected(func(error) { a.Metrics.ConfigReloads.WithLabelValues("rejected").Inc() })
	a.Loader.WatchScoring(a.Service.ReloadRules)
}

// Router builds the HTTP router over the assembled service.
func (a *App) Router() *http.Router {
	health := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"ledger": a.Ledger,
	}, a.Logger)
	return http.NewRouter(a.Config, a.Logger, a.Tracing.Tracer(), a.Metrics, a.Registry,
		health, handlers.NewAssessmentHandler(a.Service, a.Logger))
}

// Serve runs the HTTP server until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	a.WatchConfig()
	return a.Router().Start(ctx)
}

// Close releases every opened component in reverse order.
func (a *App) Close(ctx context.Context) {
	if a.Service != nil {
		_ = a.Service.Close()
	}
	if a.Events != nil {
		if err := a.Events.Close(); err != nil {
			a.Logger.Error(ctx, "Failed to close event publisher", err)
		}
	}
	if a.Ledger != nil {
		if err := a.Ledger.Close(); err != nil {
			a.Logger.Error(ctx, "Failed to close ledger", err)
		}
	}
	if a.Tracing != nil {
		_ = a.Tracing.Shutdown(ctx)
	}
}
