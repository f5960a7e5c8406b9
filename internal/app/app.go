package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vk/semgraft/internal/config"
	"github.com/vk/semgraft/internal/ctxlog"
	"github.com/vk/semgraft/internal/metrics"
	"github.com/vk/semgraft/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	metrics    *metrics.Metrics
	promReg    *prometheus.Registry
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Results go to outW and
// logs to logW. It loads and compiles the rules named by appConfig, each App
// getting its own logger, registry and metrics registry. A rule set that
// fails to load or validate is a fatal startup error and panics.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfgModel, err := loader.Load(ctx, appConfig.RulesPaths...)
	if err != nil {
		panic(fmt.Errorf("failed to load rules: %w", err))
	}
	logger.Debug("Rules loaded and translated into unified model.", "rules", len(cfgModel.Rules))

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promReg)

	reg := registry.New()
	if err := reg.Populate(ctx, cfgModel, m); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		ctx:      ctx,
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		registry: reg,
		metrics:  m,
		promReg:  promReg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (app *App) Registry() *registry.Registry {
	return app.registry
}

// Metrics returns the application's collectors. This is primarily for testing.
func (app *App) Metrics() *metrics.Metrics {
	return app.metrics
}
