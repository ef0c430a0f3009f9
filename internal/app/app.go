// Package app wires the server together: configuration, logging,
// tracing, the websocket hub, the run manager, services, and the HTTP
// router, with graceful startup and shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tabiq/internal/config"
	apierrors "tabiq/internal/errors"
	"tabiq/internal/infrastructure"
	"tabiq/internal/middleware"
	"tabiq/internal/operations"
	"tabiq/internal/services"
	transport "tabiq/internal/transport/http"
	"tabiq/internal/validation"
	ws "tabiq/internal/websocket"
	"tabiq/pkg/contracts"
)

// Application owns the server's lifecycle.
type Application struct {
	config *config.Config
	logger *slog.Logger
	server *http.Server

	hub          *ws.Hub
	broadcaster  *operations.StatusBroadcaster
	manager      *operations.Manager
	operationSvc *services.OperationService

	otelShutdown func(context.Context) error
	stopCleanup  chan struct{}
}

// New loads configuration and assembles the application.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig assembles the application around an existing
// configuration. Used by tests and the CLI serve command.
func NewWithConfig(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	slog.SetDefault(logger)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}

	hub := ws.NewHub(logger)
	hub.Start()

	broadcaster := operations.NewStatusBroadcaster(hub, logger)

	manager := operations.NewManager(
		operations.WithBroadcaster(broadcaster),
		operations.WithLogger(logger),
		operations.WithExecutionMode(operations.ExecutionMode(cfg.Analysis.Mode)),
		operations.WithStepTimeout(cfg.Analysis.StepTimeout),
	)

	errorHandler := apierrors.NewErrorHandler(logger, false)
	fileValidator := validation.NewFileValidator(logger, cfg.Server.MaxUploadBytes)
	operationSvc := services.NewOperationService(manager, broadcaster, cfg.Server.RunTimeout, logger)

	router := transport.NewRouter(transport.RouterDeps{
		Config:         cfg,
		Logger:         logger,
		ErrorHandler:   errorHandler,
		Validator:      middleware.NewValidationMiddleware(logger, errorHandler),
		DatasetService: services.NewDatasetService(fileValidator, logger),
		InsightService: services.NewInsightService(logger),
		ChartService:   services.NewChartService(logger),
		ExplainService: services.NewExplainService(logger),
		OperationSvc:   operationSvc,
		HealthService:  services.NewHealthService(manager, hub, logger),
		Hub:            hub,
	})

	app := &Application{
		config:       cfg,
		logger:       logger,
		hub:          hub,
		broadcaster:  broadcaster,
		manager:      manager,
		operationSvc: operationSvc,
		otelShutdown: otelProviders.Shutdown,
		stopCleanup:  make(chan struct{}),
		server: &http.Server{
			Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:        router,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    cfg.Server.IdleTimeout,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		},
	}

	return app, nil
}

// Handler returns the assembled HTTP handler. Used by tests.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

// Addr returns the listen address.
func (a *Application) Addr() string {
	return a.server.Addr
}

// Start runs the HTTP server until the context is cancelled, then shuts
// down gracefully.
func (a *Application) Start(ctx context.Context) error {
	go a.cleanupLoop()

	a.logger.Info("server starting",
		slog.String("addr", a.server.Addr),
		slog.String("version", contracts.Version),
		slog.String("mode", a.config.Analysis.Mode))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	return a.Stop(shutdownCtx)
}

// Stop shuts the server down gracefully: stop accepting connections,
// drain in-flight requests, then stop the hub and flush traces.
func (a *Application) Stop(ctx context.Context) error {
	a.logger.Info("server stopping")

	close(a.stopCleanup)

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	a.broadcaster.Stop()
	a.hub.Stop()

	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	a.logger.Info("server stopped")
	return nil
}

// Run starts the server and blocks until SIGINT or SIGTERM.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Start(ctx)
}

// cleanupLoop evicts terminal runs past the retention window.
func (a *Application) cleanupLoop() {
	retention := a.config.Analysis.RunRetention
	if retention <= 0 {
		return
	}

	interval := retention / 4
	if interval > 10*time.Minute {
		interval = 10 * time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCleanup:
			return
		case <-ticker.C:
			if removed := a.operationSvc.CleanupOldRuns(retention); removed > 0 {
				a.logger.Info("expired runs cleaned up",
					slog.Int("removed", removed))
			}
		}
	}
}
