package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tabiq/internal/config"
	apierrors "tabiq/internal/errors"
	"tabiq/internal/middleware"
	"tabiq/internal/services"
	ws "tabiq/internal/websocket"
)

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	Config         *config.Config
	Logger         *slog.Logger
	ErrorHandler   *apierrors.ErrorHandler
	Validator      *middleware.ValidationMiddleware
	DatasetService *services.DatasetService
	InsightService *services.InsightService
	ChartService   *services.ChartService
	ExplainService *services.ExplainService
	OperationSvc   *services.OperationService
	HealthService  *services.HealthService
	Hub            *ws.Hub
}

// NewRouter assembles the full HTTP surface: middleware stack, API
// routes, health, metrics, and the websocket endpoint.
func NewRouter(deps RouterDeps) chi.Router {
	cfg := deps.Config
	logger := deps.Logger

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.Compress(5))
	r.Use(middleware.SecurityHeaders)

	if cfg.Security.EnableCORS {
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins:   cfg.Security.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	if cfg.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.Security.RateLimit.RPS, cfg.Security.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}

	r.NotFound(deps.ErrorHandler.NotFound)
	r.MethodNotAllowed(deps.ErrorHandler.MethodNotAllowed)

	datasetHandler := NewDatasetHandler(deps.DatasetService, deps.OperationSvc, deps.Validator, deps.ErrorHandler, cfg.Server.MaxUploadBytes, logger)
	insightHandler := NewInsightHandler(deps.InsightService, deps.Validator, deps.ErrorHandler, logger)
	chartHandler := NewChartHandler(deps.ChartService, deps.Validator, deps.ErrorHandler, logger)
	explainHandler := NewExplainHandler(deps.ExplainService, deps.Validator, deps.ErrorHandler, logger)
	operationsHandler := NewOperationsHandler(deps.OperationSvc, deps.Validator, deps.ErrorHandler, logger)
	healthHandler := NewHealthHandler(deps.HealthService, logger)

	r.Route("/api", func(r chi.Router) {
		// Analysis endpoints get a request timeout; the run endpoint is
		// asynchronous and bounded by the run timeout instead.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout(cfg), logger))
			r.Use(middleware.ContentTypeValidator("application/json", "multipart/form-data"))

			r.Mount("/datasets", datasetHandler.Routes())
			r.Mount("/insights", insightHandler.Routes())
			r.Mount("/charts", chartHandler.Routes())
			r.Mount("/explain", explainHandler.Routes())
		})
		r.Mount("/operations", operationsHandler.Routes())
	})

	r.Mount("/healthz", healthHandler.Routes())
	r.Handle("/metrics", promhttp.Handler())

	if deps.Hub != nil {
		wsHandler := NewWebSocketHandler(deps.Hub, originChecker(cfg),
			cfg.WebSocket.ReadBufferSize, cfg.WebSocket.WriteBufferSize, logger)
		r.Get("/ws", wsHandler.ServeHTTP)
	}

	return r
}

func requestTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.WriteTimeout > 0 {
		return cfg.Server.WriteTimeout
	}
	return 30 * time.Second
}

// originChecker allows the configured origins, or any origin when CORS
// is disabled (same-host deployments serve the UI themselves).
func originChecker(cfg *config.Config) func(r *http.Request) bool {
	if !cfg.Security.EnableCORS {
		return func(*http.Request) bool { return true }
	}

	allowed := make(map[string]bool, len(cfg.Security.AllowedOrigins))
	wildcard := false
	for _, origin := range cfg.Security.AllowedOrigins {
		if origin == "*" {
			wildcard = true
		}
		allowed[origin] = true
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return wildcard || allowed[origin]
	}
}
