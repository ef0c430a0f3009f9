package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"tabiq/internal/operations"
	ws "tabiq/internal/websocket"
	"tabiq/pkg/contracts"
)

// HealthService reports process health for the health endpoint.
type HealthService struct {
	manager   *operations.Manager
	hub       *ws.Hub
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Timestamp time.Time         `json:"timestamp"`
	Runtime   RuntimeStats      `json:"runtime"`
	Checks    map[string]string `json:"checks"`
}

// RuntimeStats is the runtime section of a health response.
type RuntimeStats struct {
	GoVersion        string `json:"go_version"`
	Goroutines       int    `json:"goroutines"`
	WebSocketClients int    `json:"websocket_clients"`
	ActiveRuns       int    `json:"active_runs"`
}

// NewHealthService creates the health service.
func NewHealthService(manager *operations.Manager, hub *ws.Hub, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		manager:   manager,
		hub:       hub,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Check assembles the current health status. The process is healthy as
// long as it can answer; component checks carry the detail.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	checks := map[string]string{}

	stats := RuntimeStats{
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
	}

	if s.hub != nil {
		stats.WebSocketClients = s.hub.ClientCount()
		checks["websocket"] = "ok"
	} else {
		checks["websocket"] = "disabled"
	}

	if s.manager != nil {
		runStats := s.manager.Stats()
		stats.ActiveRuns = runStats[string(operations.RunStatusRunning)]
		checks["operations"] = "ok"
	} else {
		checks["operations"] = "disabled"
	}

	return &HealthStatus{
		Status:    "healthy",
		Version:   contracts.Version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Runtime:   stats,
		Checks:    checks,
	}
}

// Uptime returns how long the service has been running.
func (s *HealthService) Uptime() time.Duration {
	return time.Since(s.startTime)
}
