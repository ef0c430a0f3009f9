// Package services implements the business logic layer between the HTTP
// handlers and the analysis engine. Handlers stay thin: they decode and
// validate requests, call one service method, and render its result.
//
// Services follow a common pattern:
//
//   - constructed once at startup with their dependencies injected
//   - a *slog.Logger per service, component-tagged
//   - context propagation on every method for cancellation and tracing
//   - engine errors passed through unwrapped so handlers can map them
//     to problem responses with errors.As
//
// DatasetService covers ingestion, quality analysis, and cleaning.
// InsightService generates statistical insight reports. ChartService
// builds render-ready chart configurations. ExplainService formats
// model-attribution payloads for plotting. OperationService drives
// multi-step analysis runs through the operations manager. HealthService
// reports process health for the health endpoint.
package services
