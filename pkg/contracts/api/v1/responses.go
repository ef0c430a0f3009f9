package v1

import (
	"time"

	"tabiq/internal/chartconfig"
	"tabiq/internal/cleaning"
	"tabiq/internal/exporter"
	"tabiq/internal/insights"
	"tabiq/internal/quality"
	"tabiq/pkg/contracts/domain"
)

// TableMeta summarizes the analyzed table in a response.
type TableMeta struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// AnalyzeResponse wraps a data-quality report.
type AnalyzeResponse struct {
	Table  TableMeta       `json:"table"`
	Report *quality.Report `json:"report"`
}

// CleanResponse returns the cleaned table and a change report describing
// what the operation touched.
type CleanResponse struct {
	Table  *domain.Table         `json:"table"`
	Report *cleaning.ChangeReport `json:"report"`
}

// InsightsResponse wraps the insight report. When the request named
// sections, the omitted sections are null.
type InsightsResponse struct {
	Table  TableMeta        `json:"table"`
	Report *insights.Report `json:"report"`
}

// ChartConfigResponse wraps a render-ready chart configuration.
type ChartConfigResponse struct {
	Config *chartconfig.Config `json:"config"`
}

// ChartSuggestResponse names the recommended chart family for a table.
type ChartSuggestResponse struct {
	ChartType string `json:"chart_type"`
}

// UploadResponse describes an ingested file: a bounded preview of the
// parsed table and the ID of the analysis run started for it.
type UploadResponse struct {
	Filename string            `json:"filename"`
	Format   string            `json:"format"`
	Meta     TableMeta         `json:"meta"`
	Preview  *exporter.Preview `json:"preview"`
	RunID    string            `json:"run_id"`
}

// RunAcceptedResponse acknowledges a queued pipeline run. Clients follow
// progress over the websocket or by polling the run endpoint.
type RunAcceptedResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}
