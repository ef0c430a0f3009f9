package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabiq/internal/config"
	apierrors "tabiq/internal/errors"
	"tabiq/internal/middleware"
	"tabiq/internal/operations"
	"tabiq/internal/services"
	"tabiq/internal/validation"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Default()
	errorHandler := apierrors.NewErrorHandler(logger, false)

	broadcaster := operations.NewStatusBroadcaster(nil, logger)
	t.Cleanup(broadcaster.Stop)
	manager := operations.NewManager(
		operations.WithBroadcaster(broadcaster),
		operations.WithLogger(logger),
	)

	validator := validation.NewFileValidator(logger, cfg.Server.MaxUploadBytes)

	return NewRouter(RouterDeps{
		Config:         cfg,
		Logger:         logger,
		ErrorHandler:   errorHandler,
		Validator:      middleware.NewValidationMiddleware(logger, errorHandler),
		DatasetService: services.NewDatasetService(validator, logger),
		InsightService: services.NewInsightService(logger),
		ChartService:   services.NewChartService(logger),
		ExplainService: services.NewExplainService(logger),
		OperationSvc:   services.NewOperationService(manager, broadcaster, time.Minute, logger),
		HealthService:  services.NewHealthService(manager, nil, logger),
	})
}

const tableJSON = `{
	"columns": [{"name": "region"}, {"name": "sales", "kind": "numeric"}],
	"rows": [["north", 100], ["south", 200], ["north", 100], ["east", null]]
}`

func postJSON(t *testing.T, router chi.Router, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func getPath(t *testing.T, router chi.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := getPath(t, router, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])

	rec = getPath(t, router, "/healthz/version")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_version")
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := getPath(t, router, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNotFoundIsProblemJSON(t *testing.T) {
	router := newTestRouter(t)

	rec := getPath(t, router, "/api/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestAnalyzeEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/datasets/analyze", `{"table": `+tableJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	table := resp["table"].(map[string]any)
	assert.EqualValues(t, 4, table["rows"])
	assert.Contains(t, resp, "report")
}

func TestAnalyzeRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/datasets/analyze", `{"table": [}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestAnalyzeRejectsUnsupportedContentType(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/analyze", strings.NewReader("<table/>"))
	req.Header.Set("Content-Type", "application/xml")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestCleanEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/datasets/clean",
		`{"table": `+tableJSON+`, "operation": "remove_duplicates"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	report := resp["report"].(map[string]any)
	assert.EqualValues(t, 1, report["duplicates_removed"])

	table := resp["table"].(map[string]any)
	assert.Len(t, table["rows"], 3)
}

func TestCleanRejectsUnknownOperation(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/datasets/clean",
		`{"table": `+tableJSON+`, "operation": "scrub_everything"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cleaning operation")
}

func TestUploadEndpoint(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "sales.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("region,sales\nnorth,100\nsouth,200\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sales.csv", resp["filename"])
	assert.Equal(t, "csv", resp["format"])
	assert.NotEmpty(t, resp["run_id"])

	preview, ok := resp["preview"].(map[string]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"region", "sales"}, preview["columns"])
	assert.EqualValues(t, 2, preview["total_rows"])
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsightsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/insights/", `{"table": `+tableJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	report := resp["report"].(map[string]any)
	assert.Contains(t, report, "summary_stats")
	assert.Contains(t, report, "missing_data")
}

func TestInsightsSectionFilter(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/insights/?section=summary_stats", `{"table": `+tableJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	report := resp["report"].(map[string]any)
	assert.NotNil(t, report["summary_stats"])
	assert.Nil(t, report["outliers"])
}

func TestInsightsRejectsUnknownSection(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/insights/?section=bogus", `{"table": `+tableJSON+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChartConfigEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/charts/config",
		`{"table": `+tableJSON+`, "chart_type": "bar", "x": "region", "y": ["sales"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	cfg := resp["config"].(map[string]any)
	assert.Equal(t, "bar", cfg["type"])
}

func TestChartConfigRejectsUnknownType(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/charts/config",
		`{"table": `+tableJSON+`, "chart_type": "sunburst"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChartSuggestEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/charts/suggest", `{"table": `+tableJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["chart_type"])
}

func TestShapSummaryEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/explain/shap/summary",
		`{"matrix": [[0.4, -0.1], [0.2, 0.3]], "features": ["age", "income"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "shap_summary")
}

func TestShapSummaryRejectsMismatch(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/explain/shap/summary",
		`{"matrix": [[0.4]], "features": ["age", "income"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShapForceEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/explain/shap/force",
		`{"contributions": [0.5, -0.2], "base_value": 1.0, "feature_values": [30, 55000], "features": ["age", "income"], "instance": 0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "waterfall")
}

func TestLimeEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/explain/lime/explanation",
		`{"pairs": [{"feature": "age", "weight": 0.4}], "label": "approved"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "approved")

	rec = postJSON(t, router, "/api/explain/lime/impact",
		`{"explanations": [[{"feature": "age", "weight": 0.4}], [{"feature": "age", "weight": -0.1}]]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "lime_impact")
}

func TestOperationsLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/operations/", `{"table": `+tableJSON+`}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var accepted map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	runID := accepted["run_id"].(string)
	require.NotEmpty(t, runID)

	require.Eventually(t, func() bool {
		rec := getPath(t, router, "/api/operations/"+runID)
		if rec.Code != http.StatusOK {
			return false
		}
		var snapshot map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
			return false
		}
		return snapshot["status"] == "completed"
	}, 5*time.Second, 20*time.Millisecond)

	rec = getPath(t, router, "/api/operations/"+runID+"/results")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "quality")

	rec = getPath(t, router, "/api/operations/")
	require.Equal(t, http.StatusOK, rec.Code)

	var list map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.EqualValues(t, 1, list["count"])

	rec = getPath(t, router, "/api/operations/stats")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestOperationsRunNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := getPath(t, router, "/api/operations/11111111-2222-3333-4444-555555555555")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}
