package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(http.StatusBadRequest, "TEST_CODE", "test message")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "TEST_CODE", err.ErrorCode)
	assert.Equal(t, "test message", err.Message)
	assert.Nil(t, err.Details)
	assert.Equal(t, "test message", err.Error())
}

func TestNewWithDetails(t *testing.T) {
	details := map[string]string{"column": "price"}
	err := NewWithDetails(http.StatusUnprocessableEntity, "CHART_TYPE_UNSUPPORTED", "bad chart", details)

	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, details, err.Details)
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{"invalid request", ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{"empty table", ErrEmptyTable, http.StatusBadRequest, "EMPTY_TABLE"},
		{"run not found", ErrRunNotFound, http.StatusNotFound, "RUN_NOT_FOUND"},
		{"chart unsupported", ErrUnsupportedChartType, http.StatusUnprocessableEntity, "CHART_TYPE_UNSUPPORTED"},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"internal", ErrInternalServer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("chart_type", "must be a supported chart type")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "chart_type", detail.Field)
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "columns", Message: "required"},
		{Field: "rows", Message: "required"},
	})

	detail, ok := err.Details.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, detail.Errors, 2)
}

func TestRunNotFoundError(t *testing.T) {
	err := RunNotFoundError("run-123")

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "RUN_NOT_FOUND", err.ErrorCode)
	assert.Equal(t, "run-123", err.Details)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrChartType("hologram"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "CHART_TYPE_UNSUPPORTED", resp.Error.ErrorCode)
	assert.Equal(t, "hologram", resp.Error.Details)
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "missing columns", "/api/datasets/analyze").
		WithExtension("error_code", "VALIDATION_FAILED")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypeValidation, decoded["type"])
	assert.Equal(t, float64(http.StatusBadRequest), decoded["status"])
	assert.Equal(t, "missing columns", decoded["detail"])
	assert.Equal(t, "/api/datasets/analyze", decoded["instance"])
	assert.Equal(t, "VALIDATION_FAILED", decoded["error_code"])
}
