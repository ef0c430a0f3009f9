package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabiq/internal/cleaning"
	"tabiq/internal/ingest"
	"tabiq/internal/tabular"
	"tabiq/internal/validation"
)

func testTable(t *testing.T) *tabular.MemTable {
	t.Helper()
	table, err := tabular.FromRows(
		[]string{"region", "sales"},
		[]tabular.Kind{tabular.KindText, tabular.KindNumeric},
		[][]any{
			{"north", 100.0},
			{"south", 200.0},
			{"north", 100.0},
			{"east", nil},
		},
	)
	require.NoError(t, err)
	return table
}

func newTestDatasetService() *DatasetService {
	return NewDatasetService(validation.NewFileValidator(nil, 1024), nil)
}

func TestDatasetServiceAnalyze(t *testing.T) {
	svc := newTestDatasetService()

	report, err := svc.Analyze(context.Background(), testTable(t))
	require.NoError(t, err)
	assert.Greater(t, report.QualityScore, 0.0)
}

func TestDatasetServiceAnalyzeCancelled(t *testing.T) {
	svc := newTestDatasetService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, testTable(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDatasetServiceClean(t *testing.T) {
	svc := newTestDatasetService()

	cleaned, report, err := svc.Clean(context.Background(), testTable(t), cleaning.OpRemoveDuplicates, cleaning.Params{})
	require.NoError(t, err)
	assert.Equal(t, 3, cleaned.NumRows())
	assert.Equal(t, 1, report.DuplicatesRemoved)
}

func TestDatasetServiceCleanUnknownOperation(t *testing.T) {
	svc := newTestDatasetService()

	_, _, err := svc.Clean(context.Background(), testTable(t), "no_such_op", cleaning.Params{})
	assert.ErrorIs(t, err, cleaning.ErrUnknownOperation)
}

func TestDatasetServiceIngestUpload(t *testing.T) {
	svc := newTestDatasetService()
	body := "region,sales\nnorth,100\nsouth,200\n"

	table, format, err := svc.IngestUpload(context.Background(), "sales.csv", int64(len(body)), strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, ingest.FormatCSV, format)
	assert.Equal(t, 2, table.NumRows())
	assert.Equal(t, []string{"region", "sales"}, table.ColumnNames())
}

func TestDatasetServiceIngestUploadRejectsBadFile(t *testing.T) {
	svc := newTestDatasetService()

	tests := []struct {
		name     string
		filename string
		size     int64
	}{
		{name: "unsupported extension", filename: "data.txt", size: 10},
		{name: "oversized", filename: "data.csv", size: 4096},
		{name: "empty", filename: "data.csv", size: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.IngestUpload(context.Background(), tt.filename, tt.size, strings.NewReader("x"))
			assert.Error(t, err)
		})
	}
}
