package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"tabiq/internal/cleaning"
	"tabiq/internal/ingest"
	"tabiq/internal/quality"
	"tabiq/internal/tabular"
	"tabiq/internal/validation"
)

// DatasetService covers the single-table operations: file ingestion,
// quality analysis, and cleaning.
type DatasetService struct {
	analyzer  *quality.Analyzer
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewDatasetService creates the dataset service.
func NewDatasetService(validator *validation.FileValidator, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetService{
		analyzer:  quality.NewAnalyzer(),
		validator: validator,
		logger:    logger,
	}
}

// Analyze produces the data-quality report for a table.
func (s *DatasetService) Analyze(ctx context.Context, t tabular.Table) (*quality.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	report, err := s.analyzer.Analyze(t)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "table analyzed",
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumCols()),
		slog.Float64("quality_score", report.QualityScore),
		slog.Duration("duration", time.Since(start)))
	return report, nil
}

// Clean applies one named cleaning operation and returns the cleaned
// table with a report of what changed.
func (s *DatasetService) Clean(ctx context.Context, t tabular.Table, operation string, params cleaning.Params) (*tabular.MemTable, *cleaning.ChangeReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	cleaned, report, err := cleaning.Apply(t, operation, params)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "cleaning operation applied",
		slog.String("operation", operation),
		slog.Int("rows_before", report.RowsBefore),
		slog.Int("rows_after", report.RowsAfter),
		slog.Int("warnings", len(report.Warnings)))
	return cleaned, report, nil
}

// IngestUpload validates an uploaded file and decodes it into a table.
// Size is the declared upload size used for the limit check; the body is
// still read in full.
func (s *DatasetService) IngestUpload(ctx context.Context, filename string, size int64, r io.Reader) (*tabular.MemTable, ingest.Format, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	format, err := s.validator.ValidateUpload(filename, size)
	if err != nil {
		return nil, "", err
	}

	table, err := ingest.Decode(r, format)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", filename, err)
	}

	s.logger.InfoContext(ctx, "upload ingested",
		slog.String("filename", filename),
		slog.String("format", string(format)),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumCols()))
	return table, format, nil
}
