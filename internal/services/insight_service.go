package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tabiq/internal/insights"
	"tabiq/internal/tabular"
)

// Insight report section names accepted by Generate.
const (
	SectionSummaryStats  = "summary_stats"
	SectionAnomalies     = "anomalies"
	SectionOutliers      = "outliers"
	SectionRelationships = "relationships"
	SectionDistributions = "distributions"
	SectionMissingData   = "missing_data"
)

// InsightService generates statistical insight reports.
type InsightService struct {
	generator *insights.Generator
	logger    *slog.Logger
}

// NewInsightService creates the insight service.
func NewInsightService(logger *slog.Logger) *InsightService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightService{
		generator: insights.NewGenerator(),
		logger:    logger,
	}
}

// Generate runs the requested report sections over a table. An empty
// section list means the full report; unrequested sections stay nil.
func (s *InsightService) Generate(ctx context.Context, t tabular.Table, sections []string) (*insights.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	if len(sections) == 0 {
		report, err := s.generator.Generate(t)
		if err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "insight report generated",
			slog.Int("rows", t.NumRows()),
			slog.Int("columns", t.NumCols()),
			slog.Duration("duration", time.Since(start)))
		return report, nil
	}

	if t == nil {
		return nil, insights.ErrNilTable
	}

	report := &insights.Report{}
	for _, section := range sections {
		switch section {
		case SectionSummaryStats:
			report.SummaryStats = s.generator.SummaryStatistics(t)
		case SectionAnomalies:
			report.Anomalies = s.generator.DetectAnomalies(t)
		case SectionOutliers:
			report.Outliers = s.generator.DetectOutliers(t)
		case SectionRelationships:
			report.Relationships = s.generator.AnalyzeRelationships(t)
		case SectionDistributions:
			report.Distributions = s.generator.AnalyzeDistributions(t)
		case SectionMissingData:
			report.MissingData = s.generator.AnalyzeMissingData(t)
		default:
			return nil, fmt.Errorf("unknown insight section %q", section)
		}
	}

	s.logger.InfoContext(ctx, "insight report generated",
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumCols()),
		slog.Int("sections", len(sections)),
		slog.Duration("duration", time.Since(start)))
	return report, nil
}
