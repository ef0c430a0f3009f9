package services

import (
	"context"
	"log/slog"

	"tabiq/internal/chartconfig"
	"tabiq/internal/tabular"
)

// ChartService builds render-ready chart configurations.
type ChartService struct {
	logger *slog.Logger
}

// NewChartService creates the chart service.
func NewChartService(logger *slog.Logger) *ChartService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartService{logger: logger}
}

// Config generates the configuration for a requested chart type. Empty x
// and y fall back to the generator's column selection.
func (s *ChartService) Config(ctx context.Context, t tabular.Table, chartType string, x string, ys []string, title string) (*chartconfig.Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parsed, err := chartconfig.ParseChartType(chartType)
	if err != nil {
		return nil, err
	}

	cfg, err := chartconfig.NewGenerator(t).Generate(parsed, x, ys, title)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "chart config generated",
		slog.String("chart_type", string(parsed)),
		slog.Int("rows", t.NumRows()))
	return cfg, nil
}

// Suggest picks the chart family best suited to the table's shape.
func (s *ChartService) Suggest(ctx context.Context, t tabular.Table) (chartconfig.ChartType, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	suggested := chartconfig.NewGenerator(t).SuggestChartType()
	s.logger.DebugContext(ctx, "chart type suggested",
		slog.String("chart_type", string(suggested)))
	return suggested, nil
}

// Recommended suggests a chart type and generates its configuration in
// one pass.
func (s *ChartService) Recommended(ctx context.Context, t tabular.Table, title string) (chartconfig.ChartType, *chartconfig.Config, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	gen := chartconfig.NewGenerator(t)
	suggested := gen.SuggestChartType()
	cfg, err := gen.RecommendedConfig(title)
	if err != nil {
		return "", nil, err
	}
	return suggested, cfg, nil
}
