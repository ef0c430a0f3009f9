package operations

import (
	"context"
	"fmt"

	"tabiq/internal/chartconfig"
	"tabiq/internal/insights"
	"tabiq/internal/quality"
)

// QualityStep runs the quality diagnostics analysis.
type QualityStep struct {
	analyzer *quality.Analyzer
}

// NewQualityStep creates the quality diagnostics step.
func NewQualityStep() *QualityStep {
	return &QualityStep{analyzer: quality.NewAnalyzer()}
}

// ID returns the step identifier.
func (s *QualityStep) ID() string { return StepIDQuality }

// Name returns the step display name.
func (s *QualityStep) Name() string { return StepNameQuality }

// Run analyzes the run's table and stores the diagnostics report.
func (s *QualityStep) Run(ctx context.Context, state *RunState) error {
	if err := ctx.Err(); err != nil {
		return NewCancellationError(s.ID())
	}

	report, err := s.analyzer.Analyze(state.Table())
	if err != nil {
		return NewStepError(s.ID(), err, false)
	}

	state.SetResult(ResultQuality, report)
	state.SetStepMessage(s.ID(), fmt.Sprintf("quality score %.1f", report.QualityScore))
	return nil
}

// InsightsStep runs the statistical insight generation.
type InsightsStep struct {
	generator *insights.Generator
}

// NewInsightsStep creates the insight generation step.
func NewInsightsStep() *InsightsStep {
	return &InsightsStep{generator: insights.NewGenerator()}
}

// ID returns the step identifier.
func (s *InsightsStep) ID() string { return StepIDInsights }

// Name returns the step display name.
func (s *InsightsStep) Name() string { return StepNameInsights }

// Run generates the insight report for the run's table.
func (s *InsightsStep) Run(ctx context.Context, state *RunState) error {
	if err := ctx.Err(); err != nil {
		return NewCancellationError(s.ID())
	}

	report, err := s.generator.Generate(state.Table())
	if err != nil {
		return NewStepError(s.ID(), err, false)
	}

	state.SetResult(ResultInsights, report)
	state.SetStepMessage(s.ID(), fmt.Sprintf("%d anomalous columns, %d relationships, %d distributions",
		len(report.Anomalies), len(report.Relationships), len(report.Distributions)))
	return nil
}

// ChartSuggestion is the result of the chart suggestion step.
type ChartSuggestion struct {
	ChartType chartconfig.ChartType `json:"chart_type"`
	Config    *chartconfig.Config   `json:"config"`
}

// ChartStep suggests a chart type and builds its render configuration.
type ChartStep struct{}

// NewChartStep creates the chart suggestion step.
func NewChartStep() *ChartStep {
	return &ChartStep{}
}

// ID returns the step identifier.
func (s *ChartStep) ID() string { return StepIDChart }

// Name returns the step display name.
func (s *ChartStep) Name() string { return StepNameChart }

// Run picks the chart type best suited to the run's table and stores the
// suggested configuration.
func (s *ChartStep) Run(ctx context.Context, state *RunState) error {
	if err := ctx.Err(); err != nil {
		return NewCancellationError(s.ID())
	}

	gen := chartconfig.NewGenerator(state.Table())
	suggested := gen.SuggestChartType()
	cfg, err := gen.RecommendedConfig("")
	if err != nil {
		return NewStepError(s.ID(), err, false)
	}

	state.SetResult(ResultChart, &ChartSuggestion{ChartType: suggested, Config: cfg})
	state.SetStepMessage(s.ID(), fmt.Sprintf("suggested chart type %q", suggested))
	return nil
}

// DefaultSteps returns the standard analysis steps in execution order.
func DefaultSteps() []Step {
	return []Step{
		NewQualityStep(),
		NewInsightsStep(),
		NewChartStep(),
	}
}
