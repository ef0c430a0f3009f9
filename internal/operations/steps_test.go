package operations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabiq/internal/chartconfig"
	"tabiq/internal/insights"
	"tabiq/internal/quality"
)

func TestQualityStepStoresReport(t *testing.T) {
	state := NewRunState("run-1", analysisTable(t))
	state.SetStep(StepIDQuality, NewStepState(StepIDQuality, StepNameQuality))

	step := NewQualityStep()
	require.NoError(t, step.Run(context.Background(), state))

	result, ok := state.Result(ResultQuality)
	require.True(t, ok)
	report, ok := result.(*quality.Report)
	require.True(t, ok)
	assert.Equal(t, 3, report.BasicStats.Rows)
	assert.Equal(t, 2, report.BasicStats.Columns)

	assert.Contains(t, state.GetStep(StepIDQuality).GetMessage(), "quality score")
}

func TestInsightsStepStoresReport(t *testing.T) {
	state := NewRunState("run-1", analysisTable(t))
	state.SetStep(StepIDInsights, NewStepState(StepIDInsights, StepNameInsights))

	step := NewInsightsStep()
	require.NoError(t, step.Run(context.Background(), state))

	result, ok := state.Result(ResultInsights)
	require.True(t, ok)
	report, ok := result.(*insights.Report)
	require.True(t, ok)
	require.NotNil(t, report.SummaryStats)
	assert.Equal(t, 3, report.SummaryStats.Rows)

	assert.NotEmpty(t, state.GetStep(StepIDInsights).GetMessage())
}

func TestChartStepSuggestsFromTableShape(t *testing.T) {
	state := NewRunState("run-1", analysisTable(t))
	state.SetStep(StepIDChart, NewStepState(StepIDChart, StepNameChart))

	step := NewChartStep()
	require.NoError(t, step.Run(context.Background(), state))

	result, ok := state.Result(ResultChart)
	require.True(t, ok)
	suggestion, ok := result.(*ChartSuggestion)
	require.True(t, ok)

	// One low-cardinality text column next to one numeric column
	// suggests a pie chart.
	assert.Equal(t, chartconfig.TypePie, suggestion.ChartType)
	require.NotNil(t, suggestion.Config)
	assert.Equal(t, "pie", suggestion.Config.Type)
}

func TestStepsHonorCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state := NewRunState("run-1", analysisTable(t))
	for _, step := range DefaultSteps() {
		err := step.Run(ctx, state)
		require.Error(t, err, step.ID())
		assert.Equal(t, ErrorTypeCancellation, GetErrorType(err), step.ID())
	}
}

func TestDefaultStepsOrder(t *testing.T) {
	steps := DefaultSteps()
	require.Len(t, steps, 3)
	assert.Equal(t, StepIDQuality, steps[0].ID())
	assert.Equal(t, StepIDInsights, steps[1].ID())
	assert.Equal(t, StepIDChart, steps[2].ID())

	assert.Equal(t, StepNameQuality, steps[0].Name())
	assert.Equal(t, StepNameInsights, steps[1].Name())
	assert.Equal(t, StepNameChart, steps[2].Name())
}
