package operations

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabiq/internal/tabular"
)

func analysisTable(t *testing.T) *tabular.MemTable {
	t.Helper()
	tbl, err := tabular.FromRows(
		[]string{"city", "sales"},
		[]tabular.Kind{tabular.KindText, tabular.KindNumeric},
		[][]any{{"baghdad", 10.0}, {"basra", 20.0}, {"erbil", 30.0}},
	)
	require.NoError(t, err)
	return tbl
}

func TestStepStateLifecycle(t *testing.T) {
	st := NewStepState(StepIDQuality, StepNameQuality)
	assert.Equal(t, StepStatusPending, st.GetStatus())
	assert.Zero(t, st.Duration())

	st.Start()
	assert.Equal(t, StepStatusActive, st.GetStatus())
	require.NotNil(t, st.StartTime)

	st.SetMessage("quality score 80.0")
	assert.Equal(t, "quality score 80.0", st.GetMessage())

	st.Complete()
	assert.Equal(t, StepStatusCompleted, st.GetStatus())
	assert.Equal(t, float64(100), st.GetProgress())
	assert.Equal(t, "quality score 80.0", st.GetMessage(), "completing keeps the step message")
	require.NotNil(t, st.EndTime)
	assert.GreaterOrEqual(t, st.Duration(), time.Duration(0))
}

func TestStepStateFail(t *testing.T) {
	st := NewStepState(StepIDInsights, StepNameInsights)
	st.Start()
	st.Fail(errors.New("boom"))

	assert.Equal(t, StepStatusFailed, st.GetStatus())
	assert.Equal(t, "boom", st.GetMessage())
	assert.Error(t, st.Err)
	require.NotNil(t, st.EndTime)
}

func TestStepStateSkip(t *testing.T) {
	st := NewStepState(StepIDChart, StepNameChart)
	st.Skip("previous step failed")

	assert.Equal(t, StepStatusSkipped, st.GetStatus())
	assert.Equal(t, "previous step failed", st.GetMessage())
}

func TestRunStateLifecycle(t *testing.T) {
	state := NewRunState("run-1", analysisTable(t))
	assert.Equal(t, RunStatusPending, state.GetStatus())
	require.NotNil(t, state.Table())

	state.Start()
	assert.Equal(t, RunStatusRunning, state.GetStatus())

	state.Complete()
	assert.Equal(t, RunStatusCompleted, state.GetStatus())
	require.NotNil(t, state.EndTime)
	assert.GreaterOrEqual(t, state.Duration(), time.Duration(0))
}

func TestRunStateCancel(t *testing.T) {
	state := NewRunState("run-1", analysisTable(t))
	state.Start()
	state.Cancel()

	assert.Equal(t, RunStatusCancelled, state.GetStatus())
	require.NotNil(t, state.EndTime)
}

func TestRunStateResults(t *testing.T) {
	state := NewRunState("run-1", analysisTable(t))

	_, ok := state.Result(ResultQuality)
	assert.False(t, ok)

	state.SetResult(ResultQuality, "report")
	got, ok := state.Result(ResultQuality)
	require.True(t, ok)
	assert.Equal(t, "report", got)

	results := state.Results()
	results[ResultInsights] = "leaked"
	_, ok = state.Result(ResultInsights)
	assert.False(t, ok, "Results returns a copy")
}

func TestRunStateProgressAveragesSteps(t *testing.T) {
	state := NewRunState("run-1", analysisTable(t))
	assert.Zero(t, state.Progress())

	a := NewStepState("a", "A")
	b := NewStepState("b", "B")
	state.SetStep("a", a)
	state.SetStep("b", b)
	assert.Zero(t, state.Progress())

	a.Complete()
	assert.InDelta(t, 50.0, state.Progress(), 1e-9)

	b.Complete()
	assert.InDelta(t, 100.0, state.Progress(), 1e-9)
}

func TestRunStateHasFailures(t *testing.T) {
	state := NewRunState("run-1", analysisTable(t))
	state.SetStep("a", NewStepState("a", "A"))
	assert.False(t, state.HasFailures())

	state.GetStep("a").Fail(errors.New("boom"))
	assert.True(t, state.HasFailures())
}

func TestRunStateSetStepMessage(t *testing.T) {
	state := NewRunState("run-1", analysisTable(t))
	state.SetStep("a", NewStepState("a", "A"))

	state.SetStepMessage("a", "working")
	assert.Equal(t, "working", state.GetStep("a").GetMessage())

	// Unknown IDs are ignored rather than panicking.
	state.SetStepMessage("missing", "nope")
	assert.Nil(t, state.GetStep("missing"))
}

func TestRunStateClone(t *testing.T) {
	state := NewRunState("run-1", analysisTable(t))
	state.SetStep("a", NewStepState("a", "A"))
	state.SetResult(ResultChart, 42)
	state.Start()

	clone := state.Clone()
	clone.SetResult(ResultQuality, "mutated")
	clone.GetStep("a").Complete()

	_, ok := state.Result(ResultQuality)
	assert.False(t, ok, "clone results are independent")
	assert.Equal(t, StepStatusPending, state.GetStep("a").GetStatus(), "clone steps are independent")

	assert.Equal(t, RunStatusRunning, clone.GetStatus())
	got, ok := clone.Result(ResultChart)
	require.True(t, ok)
	assert.Equal(t, 42, got)
}
