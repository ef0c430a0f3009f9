package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabiq/internal/tabular"
)

// The classic two-column fixture: B is exactly 2*A and the last row is far
// outside both columns' fences.
func linearFixture(t *testing.T) *tabular.MemTable {
	t.Helper()
	return mustTable(t,
		[]string{"A", "B"},
		[]tabular.Kind{tabular.KindNumeric, tabular.KindNumeric},
		[][]any{
			{1.0, 2.0},
			{2.0, 4.0},
			{3.0, 6.0},
			{4.0, 8.0},
			{5.0, 10.0},
			{100.0, 200.0},
		},
	)
}

func TestDetectAnomaliesFlagsExtremeRow(t *testing.T) {
	anomalies := NewGenerator().DetectAnomalies(linearFixture(t))

	a := anomalies["A"]
	require.NotNil(t, a)
	assert.Equal(t, 1, a.Count)
	assert.Equal(t, []int{5}, a.Indices)
	assert.Equal(t, []float64{100}, a.Values)
	assert.InDelta(t, 100.0/6.0, a.Percentage, 1e-9)
	assert.Equal(t, SeverityCritical, a.Severity, "one of six rows exceeds the 10% ratio")

	b := anomalies["B"]
	require.NotNil(t, b)
	assert.Equal(t, []int{5}, b.Indices)
	assert.Equal(t, []float64{200}, b.Values)
}

func TestDetectAnomaliesRelationshipScenario(t *testing.T) {
	relationships := NewGenerator().AnalyzeRelationships(linearFixture(t))

	rel := relationships["A__B"]
	require.NotNil(t, rel)
	assert.Equal(t, "A", rel.Feature1)
	assert.Equal(t, "B", rel.Feature2)
	assert.InDelta(t, 1.0, rel.Correlation, 1e-9)
	assert.Equal(t, StrengthStrong, rel.Strength)
	assert.Equal(t, "positive", rel.Direction)
}

func TestDetectAnomaliesSkipsShortColumns(t *testing.T) {
	tbl := mustTable(t,
		[]string{"v"},
		[]tabular.Kind{tabular.KindNumeric},
		[][]any{{1.0}, {1000.0}, {nil}, {nil}},
	)

	anomalies := NewGenerator().DetectAnomalies(tbl)
	assert.Empty(t, anomalies, "two present values are below the minimum")
}

func TestDetectAnomaliesSkipsCleanColumns(t *testing.T) {
	tbl := mustTable(t,
		[]string{"v"},
		[]tabular.Kind{tabular.KindNumeric},
		[][]any{{1.0}, {2.0}, {3.0}, {4.0}, {5.0}},
	)

	anomalies := NewGenerator().DetectAnomalies(tbl)
	_, present := anomalies["v"]
	assert.False(t, present, "columns without anomalies are omitted")
}

func TestDetectAnomaliesIndicesSkipNulls(t *testing.T) {
	tbl := mustTable(t,
		[]string{"v"},
		[]tabular.Kind{tabular.KindNumeric},
		[][]any{{1.0}, {nil}, {2.0}, {3.0}, {nil}, {4.0}, {5.0}, {100.0}},
	)

	anomalies := NewGenerator().DetectAnomalies(tbl)
	a := anomalies["v"]
	require.NotNil(t, a)
	assert.Equal(t, []int{7}, a.Indices, "indices refer to table rows, not dense positions")
	assert.Equal(t, []float64{100}, a.Values)
}

func TestDetectAnomaliesConstantColumn(t *testing.T) {
	tbl := mustTable(t,
		[]string{"v"},
		[]tabular.Kind{tabular.KindNumeric},
		[][]any{{5.0}, {5.0}, {5.0}, {5.0}},
	)

	anomalies := NewGenerator().DetectAnomalies(tbl)
	assert.Empty(t, anomalies, "zero variance flags nothing")
}

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0.5, SeverityCritical},
		{0.101, SeverityCritical},
		{0.10, SeverityHigh},
		{0.051, SeverityHigh},
		{0.05, SeverityMedium},
		{0.021, SeverityMedium},
		{0.02, SeverityLow},
		{0.0, SeverityLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifySeverity(tt.ratio), "ratio %v", tt.ratio)
	}
}
