package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabiq/internal/tabular"
)

func TestAnalyzeRelationshipsNegativeDirection(t *testing.T) {
	tbl := mustTable(t,
		[]string{"x", "y"},
		[]tabular.Kind{tabular.KindNumeric, tabular.KindNumeric},
		[][]any{{1.0, -2.0}, {2.0, -4.0}, {3.0, -6.0}, {4.0, -8.0}},
	)

	relationships := NewGenerator().AnalyzeRelationships(tbl)
	rel := relationships["x__y"]
	require.NotNil(t, rel)
	assert.InDelta(t, -1.0, rel.Correlation, 1e-9)
	assert.Equal(t, StrengthStrong, rel.Strength)
	assert.Equal(t, "negative", rel.Direction)
}

func TestAnalyzeRelationshipsBelowFloorExcluded(t *testing.T) {
	// Zig-zag pattern with zero linear correlation against 1..5.
	tbl := mustTable(t,
		[]string{"x", "y"},
		[]tabular.Kind{tabular.KindNumeric, tabular.KindNumeric},
		[][]any{{1.0, 2.0}, {2.0, 1.0}, {3.0, 2.0}, {4.0, 1.0}, {5.0, 2.0}},
	)

	relationships := NewGenerator().AnalyzeRelationships(tbl)
	assert.Empty(t, relationships)
}

func TestAnalyzeRelationshipsWeakBoundary(t *testing.T) {
	// This permutation of 1..5 correlates with x at exactly 0.5: above the
	// reporting floor but not past the moderate cutoff.
	tbl := mustTable(t,
		[]string{"x", "y"},
		[]tabular.Kind{tabular.KindNumeric, tabular.KindNumeric},
		[][]any{{1.0, 3.0}, {2.0, 1.0}, {3.0, 4.0}, {4.0, 2.0}, {5.0, 5.0}},
	)

	relationships := NewGenerator().AnalyzeRelationships(tbl)
	rel := relationships["x__y"]
	require.NotNil(t, rel)
	assert.InDelta(t, 0.5, rel.Correlation, 1e-9)
	assert.Equal(t, StrengthWeak, rel.Strength)
	assert.Equal(t, "positive", rel.Direction)
}

func TestAnalyzeRelationshipsPairwiseNulls(t *testing.T) {
	// Correlation is computed over rows where both columns are present.
	tbl := mustTable(t,
		[]string{"x", "y"},
		[]tabular.Kind{tabular.KindNumeric, tabular.KindNumeric},
		[][]any{{1.0, 2.0}, {2.0, 4.0}, {3.0, 6.0}, {4.0, nil}, {nil, 10.0}},
	)

	relationships := NewGenerator().AnalyzeRelationships(tbl)
	rel := relationships["x__y"]
	require.NotNil(t, rel)
	assert.InDelta(t, 1.0, rel.Correlation, 1e-9)
}

func TestAnalyzeRelationshipsConstantColumnSkipped(t *testing.T) {
	tbl := mustTable(t,
		[]string{"x", "y"},
		[]tabular.Kind{tabular.KindNumeric, tabular.KindNumeric},
		[][]any{{1.0, 5.0}, {2.0, 5.0}, {3.0, 5.0}},
	)

	relationships := NewGenerator().AnalyzeRelationships(tbl)
	assert.Empty(t, relationships, "undefined correlation is dropped")
}

func TestAnalyzeRelationshipsTooFewOverlappingRows(t *testing.T) {
	tbl := mustTable(t,
		[]string{"x", "y"},
		[]tabular.Kind{tabular.KindNumeric, tabular.KindNumeric},
		[][]any{{1.0, nil}, {nil, 2.0}, {3.0, nil}},
	)

	relationships := NewGenerator().AnalyzeRelationships(tbl)
	assert.Empty(t, relationships)
}

func TestAnalyzeRelationshipsSingleNumericColumn(t *testing.T) {
	tbl := mustTable(t,
		[]string{"x", "label"},
		[]tabular.Kind{tabular.KindNumeric, tabular.KindText},
		[][]any{{1.0, "a"}, {2.0, "b"}, {3.0, "c"}},
	)

	relationships := NewGenerator().AnalyzeRelationships(tbl)
	assert.Empty(t, relationships)
}

func TestClassifyStrength(t *testing.T) {
	tests := []struct {
		r    float64
		want string
	}{
		{0.95, StrengthStrong},
		{0.71, StrengthStrong},
		{0.70, StrengthModerate},
		{0.51, StrengthModerate},
		{0.50, StrengthWeak},
		{0.31, StrengthWeak},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyStrength(tt.r), "r %v", tt.r)
	}
}
