package insights

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"tabiq/internal/tabular"
)

// Correlation reporting thresholds.
const (
	correlationFloor    = 0.3
	strongCorrelation   = 0.7
	moderateCorrelation = 0.5
)

// AnalyzeRelationships computes the Pearson correlation for every unordered
// pair of numeric columns over the rows where both values are present, and
// reports pairs with |r| above 0.3 keyed "a__b". Fewer than two numeric
// columns yields an empty map.
func (g *Generator) AnalyzeRelationships(t tabular.Table) map[string]*Relationship {
	relationships := make(map[string]*Relationship)
	if t == nil {
		return relationships
	}

	var numeric []tabular.Column
	for ci := 0; ci < t.NumCols(); ci++ {
		if col := t.Column(ci); tabular.IsNumericColumn(col) {
			numeric = append(numeric, col)
		}
	}
	if len(numeric) < minEnsembleColumns {
		return relationships
	}

	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			r, ok := pairwiseCorrelation(numeric[i], numeric[j])
			if !ok || math.Abs(r) <= correlationFloor {
				continue
			}
			key := fmt.Sprintf("%s__%s", numeric[i].Name(), numeric[j].Name())
			relationships[key] = &Relationship{
				Feature1:    numeric[i].Name(),
				Feature2:    numeric[j].Name(),
				Correlation: r,
				Strength:    classifyStrength(r),
				Direction:   direction(r),
			}
		}
	}
	return relationships
}

// pairwiseCorrelation computes Pearson's r over the rows where both columns
// are present. It reports false when fewer than two complete pairs exist or
// either side is constant.
func pairwiseCorrelation(a, b tabular.Column) (float64, bool) {
	var xs, ys []float64
	for row := 0; row < a.Len(); row++ {
		x, okA := a.Float(row)
		y, okB := b.Float(row)
		if okA && okB {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return 0, false
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

func classifyStrength(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs > strongCorrelation:
		return StrengthStrong
	case abs > moderateCorrelation:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

func direction(r float64) string {
	if r > 0 {
		return "positive"
	}
	return "negative"
}
