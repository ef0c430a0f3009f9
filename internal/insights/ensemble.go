package insights

import (
	"sort"

	"github.com/montanaflynn/stats"

	"tabiq/internal/tabular"
)

// Ensemble configuration. The fixed seed keeps the forest deterministic for
// a given table.
const (
	ensembleSeed          = 42
	ensembleContamination = 0.10
	ensembleNeighbors     = 20
)

// Method names reported in OutlierSummary.MethodsUsed.
const (
	MethodIsolationForest    = "Isolation Forest"
	MethodLocalOutlierFactor = "Local Outlier Factor"
)

// DetectOutliers runs the multivariate ensemble: an isolation forest and a
// local outlier factor detector, each flagging roughly the most anomalous
// tenth of the rows, with the union reported. Tables with fewer than two
// numeric columns or ten rows yield an empty report. Missing values are
// imputed with the column mean; numeric columns with no values at all are
// left out of the feature matrix.
func (g *Generator) DetectOutliers(t tabular.Table) *OutlierReport {
	report := &OutlierReport{}
	if t == nil {
		return report
	}

	matrix, ok := featureMatrix(t)
	if !ok {
		return report
	}

	forest := newIsolationForest(ensembleSeed)
	flagged := make(map[int]struct{})
	for _, r := range forest.detect(matrix, ensembleContamination) {
		flagged[r] = struct{}{}
	}
	k := min(ensembleNeighbors, len(matrix)-1)
	for _, r := range localOutlierFactor(matrix, k, ensembleContamination) {
		flagged[r] = struct{}{}
	}

	rows := make([]int, 0, len(flagged))
	for r := range flagged {
		rows = append(rows, r)
	}
	sort.Ints(rows)

	report.Summary = &OutlierSummary{
		TotalOutliers:     len(rows),
		OutlierPercentage: float64(len(rows)) / float64(len(matrix)) * 100,
		MethodsUsed:       []string{MethodIsolationForest, MethodLocalOutlierFactor},
	}
	if len(rows) > maxOutlierIndices {
		rows = rows[:maxOutlierIndices]
	}
	report.OutlierIndices = rows
	return report
}

// featureMatrix builds the row-major numeric matrix the detectors consume.
// It reports false when the table has fewer than two numeric columns, fewer
// than two usable ones after dropping all-null columns, or fewer than ten
// rows.
func featureMatrix(t tabular.Table) ([][]float64, bool) {
	var numeric []tabular.Column
	for ci := 0; ci < t.NumCols(); ci++ {
		if col := t.Column(ci); tabular.IsNumericColumn(col) {
			numeric = append(numeric, col)
		}
	}
	if len(numeric) < minEnsembleColumns || t.NumRows() < minEnsembleRows {
		return nil, false
	}

	type feature struct {
		col  tabular.Column
		mean float64
	}
	features := make([]feature, 0, len(numeric))
	for _, col := range numeric {
		values, _ := tabular.Floats(col)
		if len(values) == 0 {
			continue
		}
		mean, err := stats.Mean(values)
		if err != nil {
			continue
		}
		features = append(features, feature{col: col, mean: mean})
	}
	if len(features) < minEnsembleColumns {
		return nil, false
	}

	matrix := make([][]float64, t.NumRows())
	for r := range matrix {
		row := make([]float64, len(features))
		for c, f := range features {
			if v, ok := f.col.Float(r); ok {
				row[c] = v
			} else {
				row[c] = f.mean
			}
		}
		matrix[r] = row
	}
	return matrix, true
}

// flagTopFraction returns the indices whose score strictly exceeds the
// (1 - fraction) percentile, which flags at most about that fraction of the
// rows. Uniform scores flag nothing.
func flagTopFraction(scores []float64, fraction float64) []int {
	threshold, err := stats.Percentile(scores, (1-fraction)*100)
	if err != nil {
		return nil
	}
	var out []int
	for r, s := range scores {
		if s > threshold {
			out = append(out, r)
		}
	}
	return out
}
