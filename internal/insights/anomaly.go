package insights

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"tabiq/internal/tabular"
)

// DetectAnomalies flags anomalous values per numeric column as the union of
// two rules: |z| > 3 over the population standard deviation, and the
// 1.5 IQR fence. Columns with fewer than three values are skipped, and only
// columns with at least one anomaly appear in the result. Indices are table
// row indices; percentages are over the column's present values.
func (g *Generator) DetectAnomalies(t tabular.Table) map[string]*ColumnAnomalies {
	anomalies := make(map[string]*ColumnAnomalies)
	if t == nil {
		return anomalies
	}

	for ci := 0; ci < t.NumCols(); ci++ {
		col := t.Column(ci)
		if !tabular.IsNumericColumn(col) {
			continue
		}
		values, rows := tabular.Floats(col)
		if len(values) < minAnomalyValues {
			continue
		}

		flagged := make(map[int]struct{})
		for _, p := range zScoreAnomalies(values) {
			flagged[p] = struct{}{}
		}
		for _, p := range iqrAnomalies(values) {
			flagged[p] = struct{}{}
		}
		if len(flagged) == 0 {
			continue
		}

		positions := make([]int, 0, len(flagged))
		for p := range flagged {
			positions = append(positions, p)
		}
		sort.Ints(positions)

		entry := &ColumnAnomalies{
			Count:      len(positions),
			Percentage: float64(len(positions)) / float64(len(values)) * 100,
			Severity:   classifySeverity(float64(len(positions)) / float64(len(values))),
		}
		for _, p := range positions {
			if len(entry.Indices) >= maxAnomalyEntries {
				break
			}
			entry.Indices = append(entry.Indices, rows[p])
			entry.Values = append(entry.Values, values[p])
		}
		anomalies[col.Name()] = entry
	}
	return anomalies
}

// zScoreAnomalies returns positions whose |z| exceeds 3. A zero standard
// deviation flags nothing.
func zScoreAnomalies(values []float64) []int {
	mean, err := stats.Mean(values)
	if err != nil {
		return nil
	}
	std, err := stats.StandardDeviationPopulation(values)
	if err != nil || std == 0 {
		return nil
	}
	var out []int
	for p, v := range values {
		if math.Abs((v-mean)/std) > 3 {
			out = append(out, p)
		}
	}
	return out
}

// iqrAnomalies returns positions outside the 1.5 IQR fence.
func iqrAnomalies(values []float64) []int {
	q, err := stats.Quartile(values)
	if err != nil {
		return nil
	}
	iqr := q.Q3 - q.Q1
	lower := q.Q1 - 1.5*iqr
	upper := q.Q3 + 1.5*iqr

	var out []int
	for p, v := range values {
		if v < lower || v > upper {
			out = append(out, p)
		}
	}
	return out
}

func classifySeverity(ratio float64) string {
	switch {
	case ratio > 0.10:
		return SeverityCritical
	case ratio > 0.05:
		return SeverityHigh
	case ratio > 0.02:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
