package insights

import (
	"errors"
	"sort"

	"github.com/montanaflynn/stats"

	"tabiq/internal/tabular"
)

// ErrNilTable is returned by Generate when the table is nil.
var ErrNilTable = errors.New("insights: nil table")

// Generator runs the insight sub-analyses. It is stateless and safe for
// concurrent use.
type Generator struct{}

// NewGenerator returns a Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate runs every sub-analysis and assembles the full report.
func (g *Generator) Generate(t tabular.Table) (*Report, error) {
	if t == nil {
		return nil, ErrNilTable
	}
	return &Report{
		SummaryStats:  g.SummaryStatistics(t),
		Anomalies:     g.DetectAnomalies(t),
		Outliers:      g.DetectOutliers(t),
		Relationships: g.AnalyzeRelationships(t),
		Distributions: g.AnalyzeDistributions(t),
		MissingData:   g.AnalyzeMissingData(t),
	}, nil
}

// SummaryStatistics computes table shape and per-column descriptive
// statistics. Numeric columns with no values keep nil statistics; a nil
// table yields an empty summary.
func (g *Generator) SummaryStatistics(t tabular.Table) *SummaryStats {
	summary := &SummaryStats{ColumnInfo: map[string]*ColumnInfo{}}
	if t == nil {
		return summary
	}
	summary.Rows = t.NumRows()
	summary.Columns = t.NumCols()
	if mt, err := tabular.Materialize(t); err == nil {
		summary.MemoryMB = float64(mt.ApproxBytes()) / (1024 * 1024)
	}

	for ci := 0; ci < t.NumCols(); ci++ {
		col := t.Column(ci)
		info := &ColumnInfo{DType: col.Kind().String()}

		unique := make(map[string]struct{})
		for ri := 0; ri < col.Len(); ri++ {
			if col.IsNull(ri) {
				info.NullCount++
				continue
			}
			unique[tabular.RowKey(t, ri, []int{ci})] = struct{}{}
		}
		info.UniqueValues = len(unique)
		if t.NumRows() > 0 {
			info.NullPercentage = float64(info.NullCount) / float64(t.NumRows()) * 100
		}

		if tabular.IsNumericColumn(col) {
			numericInfo(col, info)
		} else {
			info.TopValues = topValues(t, ci)
		}
		summary.ColumnInfo[col.Name()] = info
	}
	return summary
}

func numericInfo(col tabular.Column, info *ColumnInfo) {
	values, _ := tabular.Floats(col)
	if len(values) == 0 {
		return
	}
	if v, err := stats.Mean(values); err == nil {
		info.Mean = &v
	}
	if v, err := stats.Median(values); err == nil {
		info.Median = &v
	}
	if len(values) >= 2 {
		if v, err := stats.StandardDeviationSample(values); err == nil {
			info.Std = &v
		}
	}
	if v, err := stats.Min(values); err == nil {
		info.Min = &v
	}
	if v, err := stats.Max(values); err == nil {
		info.Max = &v
	}
	if q, err := stats.Quartile(values); err == nil {
		q1, q3 := q.Q1, q.Q3
		info.Q1 = &q1
		info.Q3 = &q3
	}
}

// topValues counts the distinct present values of a column and returns the
// five most frequent, ties broken by value for determinism.
func topValues(t tabular.Table, ci int) []ValueCount {
	col := t.Column(ci)
	counts := make(map[string]int)
	for ri := 0; ri < col.Len(); ri++ {
		if col.IsNull(ri) {
			continue
		}
		counts[tabular.CellString(col, ri)]++
	}
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > maxTopValues {
		out = out[:maxTopValues]
	}
	return out
}

// AnalyzeMissingData reports the overall missing-cell percentage, per-column
// percentages sorted descending, and the columns that have any missing
// cells. A cell is missing when it is null or trims to empty text.
func (g *Generator) AnalyzeMissingData(t tabular.Table) *MissingData {
	missing := &MissingData{ByColumn: []ColumnMissing{}, ColumnsWithMissing: []string{}}
	if t == nil || t.NumCols() == 0 {
		return missing
	}

	totalCells := t.NumRows() * t.NumCols()
	totalMissing := 0
	for ci := 0; ci < t.NumCols(); ci++ {
		col := t.Column(ci)
		count := 0
		for ri := 0; ri < col.Len(); ri++ {
			if tabular.EmptyCell(col, ri) {
				count++
			}
		}
		totalMissing += count

		pct := 0.0
		if t.NumRows() > 0 {
			pct = float64(count) / float64(t.NumRows()) * 100
		}
		missing.ByColumn = append(missing.ByColumn, ColumnMissing{Column: col.Name(), Percentage: pct})
	}

	if totalCells > 0 {
		missing.TotalMissingPercentage = float64(totalMissing) / float64(totalCells) * 100
	}

	sort.SliceStable(missing.ByColumn, func(i, j int) bool {
		return missing.ByColumn[i].Percentage > missing.ByColumn[j].Percentage
	})
	for _, cm := range missing.ByColumn {
		if cm.Percentage > 0 {
			missing.ColumnsWithMissing = append(missing.ColumnsWithMissing, cm.Column)
		}
	}
	return missing
}
