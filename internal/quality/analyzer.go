package quality

import (
	"errors"

	"github.com/montanaflynn/stats"

	"tabiq/internal/tabular"
)

// ErrNilTable is returned when Analyze is called without a table.
var ErrNilTable = errors.New("quality: nil table")

const (
	maxEmptyCellRecords  = 1000
	maxDuplicateIndices  = 1000
	maxOutlierColumns    = 100
	maxOutlierSamples    = 5
)

// Analyzer produces diagnostics reports. It is stateless and safe for
// concurrent use.
type Analyzer struct{}

// NewAnalyzer returns a ready Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze inspects the table and returns its diagnostics report. Tables
// with zero rows or zero columns yield a degenerate report with a score of
// zero rather than an error.
func (a *Analyzer) Analyze(t tabular.Table) (*Report, error) {
	if t == nil {
		return nil, ErrNilTable
	}

	report := &Report{
		BasicStats: basicStats(t),
	}

	if t.NumRows() == 0 || t.NumCols() == 0 {
		report.EmptyCells = EmptyCellReport{
			EmptyCells:       []EmptyCell{},
			EmptyRowIndices:  []int{},
			EmptyColumnNames: []string{},
		}
		report.Duplicates = DuplicateReport{
			DuplicateRowIndices:  []int{},
			DuplicateValuesByCol: map[string]map[string]int{},
		}
		report.ColumnStats = columnStats(t)
		report.DataTypes = dataTypes(t)
		report.MissingValues = missingValues(t)
		report.Outliers = []ColumnOutliers{}
		report.Summary = buildSummary(t.NumRows(), t.NumCols(), 0, 0)
		report.QualityScore = 0
		return report, nil
	}

	report.EmptyCells = emptyCells(t)
	report.Duplicates = duplicates(t)
	report.ColumnStats = columnStats(t)
	report.DataTypes = dataTypes(t)
	report.MissingValues = missingValues(t)

	outliers, outlierPcts := detectOutliers(t)
	report.Outliers = outliers

	missingPct := float64(report.EmptyCells.TotalEmptyCells) / float64(t.NumRows()*t.NumCols()) * 100
	duplicatePct := float64(report.Duplicates.TotalDuplicateRows) / float64(t.NumRows()) * 100

	report.Summary = buildSummary(t.NumRows(), t.NumCols(), missingPct, duplicatePct)
	report.QualityScore = score(missingPct, duplicatePct, outlierPcts, report.EmptyCells.TotalEmptyCols, t.NumCols())
	return report, nil
}

func basicStats(t tabular.Table) BasicStats {
	bs := BasicStats{
		Rows:        t.NumRows(),
		Columns:     t.NumCols(),
		ColumnNames: t.ColumnNames(),
	}
	if mt, err := tabular.Materialize(t); err == nil {
		bs.SizeBytes = mt.ApproxBytes()
	}
	return bs
}

// emptyCells scans column-major so the capped record list is deterministic.
func emptyCells(t tabular.Table) EmptyCellReport {
	rep := EmptyCellReport{
		EmptyCells:       []EmptyCell{},
		EmptyRowIndices:  []int{},
		EmptyColumnNames: []string{},
	}

	for ci := 0; ci < t.NumCols(); ci++ {
		col := t.Column(ci)
		for ri := 0; ri < t.NumRows(); ri++ {
			if !tabular.EmptyCell(col, ri) {
				continue
			}
			rep.TotalEmptyCells++
			if len(rep.EmptyCells) < maxEmptyCellRecords {
				rep.EmptyCells = append(rep.EmptyCells, EmptyCell{
					Cell:     tabular.CellAddress(ci, ri),
					Row:      ri,
					Column:   col.Name(),
					ColIndex: ci,
				})
			}
		}
	}

	for ri := 0; ri < t.NumRows(); ri++ {
		empty := true
		for ci := 0; ci < t.NumCols(); ci++ {
			if !tabular.EmptyCell(t.Column(ci), ri) {
				empty = false
				break
			}
		}
		if empty {
			rep.EmptyRowIndices = append(rep.EmptyRowIndices, ri)
		}
	}
	rep.TotalEmptyRows = len(rep.EmptyRowIndices)

	for ci := 0; ci < t.NumCols(); ci++ {
		col := t.Column(ci)
		empty := true
		for ri := 0; ri < t.NumRows(); ri++ {
			if !tabular.EmptyCell(col, ri) {
				empty = false
				break
			}
		}
		if empty {
			rep.EmptyColumnNames = append(rep.EmptyColumnNames, col.Name())
		}
	}
	rep.TotalEmptyCols = len(rep.EmptyColumnNames)

	return rep
}

func duplicates(t tabular.Table) DuplicateReport {
	rep := DuplicateReport{
		DuplicateRowIndices:  []int{},
		DuplicateValuesByCol: map[string]map[string]int{},
	}

	rows := t.NumRows()
	keyRows := make(map[string][]int, rows)
	for ri := 0; ri < rows; ri++ {
		key := tabular.RowKey(t, ri, nil)
		keyRows[key] = append(keyRows[key], ri)
	}

	rep.TotalDuplicateRows = rows - len(keyRows)

	// Keep-all semantics: every member of a duplicate group is listed,
	// in row order.
	memberOf := make(map[int]bool)
	for _, group := range keyRows {
		if len(group) > 1 {
			for _, ri := range group {
				memberOf[ri] = true
			}
		}
	}
	for ri := 0; ri < rows && len(rep.DuplicateRowIndices) < maxDuplicateIndices; ri++ {
		if memberOf[ri] {
			rep.DuplicateRowIndices = append(rep.DuplicateRowIndices, ri)
		}
	}

	for ci := 0; ci < t.NumCols(); ci++ {
		col := t.Column(ci)
		counts := make(map[string]int)
		for ri := 0; ri < rows; ri++ {
			if col.IsNull(ri) {
				continue
			}
			counts[tabular.CellString(col, ri)]++
		}
		repeated := make(map[string]int)
		for value, n := range counts {
			if n >= 2 {
				repeated[value] = n
			}
		}
		if len(repeated) > 0 {
			rep.DuplicateValuesByCol[col.Name()] = repeated
		}
	}

	return rep
}

func columnStats(t tabular.Table) []ColumnStats {
	out := make([]ColumnStats, 0, t.NumCols())
	for ci := 0; ci < t.NumCols(); ci++ {
		col := t.Column(ci)
		cs := ColumnStats{
			Name: col.Name(),
			Type: col.Kind().String(),
		}
		unique := make(map[string]struct{})
		for ri := 0; ri < col.Len(); ri++ {
			if col.IsNull(ri) {
				cs.Nulls++
				continue
			}
			cs.NonNull++
			unique[tabular.RowKey(t, ri, []int{ci})] = struct{}{}
		}
		cs.Unique = len(unique)

		if tabular.IsNumericColumn(col) {
			values, _ := tabular.Floats(col)
			if len(values) > 0 {
				if v, err := stats.Min(values); err == nil {
					cs.Min = &v
				}
				if v, err := stats.Max(values); err == nil {
					cs.Max = &v
				}
				if v, err := stats.Mean(values); err == nil {
					cs.Mean = &v
				}
				if v, err := stats.Median(values); err == nil {
					cs.Median = &v
				}
			}
			if len(values) >= 2 {
				if v, err := stats.StandardDeviationSample(values); err == nil {
					cs.Std = &v
				}
			}
		}
		out = append(out, cs)
	}
	return out
}

func dataTypes(t tabular.Table) map[string]string {
	types := make(map[string]string, t.NumCols())
	for ci := 0; ci < t.NumCols(); ci++ {
		col := t.Column(ci)
		types[col.Name()] = col.Kind().String()
	}
	return types
}

func missingValues(t tabular.Table) map[string]int {
	missing := make(map[string]int, t.NumCols())
	for ci := 0; ci < t.NumCols(); ci++ {
		col := t.Column(ci)
		n := 0
		for ri := 0; ri < col.Len(); ri++ {
			if tabular.EmptyCell(col, ri) {
				n++
			}
		}
		missing[col.Name()] = n
	}
	return missing
}

// detectOutliers applies the IQR fence to every numeric column. It returns
// the capped report records plus the per-column outlier percentage over all
// table rows, which feeds the quality score.
func detectOutliers(t tabular.Table) ([]ColumnOutliers, []float64) {
	records := []ColumnOutliers{}
	pcts := []float64{}

	for ci := 0; ci < t.NumCols(); ci++ {
		col := t.Column(ci)
		if !tabular.IsNumericColumn(col) {
			continue
		}
		values, _ := tabular.Floats(col)
		q, err := stats.Quartile(values)
		if err != nil {
			pcts = append(pcts, 0)
			continue
		}
		iqr := q.Q3 - q.Q1
		lower := q.Q1 - 1.5*iqr
		upper := q.Q3 + 1.5*iqr

		var outliers []float64
		for _, v := range values {
			if v < lower || v > upper {
				outliers = append(outliers, v)
			}
		}
		pcts = append(pcts, float64(len(outliers))/float64(t.NumRows())*100)

		if len(outliers) > 0 && len(records) < maxOutlierColumns {
			samples := outliers
			if len(samples) > maxOutlierSamples {
				samples = samples[:maxOutlierSamples]
			}
			records = append(records, ColumnOutliers{
				Column:       col.Name(),
				Count:        len(outliers),
				Bounds:       Bounds{Lower: lower, Upper: upper},
				SampleValues: samples,
			})
		}
	}
	return records, pcts
}
