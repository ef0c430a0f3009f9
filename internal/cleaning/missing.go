package cleaning

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"

	"tabiq/internal/tabular"
)

// ErrUnknownStrategy is returned by HandleMissingValues for a strategy name
// it does not implement.
var ErrUnknownStrategy = errors.New("cleaning: unknown strategy")

// HandleMissingValues fills or removes missing cells according to strategy:
//
//   - mean, median: fill nulls in numeric columns with the column statistic
//     computed over the present values. Columns with no present values are
//     left alone.
//   - forward_fill: fill each missing cell with the nearest earlier present
//     value, then fill the still-missing leading cells backward. Applies to
//     every column.
//   - drop: remove rows containing any missing cell.
//   - drop_column: remove columns containing any missing cell.
//
// The fill strategies conserve the row count.
func HandleMissingValues(t tabular.Table, strategy string) (*tabular.MemTable, *ChangeReport, error) {
	mt, err := materialize(t)
	if err != nil {
		return nil, nil, err
	}
	report := newReport(OpHandleMissingValues, mt.NumRows(), mt.NumCols())
	report.Strategy = strategy

	switch strategy {
	case StrategyMean, StrategyMedian:
		return fillWithStatistic(mt, report, strategy)
	case StrategyForwardFill:
		return forwardFill(mt, report)
	case StrategyDrop:
		return dropMissingRows(mt, report)
	case StrategyDropColumn:
		return dropMissingColumns(mt, report)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

func fillWithStatistic(mt *tabular.MemTable, report *ChangeReport, strategy string) (*tabular.MemTable, *ChangeReport, error) {
	report.FilledColumns = make(map[string]MissingFill)

	cols := mt.Columns()
	for i, c := range cols {
		if !tabular.IsNumericColumn(c) {
			continue
		}
		present, _ := tabular.Floats(c)
		missing := c.Len() - len(present)
		if missing == 0 || len(present) == 0 {
			continue
		}

		var fill float64
		var err error
		if strategy == StrategyMean {
			fill, err = stats.Mean(present)
		} else {
			fill, err = stats.Median(present)
		}
		if err != nil {
			report.warnf("could not fill column %q: %v", c.Name(), err)
			continue
		}

		values := make([]float64, c.Len())
		for r := 0; r < c.Len(); r++ {
			if v, ok := c.Float(r); ok {
				values[r] = v
			} else {
				values[r] = fill
			}
		}
		cols[i] = tabular.NewFloatColumn(c.Name(), values, nil)
		report.FilledColumns[c.Name()] = MissingFill{Method: strategy, Filled: missing}
	}

	out, err := tabular.NewMemTable(cols...)
	if err != nil {
		return nil, nil, err
	}
	return out, report, nil
}

func forwardFill(mt *tabular.MemTable, report *ChangeReport) (*tabular.MemTable, *ChangeReport, error) {
	report.FilledColumns = make(map[string]MissingFill)

	cols := mt.Columns()
	for i, c := range cols {
		values := tabular.Values(c)
		filled := 0

		var last any
		for r := 0; r < c.Len(); r++ {
			if tabular.EmptyCell(c, r) {
				if last != nil {
					values[r] = last
					filled++
				} else {
					values[r] = nil
				}
				continue
			}
			last = values[r]
		}

		// Leading cells with nothing earlier to copy fill backward.
		var next any
		for r := c.Len() - 1; r >= 0; r-- {
			if values[r] != nil {
				next = values[r]
				continue
			}
			if next != nil {
				values[r] = next
				filled++
			}
		}

		if filled == 0 {
			continue
		}
		nc, err := tabular.ColumnFromValues(c.Name(), c.Kind(), values)
		if err != nil {
			return nil, nil, err
		}
		cols[i] = nc
		report.FilledColumns[c.Name()] = MissingFill{Method: StrategyForwardFill, Filled: filled}
	}

	out, err := tabular.NewMemTable(cols...)
	if err != nil {
		return nil, nil, err
	}
	return out, report, nil
}

func dropMissingRows(mt *tabular.MemTable, report *ChangeReport) (*tabular.MemTable, *ChangeReport, error) {
	kept := make([]int, 0, mt.NumRows())
	for r := 0; r < mt.NumRows(); r++ {
		complete := true
		for i := 0; i < mt.NumCols(); i++ {
			if tabular.EmptyCell(mt.Column(i), r) {
				complete = false
				break
			}
		}
		if complete {
			kept = append(kept, r)
		}
	}

	out := mt.Select(kept)
	report.RowsAfter = out.NumRows()
	report.DroppedRows = report.RowsBefore - report.RowsAfter
	return out, report, nil
}

func dropMissingColumns(mt *tabular.MemTable, report *ChangeReport) (*tabular.MemTable, *ChangeReport, error) {
	var kept []tabular.Column
	for _, c := range mt.Columns() {
		complete := true
		for r := 0; r < c.Len(); r++ {
			if tabular.EmptyCell(c, r) {
				complete = false
				break
			}
		}
		if complete {
			kept = append(kept, c)
		}
	}

	out, err := tabular.NewMemTable(kept...)
	if err != nil {
		return nil, nil, err
	}
	report.ColumnsAfter = out.NumCols()
	report.DroppedColumns = report.ColumnsBefore - report.ColumnsAfter
	if out.NumCols() == 0 {
		report.RowsAfter = 0
	}
	return out, report, nil
}
