package cleaning

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"tabiq/internal/tabular"
)

var (
	// ErrNilTable is returned when an operation receives a nil table.
	ErrNilTable = errors.New("cleaning: nil table")

	// ErrUnknownColumn is returned when a duplicate subset names a column
	// the table does not have.
	ErrUnknownColumn = errors.New("cleaning: unknown column")
)

// RemoveDuplicates drops duplicate rows, keeping the first occurrence of
// each. A non-empty subset restricts the comparison to the named columns;
// a nil subset compares whole rows. Naming a column the table does not
// have is an error.
func RemoveDuplicates(t tabular.Table, subset []string) (*tabular.MemTable, *ChangeReport, error) {
	mt, err := materialize(t)
	if err != nil {
		return nil, nil, err
	}
	report := newReport(OpRemoveDuplicates, mt.NumRows(), mt.NumCols())

	var cols []int
	if len(subset) > 0 {
		cols = make([]int, 0, len(subset))
		names := mt.ColumnNames()
		for _, want := range subset {
			found := -1
			for i, name := range names {
				if name == want {
					found = i
					break
				}
			}
			if found < 0 {
				return nil, nil, fmt.Errorf("%w: %q", ErrUnknownColumn, want)
			}
			cols = append(cols, found)
		}
	}

	seen := make(map[string]struct{}, mt.NumRows())
	kept := make([]int, 0, mt.NumRows())
	for i := 0; i < mt.NumRows(); i++ {
		key := tabular.RowKey(mt, i, cols)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, i)
	}

	out := mt.Select(kept)
	report.RowsAfter = out.NumRows()
	report.DuplicatesRemoved = report.RowsBefore - report.RowsAfter
	return out, report, nil
}

// FillEmptyCells replaces every empty cell in the named columns with the
// given value. A cell is empty when it is null or, for text, trims to the
// empty string. Unknown columns are skipped with a warning. A fill value
// that cannot be represented in the column's kind widens the column to
// text first.
func FillEmptyCells(t tabular.Table, fills map[string]any) (*tabular.MemTable, *ChangeReport, error) {
	mt, err := materialize(t)
	if err != nil {
		return nil, nil, err
	}
	report := newReport(OpFillEmptyCells, mt.NumRows(), mt.NumCols())
	report.ColumnFills = make(map[string]ColumnFill, len(fills))

	cols := mt.Columns()
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c.Name()] = i
	}

	for _, name := range sortedKeys(fills) {
		i, ok := index[name]
		if !ok {
			report.warnf("column %q not found", name)
			continue
		}
		filled, count := fillColumn(cols[i], fills[name])
		cols[i] = filled
		report.ColumnFills[name] = ColumnFill{
			Value:       fmt.Sprint(fills[name]),
			CellsFilled: count,
		}
		report.TotalCellsFilled += count
	}

	out, err := tabular.NewMemTable(cols...)
	if err != nil {
		return nil, nil, err
	}
	return out, report, nil
}

// FillEmptyCellsByAddress sets individual cells named by spreadsheet-style
// addresses ("B4" is column B, data row 2). Malformed and out-of-range
// addresses are skipped with a warning.
func FillEmptyCellsByAddress(t tabular.Table, cells map[string]any) (*tabular.MemTable, *ChangeReport, error) {
	mt, err := materialize(t)
	if err != nil {
		return nil, nil, err
	}
	report := newReport(OpFillEmptyCellsByAddress, mt.NumRows(), mt.NumCols())

	cols := mt.Columns()
	for _, addr := range sortedKeys(cells) {
		value := cells[addr]
		ci, ri, err := tabular.ParseAddress(addr)
		if err != nil {
			report.warnf("could not fill cell %s: %v", addr, err)
			continue
		}
		if ci >= len(cols) || ri >= mt.NumRows() {
			report.warnf("could not fill cell %s: outside the table", addr)
			continue
		}
		cols[ci] = setCell(cols[ci], ri, value)
		report.CellChanges = append(report.CellChanges, CellChange{
			Cell:   addr,
			Column: cols[ci].Name(),
			Row:    ri,
			Value:  fmt.Sprint(value),
		})
		report.TotalCellsFilled++
	}

	out, err := tabular.NewMemTable(cols...)
	if err != nil {
		return nil, nil, err
	}
	return out, report, nil
}

// RemoveWhitespace trims leading and trailing whitespace from every text
// cell and reports the columns that changed.
func RemoveWhitespace(t tabular.Table) (*tabular.MemTable, *ChangeReport, error) {
	mt, err := materialize(t)
	if err != nil {
		return nil, nil, err
	}
	report := newReport(OpRemoveWhitespace, mt.NumRows(), mt.NumCols())

	cols := mt.Columns()
	for i, c := range cols {
		if !tabular.IsTextColumn(c) {
			continue
		}
		values := make([]string, c.Len())
		nulls := make([]bool, c.Len())
		changed := false
		for r := 0; r < c.Len(); r++ {
			s, ok := c.Text(r)
			if !ok {
				nulls[r] = true
				continue
			}
			trimmed := strings.TrimSpace(s)
			if trimmed != s {
				changed = true
			}
			values[r] = trimmed
		}
		if changed {
			cols[i] = tabular.NewTextColumn(c.Name(), values, nulls)
			report.ColumnsTrimmed = append(report.ColumnsTrimmed, c.Name())
		}
	}

	out, err := tabular.NewMemTable(cols...)
	if err != nil {
		return nil, nil, err
	}
	return out, report, nil
}

// NormalizeColumnNames lowercases column names, replaces spaces and hyphens
// with underscores, and strips leading and trailing underscores. Names that
// would collide after normalization get a numeric suffix. The operation is
// idempotent.
func NormalizeColumnNames(t tabular.Table) (*tabular.MemTable, *ChangeReport, error) {
	mt, err := materialize(t)
	if err != nil {
		return nil, nil, err
	}
	report := newReport(OpNormalizeColumnNames, mt.NumRows(), mt.NumCols())
	report.ColumnsRenamed = make(map[string]string)

	cols := mt.Columns()
	taken := make(map[string]struct{}, len(cols))
	for i, c := range cols {
		name := normalizeName(c.Name())
		if _, clash := taken[name]; clash {
			base := name
			for n := 2; ; n++ {
				name = fmt.Sprintf("%s_%d", base, n)
				if _, clash := taken[name]; !clash {
					break
				}
			}
		}
		taken[name] = struct{}{}
		if name != c.Name() {
			report.ColumnsRenamed[c.Name()] = name
			cols[i] = renameColumn(c, name)
		}
	}

	out, err := tabular.NewMemTable(cols...)
	if err != nil {
		return nil, nil, err
	}
	return out, report, nil
}

func normalizeName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return strings.Trim(s, "_")
}

func renameColumn(c tabular.Column, name string) tabular.Column {
	nc, err := tabular.ColumnFromValues(name, c.Kind(), tabular.Values(c))
	if err != nil {
		// Values came from a well-typed column, so this cannot happen.
		panic(err)
	}
	return nc
}

func materialize(t tabular.Table) (*tabular.MemTable, error) {
	if t == nil {
		return nil, ErrNilTable
	}
	return tabular.Materialize(t)
}

// fillColumn replaces empty cells of c with value and returns the new
// column and the number of cells set. When the value cannot be coerced to
// the column's kind the whole column is widened to text.
func fillColumn(c tabular.Column, value any) (tabular.Column, int) {
	coerced, ok := coerce(value, c.Kind())
	if !ok {
		c = widenToText(c)
		coerced = fmt.Sprint(value)
	}

	values := tabular.Values(c)
	count := 0
	for r := range values {
		if tabular.EmptyCell(c, r) {
			values[r] = coerced
			count++
		}
	}
	nc, err := tabular.ColumnFromValues(c.Name(), c.Kind(), values)
	if err != nil {
		panic(err)
	}
	return nc, count
}

// setCell writes one cell, widening the column to text when the value does
// not fit its kind.
func setCell(c tabular.Column, row int, value any) tabular.Column {
	coerced, ok := coerce(value, c.Kind())
	if !ok {
		c = widenToText(c)
		coerced = fmt.Sprint(value)
	}
	values := tabular.Values(c)
	values[row] = coerced
	nc, err := tabular.ColumnFromValues(c.Name(), c.Kind(), values)
	if err != nil {
		panic(err)
	}
	return nc
}

// coerce converts a request value to something storable in a column of the
// given kind. JSON decoding hands numbers over as float64 and everything
// else as string or bool.
func coerce(v any, kind tabular.Kind) (any, bool) {
	switch kind {
	case tabular.KindNumeric:
		switch x := v.(type) {
		case float64, float32, int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64:
			return x, true
		case string:
			if f, ok := tabular.ParseCellFloat(x); ok {
				return f, true
			}
		case bool:
			if x {
				return float64(1), true
			}
			return float64(0), true
		}
	case tabular.KindText:
		if s, ok := v.(string); ok {
			return s, true
		}
		return fmt.Sprint(v), true
	case tabular.KindBool:
		switch x := v.(type) {
		case bool:
			return x, true
		case string:
			if b, ok := tabular.ParseCellBool(x); ok {
				return b, true
			}
		}
	case tabular.KindTime:
		switch x := v.(type) {
		case time.Time:
			return x, true
		case string:
			if ts, ok := tabular.ParseCellTime(x); ok {
				return ts, true
			}
		}
	}
	return nil, false
}

// widenToText rebuilds c as a text column, rendering present cells with the
// same formatting the JSON sanitizer uses.
func widenToText(c tabular.Column) tabular.Column {
	values := make([]string, c.Len())
	nulls := make([]bool, c.Len())
	for r := 0; r < c.Len(); r++ {
		v := tabular.SafeValue(c.Value(r))
		if v == nil {
			nulls[r] = true
			continue
		}
		if s, ok := v.(string); ok {
			values[r] = s
		} else {
			values[r] = fmt.Sprint(v)
		}
	}
	return tabular.NewTextColumn(c.Name(), values, nulls)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
