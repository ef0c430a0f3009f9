package tabular

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Table is the capability interface consumed by the analysis and cleaning
// packages. Implementations must keep columns aligned: every column has
// NumRows cells.
type Table interface {
	NumRows() int
	NumCols() int
	ColumnNames() []string
	Column(i int) Column
	ColumnByName(name string) (Column, bool)
	Row(i int) []any
}

// MemTable is the columnar in-memory Table implementation. It is immutable
// after construction; cleaning operations return fresh tables.
type MemTable struct {
	cols  []Column
	index map[string]int
	rows  int
}

// NewMemTable assembles a table from columns. Column names must be unique
// and all columns must have the same length. A table with zero columns is
// valid and has zero rows.
func NewMemTable(cols ...Column) (*MemTable, error) {
	t := &MemTable{
		cols:  make([]Column, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	copy(t.cols, cols)
	for i, c := range t.cols {
		if _, dup := t.index[c.Name()]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.Name())
		}
		t.index[c.Name()] = i
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name(), c.Len(), t.rows)
		}
	}
	return t, nil
}

// FromRows assembles a MemTable from row-oriented data. Each row must have
// one cell per column; nil cells are nulls.
func FromRows(names []string, kinds []Kind, rows [][]any) (*MemTable, error) {
	if len(names) != len(kinds) {
		return nil, fmt.Errorf("got %d names for %d kinds", len(names), len(kinds))
	}
	cells := make([][]any, len(names))
	for i := range cells {
		cells[i] = make([]any, len(rows))
	}
	for r, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", r, len(row), len(names))
		}
		for c, v := range row {
			cells[c][r] = v
		}
	}
	cols := make([]Column, len(names))
	for i, name := range names {
		col, err := ColumnFromValues(name, kinds[i], cells[i])
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return NewMemTable(cols...)
}

func (t *MemTable) NumRows() int { return t.rows }
func (t *MemTable) NumCols() int { return len(t.cols) }

func (t *MemTable) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name()
	}
	return names
}

func (t *MemTable) Column(i int) Column { return t.cols[i] }

func (t *MemTable) ColumnByName(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Row returns the boxed cells of row i in column order.
func (t *MemTable) Row(i int) []any {
	row := make([]any, len(t.cols))
	for c, col := range t.cols {
		row[c] = col.Value(i)
	}
	return row
}

// Columns returns a copy of the column slice.
func (t *MemTable) Columns() []Column {
	cols := make([]Column, len(t.cols))
	copy(cols, t.cols)
	return cols
}

// Select returns a new table containing the given rows, in order. Row
// indices may repeat.
func (t *MemTable) Select(rows []int) *MemTable {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = gather(c, rows)
	}
	nt, _ := NewMemTable(cols...)
	return nt
}

// Head returns the first n rows, or the whole table when it has fewer.
func (t *MemTable) Head(n int) *MemTable {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return t.Select(rows)
}

// ApproxBytes estimates the memory footprint of the table. Fixed-width
// kinds are costed per cell plus a null flag; text adds string length to a
// per-cell overhead.
func (t *MemTable) ApproxBytes() int64 {
	var total int64
	for _, c := range t.cols {
		switch c.Kind() {
		case KindNumeric:
			total += int64(c.Len()) * 9
		case KindBool:
			total += int64(c.Len()) * 2
		case KindTime:
			total += int64(c.Len()) * 25
		case KindText:
			for i := 0; i < c.Len(); i++ {
				total += 17
				if s, ok := c.Text(i); ok {
					total += int64(len(s))
				}
			}
		}
	}
	return total
}

func gather(c Column, rows []int) Column {
	switch col := c.(type) {
	case *FloatColumn:
		values := make([]float64, len(rows))
		nulls := make([]bool, len(rows))
		for i, r := range rows {
			values[i] = col.values[r]
			nulls[i] = col.nulls[r]
		}
		return NewFloatColumn(col.name, values, nulls)
	case *TextColumn:
		values := make([]string, len(rows))
		nulls := make([]bool, len(rows))
		for i, r := range rows {
			values[i] = col.values[r]
			nulls[i] = col.nulls[r]
		}
		return NewTextColumn(col.name, values, nulls)
	case *BoolColumn:
		values := make([]bool, len(rows))
		nulls := make([]bool, len(rows))
		for i, r := range rows {
			values[i] = col.values[r]
			nulls[i] = col.nulls[r]
		}
		return NewBoolColumn(col.name, values, nulls)
	case *TimeColumn:
		values := make([]time.Time, len(rows))
		nulls := make([]bool, len(rows))
		for i, r := range rows {
			values[i] = col.values[r]
			nulls[i] = col.nulls[r]
		}
		return NewTimeColumn(col.name, values, nulls)
	default:
		values := make([]any, len(rows))
		for i, r := range rows {
			values[i] = c.Value(r)
		}
		nc, err := ColumnFromValues(c.Name(), c.Kind(), values)
		if err != nil {
			// Foreign Column implementations that misreport their kind
			// degrade to text rather than failing the whole gather.
			out := make([]string, len(values))
			nulls := make([]bool, len(values))
			for i, v := range values {
				if v == nil {
					nulls[i] = true
					continue
				}
				out[i] = fmt.Sprint(v)
			}
			return NewTextColumn(c.Name(), out, nulls)
		}
		return nc
	}
}

// Materialize returns t as a *MemTable, rebuilding column storage when t is
// a foreign Table implementation.
func Materialize(t Table) (*MemTable, error) {
	if mt, ok := t.(*MemTable); ok {
		return mt, nil
	}
	cols := make([]Column, t.NumCols())
	for i := range cols {
		c := t.Column(i)
		nc, err := ColumnFromValues(c.Name(), c.Kind(), Values(c))
		if err != nil {
			return nil, fmt.Errorf("materialize: %w", err)
		}
		cols[i] = nc
	}
	return NewMemTable(cols...)
}

// Equal reports whether two tables have the same shape, column names, kinds,
// and cell values.
func Equal(a, b Table) bool {
	if a.NumRows() != b.NumRows() || a.NumCols() != b.NumCols() {
		return false
	}
	for i := 0; i < a.NumCols(); i++ {
		ca, cb := a.Column(i), b.Column(i)
		if ca.Name() != cb.Name() || ca.Kind() != cb.Kind() {
			return false
		}
		for r := 0; r < ca.Len(); r++ {
			if ca.IsNull(r) != cb.IsNull(r) {
				return false
			}
			if ca.IsNull(r) {
				continue
			}
			switch ca.Kind() {
			case KindTime:
				va, _ := ca.Time(r)
				vb, _ := cb.Time(r)
				if !va.Equal(vb) {
					return false
				}
			default:
				if ca.Value(r) != cb.Value(r) {
					return false
				}
			}
		}
	}
	return true
}

// RowKey builds a deterministic key for a row over the given column
// indices, used for duplicate detection. A nil cols slice keys the full
// row. Distinct cell boundaries are preserved, so ("ab","c") and ("a","bc")
// produce different keys.
func RowKey(t Table, row int, cols []int) string {
	if cols == nil {
		cols = make([]int, t.NumCols())
		for i := range cols {
			cols[i] = i
		}
	}
	var b strings.Builder
	for _, ci := range cols {
		c := t.Column(ci)
		if c.IsNull(row) {
			b.WriteString("\x00;")
			continue
		}
		switch c.Kind() {
		case KindNumeric:
			f, _ := c.Float(row)
			b.WriteByte('n')
			b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		case KindText:
			s, _ := c.Text(row)
			b.WriteByte('s')
			b.WriteString(strconv.Quote(s))
		case KindBool:
			v, _ := c.Bool(row)
			b.WriteByte('b')
			b.WriteString(strconv.FormatBool(v))
		case KindTime:
			v, _ := c.Time(row)
			b.WriteByte('t')
			b.WriteString(v.UTC().Format(time.RFC3339Nano))
		}
		b.WriteByte(';')
	}
	return b.String()
}
