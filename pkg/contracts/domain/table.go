// Package domain defines the wire representation of tabular data shared
// between the HTTP API, the CLI, and browser clients.
package domain

import (
	"fmt"
	"time"

	"tabiq/internal/tabular"
)

// Column describes one column of a wire table. Kind is optional; when it
// is empty the cell type is inferred from the data.
type Column struct {
	Name string `json:"name" validate:"required"`
	Kind string `json:"kind,omitempty"`
}

// Table is the row-major JSON table format accepted and produced by the
// API. Cells are JSON scalars; null marks a missing value.
type Table struct {
	Name    string   `json:"name,omitempty"`
	Columns []Column `json:"columns" validate:"required,min=1,dive"`
	Rows    [][]any  `json:"rows"`
}

// ToTabular converts the wire table into a typed in-memory table.
// Columns with a declared kind are coerced strictly; columns without one
// go through type inference the same way CSV ingestion does.
func (t *Table) ToTabular() (*tabular.MemTable, error) {
	width := len(t.Columns)
	if width == 0 {
		return nil, fmt.Errorf("table has no columns")
	}

	cells := make([][]any, width)
	for i := range cells {
		cells[i] = make([]any, len(t.Rows))
	}
	for r, row := range t.Rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d cells, want %d", r, len(row), width)
		}
		for c, v := range row {
			cells[c][r] = v
		}
	}

	cols := make([]tabular.Column, width)
	for i, spec := range t.Columns {
		col, err := buildColumn(spec, cells[i])
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return tabular.NewMemTable(cols...)
}

func buildColumn(spec Column, values []any) (tabular.Column, error) {
	if spec.Kind == "" {
		return inferColumn(spec.Name, values), nil
	}

	kind, err := tabular.ParseKind(spec.Kind)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", spec.Name, err)
	}
	if kind == tabular.KindTime {
		converted, err := parseTimeCells(spec.Name, values)
		if err != nil {
			return nil, err
		}
		values = converted
	}
	return tabular.ColumnFromValues(spec.Name, kind, values)
}

// JSON numbers arrive as float64 and timestamps as strings, so timestamp
// columns need a parse pass before the typed constructor sees them.
func parseTimeCells(name string, values []any) ([]any, error) {
	out := make([]any, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		switch cell := v.(type) {
		case time.Time:
			out[i] = cell
		case string:
			parsed, ok := tabular.ParseCellTime(cell)
			if !ok {
				return nil, fmt.Errorf("column %s: cell %d: cannot parse %q as timestamp", name, i, cell)
			}
			out[i] = parsed
		default:
			return nil, fmt.Errorf("column %s: cell %d: cannot store %T as timestamp", name, i, v)
		}
	}
	return out, nil
}

func inferColumn(name string, values []any) tabular.Column {
	cells := make([]string, len(values))
	missing := make([]bool, len(values))
	for i, v := range values {
		switch cell := v.(type) {
		case nil:
			missing[i] = true
		case string:
			cells[i] = cell
		default:
			cells[i] = fmt.Sprint(cell)
		}
	}
	return tabular.InferColumn(name, cells, missing)
}

// FromTabular renders a typed table back into the wire format. Column
// kinds are always populated so round trips stay typed.
func FromTabular(name string, src tabular.Table) *Table {
	cols := make([]Column, src.NumCols())
	for i := range cols {
		c := src.Column(i)
		cols[i] = Column{Name: c.Name(), Kind: c.Kind().String()}
	}

	rows := make([][]any, src.NumRows())
	for r := range rows {
		row := make([]any, src.NumCols())
		for c := 0; c < src.NumCols(); c++ {
			row[c] = src.Column(c).Value(r)
		}
		rows[r] = row
	}

	return &Table{Name: name, Columns: cols, Rows: rows}
}
