package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"tabiq/internal/tabular"
)

// DecodeJSON reads a table from JSON. Two shapes are accepted: an array
// of row objects, or an object mapping column names to value arrays.
// Document key order determines column order.
func DecodeJSON(r io.Reader) (*tabular.MemTable, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("reading json: %w", err)
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, fmt.Errorf("json document must be an array or object, got %v", tok)
	}

	switch delim {
	case '[':
		return decodeRecords(dec)
	case '{':
		return decodeColumnMap(dec)
	default:
		return nil, fmt.Errorf("json document must be an array or object, got %q", delim.String())
	}
}

// decodeRecords consumes an array of row objects. Columns appear in
// first-seen key order; keys absent from a row become nulls.
func decodeRecords(dec *json.Decoder) (*tabular.MemTable, error) {
	b := newColumnBuilder()

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading json record %d: %w", b.rows+1, err)
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '{' {
			return nil, fmt.Errorf("json record %d must be an object, got %v", b.rows+1, tok)
		}

		b.startRow()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("reading json record %d: %w", b.rows+1, err)
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("json record %d has a non-string key %v", b.rows+1, keyTok)
			}

			var value any
			if err := dec.Decode(&value); err != nil {
				return nil, fmt.Errorf("reading json value %q in record %d: %w", key, b.rows+1, err)
			}
			b.set(key, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("reading json record %d: %w", b.rows+1, err)
		}
		b.endRow()
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading json array end: %w", err)
	}

	return b.table()
}

// decodeColumnMap consumes an object of column arrays. All arrays must
// have the same length.
func decodeColumnMap(dec *json.Decoder) (*tabular.MemTable, error) {
	var names []string
	var columns [][]any

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading json column name: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("json column name must be a string, got %v", keyTok)
		}

		var values []any
		if err := dec.Decode(&values); err != nil {
			return nil, fmt.Errorf("json column %q must be an array: %w", key, err)
		}
		names = append(names, key)
		columns = append(columns, values)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading json object end: %w", err)
	}

	if len(names) == 0 {
		return nil, ErrNoData
	}

	rows := len(columns[0])
	for i, col := range columns {
		if len(col) != rows {
			return nil, fmt.Errorf("json column %q has %d values, want %d", names[i], len(col), rows)
		}
	}

	unique := headerNames(names)
	cols := make([]tabular.Column, len(unique))
	for i, name := range unique {
		cells := make([]string, rows)
		miss := make([]bool, rows)
		for r, v := range columns[i] {
			cells[r], miss[r] = cellValue(v)
		}
		cols[i] = tabular.InferColumn(name, cells, miss)
	}
	return tabular.NewMemTable(cols...)
}

// cellValue renders a decoded JSON value as a raw cell. Strings pass
// through missing-token normalization; nested arrays and objects are
// kept as their compact JSON text.
func cellValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return normalizeCell(v)
	case json.Number:
		return v.String(), false
	case bool:
		return strconv.FormatBool(v), false
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v), false
		}
		return string(raw), false
	}
}

// columnBuilder accumulates row-object records column-wise.
type columnBuilder struct {
	names []string
	index map[string]int
	cells [][]string
	miss  [][]bool
	rows  int
	inRow bool
}

func newColumnBuilder() *columnBuilder {
	return &columnBuilder{index: make(map[string]int)}
}

func (b *columnBuilder) startRow() {
	b.inRow = true
	for i := range b.cells {
		b.cells[i] = append(b.cells[i], "")
		b.miss[i] = append(b.miss[i], true)
	}
}

func (b *columnBuilder) set(name string, value any) {
	i, ok := b.index[name]
	if !ok {
		i = len(b.names)
		b.index[name] = i
		b.names = append(b.names, name)

		cells := make([]string, b.rows, b.rows+1)
		miss := make([]bool, b.rows, b.rows+1)
		for r := range miss {
			miss[r] = true
		}
		if b.inRow {
			cells = append(cells, "")
			miss = append(miss, true)
		}
		b.cells = append(b.cells, cells)
		b.miss = append(b.miss, miss)
	}

	cell, missing := cellValue(value)
	last := len(b.cells[i]) - 1
	b.cells[i][last] = cell
	b.miss[i][last] = missing
}

func (b *columnBuilder) endRow() {
	b.inRow = false
	b.rows++
}

func (b *columnBuilder) table() (*tabular.MemTable, error) {
	if len(b.names) == 0 {
		return nil, ErrNoData
	}

	names := headerNames(b.names)
	cols := make([]tabular.Column, len(names))
	for i, name := range names {
		cols[i] = tabular.InferColumn(name, b.cells[i], b.miss[i])
	}
	return tabular.NewMemTable(cols...)
}
