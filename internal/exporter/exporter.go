package exporter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tabiq/internal/tabular"
)

// ErrUnsupportedFormat is returned for file extensions no encoder handles.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ExportFile writes the table to path, choosing the encoder from the
// file extension (.csv, .tsv, .json, .xlsx).
func ExportFile(path string, t tabular.Table) error {
	slog.Debug("exporting table",
		slog.String("path", path),
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumCols()))

	var write func(f *os.File) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		write = func(f *os.File) error { return WriteCSV(f, t, CSVOptions{BOM: true}) }
	case ".tsv":
		write = func(f *os.File) error { return WriteCSV(f, t, CSVOptions{Delimiter: '\t', BOM: true}) }
	case ".json":
		write = func(f *os.File) error { return WriteJSON(f, t) }
	case ".xlsx":
		write = func(f *os.File) error { return WriteExcel(f, t) }
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("exporting %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// Preview is a bounded row sample served alongside upload and clean
// responses so clients can render the table without a second request.
type Preview struct {
	Columns   []string `json:"columns"`
	Types     []string `json:"types"`
	Rows      [][]any  `json:"rows"`
	TotalRows int      `json:"total_rows"`
}

// TablePreview extracts the first n rows of the table.
func TablePreview(t tabular.Table, n int) *Preview {
	p := &Preview{
		Columns:   t.ColumnNames(),
		Types:     make([]string, t.NumCols()),
		Rows:      [][]any{},
		TotalRows: t.NumRows(),
	}
	for c := 0; c < t.NumCols(); c++ {
		p.Types[c] = t.Column(c).Kind().String()
	}

	mt, err := tabular.Materialize(t)
	if err != nil {
		return p
	}

	head := mt.Head(n)
	for r := 0; r < head.NumRows(); r++ {
		row := make([]any, head.NumCols())
		for c := 0; c < head.NumCols(); c++ {
			row[c] = nativeValue(head.Column(c), r)
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}
