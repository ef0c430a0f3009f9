package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"tabiq/internal/tabular"
)

// Format identifies a supported source file format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatTSV   Format = "tsv"
	FormatJSON  Format = "json"
	FormatExcel Format = "excel"
)

var (
	// ErrUnknownFormat is returned for file extensions no decoder handles.
	ErrUnknownFormat = errors.New("unknown file format")

	// ErrNoData is returned when a source holds no rows at all.
	ErrNoData = errors.New("no data found")
)

// DetectFormat maps a filename to its decode format by extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx", ".xlsm":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(filename))
	}
}

// Decode reads a table from r in the given format.
func Decode(r io.Reader, format Format) (*tabular.MemTable, error) {
	switch format {
	case FormatCSV:
		return DecodeCSV(r)
	case FormatTSV:
		return DecodeTSV(r)
	case FormatJSON:
		return DecodeJSON(r)
	case FormatExcel:
		return DecodeExcel(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// DecodeFile detects the format from the file name and decodes it.
func DecodeFile(path string) (*tabular.MemTable, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// tableFromCells assembles a table from raw string rows. The first row
// is the header; data cells pass through missing-token normalization
// before type inference. Short rows are padded with nulls and cells
// beyond the header width are dropped.
func tableFromCells(rows [][]string) (*tabular.MemTable, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	names := headerNames(rows[0])
	data := rows[1:]

	cols := make([]tabular.Column, len(names))
	for c, name := range names {
		cells := make([]string, len(data))
		missing := make([]bool, len(data))
		for r, row := range data {
			if c >= len(row) {
				missing[r] = true
				continue
			}
			cells[r], missing[r] = normalizeCell(row[c])
		}
		cols[c] = tabular.InferColumn(name, cells, missing)
	}

	return tabular.NewMemTable(cols...)
}

// headerNames trims header cells, fills unnamed columns, and suffixes
// duplicates so the table constructor accepts them.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		base := name
		for n := 2; seen[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		seen[name] = true
		names[i] = name
	}
	return names
}
