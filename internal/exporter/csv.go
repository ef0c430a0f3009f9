package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"tabiq/internal/tabular"
)

// utf8BOM helps Excel recognize UTF-8 encoded CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions configures delimited output.
type CSVOptions struct {
	// Delimiter defaults to a comma.
	Delimiter rune
	// BOM prefixes the output with a UTF-8 byte order mark.
	BOM bool
	// Null is the placeholder written for null cells.
	Null string
}

// WriteCSV writes the table as delimited text, header row first.
func WriteCSV(w io.Writer, t tabular.Table, opts CSVOptions) error {
	if opts.BOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("writing BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		writer.Comma = opts.Delimiter
	}

	if err := writer.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, t.NumCols())
	for r := 0; r < t.NumRows(); r++ {
		for c := 0; c < t.NumCols(); c++ {
			record[c] = cellText(t.Column(c), r, opts.Null)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing record %d: %w", r, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// StreamWriter writes CSV records incrementally to a file.
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter opens path for writing, emits a BOM and the header
// row, and returns a writer for appending records.
func CreateStreamWriter(path string, headers []string) (*StreamWriter, error) {
	slog.Debug("creating CSV stream writer",
		slog.String("path", path),
		slog.Int("columns", len(headers)))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}

	if _, err := file.Write(utf8BOM); err != nil {
		file.Close()
		return nil, fmt.Errorf("writing BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord appends a single record.
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes buffered records and closes the file.
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
