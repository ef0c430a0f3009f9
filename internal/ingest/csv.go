package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"tabiq/internal/tabular"
)

// DecodeCSV reads a comma-delimited table. The first record is the
// header; ragged records are tolerated.
func DecodeCSV(r io.Reader) (*tabular.MemTable, error) {
	return decodeDelimited(r, ',')
}

// DecodeTSV reads a tab-delimited table.
func DecodeTSV(r io.Reader) (*tabular.MemTable, error) {
	return decodeDelimited(r, '\t')
}

func decodeDelimited(r io.Reader, comma rune) (*tabular.MemTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading delimited row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}

	return tableFromCells(rows)
}
