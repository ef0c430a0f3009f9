package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"tabiq/internal/tabular"
)

// DecodeExcel reads the first sheet holding data from an xlsx workbook.
// Sheets are scanned in workbook order; empty sheets are skipped.
func DecodeExcel(r io.Reader) (*tabular.MemTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
		}
		if !sheetHasData(rows) {
			continue
		}

		t, err := tableFromCells(rows)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		return t, nil
	}

	return nil, ErrNoData
}

func sheetHasData(rows [][]string) bool {
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return true
			}
		}
	}
	return false
}
