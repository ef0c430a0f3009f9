package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"tabiq/internal/tabular"
)

// WriteExcel writes the table to a single-sheet xlsx workbook.
// Timestamps are written as native date cells.
func WriteExcel(w io.Writer, t tabular.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]any, t.NumCols())
	for c, name := range t.ColumnNames() {
		header[c] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := make([]any, t.NumCols())
	for r := 0; r < t.NumRows(); r++ {
		for c := 0; c < t.NumCols(); c++ {
			row[c] = excelValue(t.Column(c), r)
		}
		cell := fmt.Sprintf("A%d", r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing record %d: %w", r, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// excelValue keeps native types so the workbook gets real numeric and
// date cells instead of text.
func excelValue(col tabular.Column, row int) any {
	if col.IsNull(row) {
		return nil
	}
	switch col.Kind() {
	case tabular.KindNumeric:
		v, _ := col.Float(row)
		return v
	case tabular.KindBool:
		v, _ := col.Bool(row)
		return v
	case tabular.KindTime:
		v, _ := col.Time(row)
		return v
	default:
		v, _ := col.Text(row)
		return v
	}
}
