package exporter

import (
	"fmt"
	"strconv"
	"time"

	"tabiq/internal/tabular"
)

// formatFloat renders a float with the fewest digits that still parse
// back to the same value.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatTime keeps pure dates compact and everything else RFC 3339.
func formatTime(ts time.Time) string {
	if ts.Hour() == 0 && ts.Minute() == 0 && ts.Second() == 0 && ts.Nanosecond() == 0 {
		return ts.Format("2006-01-02")
	}
	return ts.Format(time.RFC3339)
}

// cellText renders one cell as a string. Null cells come back as the
// given placeholder.
func cellText(col tabular.Column, row int, null string) string {
	if col.IsNull(row) {
		return null
	}
	switch col.Kind() {
	case tabular.KindNumeric:
		v, _ := col.Float(row)
		return formatFloat(v)
	case tabular.KindBool:
		v, _ := col.Bool(row)
		return formatBool(v)
	case tabular.KindTime:
		v, _ := col.Time(row)
		return formatTime(v)
	default:
		v, _ := col.Text(row)
		return v
	}
}

// nativeValue renders one cell as the value embedded in JSON output and
// previews. Timestamps become strings; everything else keeps its type.
func nativeValue(col tabular.Column, row int) any {
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
		return formatTime(v)
	case tabular.KindText:
		v, _ := col.Text(row)
		return v
	default:
		return fmt.Sprint(col.Value(row))
	}
}
