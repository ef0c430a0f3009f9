package tabular

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Layouts tried when inferring timestamp columns, most specific first.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// ParseCellFloat parses a numeric cell. Non-finite results are rejected so
// columns never hold NaN or infinities.
func ParseCellFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseCellBool parses a boolean cell. Only true/false literals count, so
// numeric 1/0 columns stay numeric.
func ParseCellBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// ParseCellTime parses a timestamp cell against the supported layouts.
func ParseCellTime(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// InferColumn builds a typed column from raw string cells. Kinds are tried
// in order: numeric, boolean, timestamp, with text as the fallback. A cell
// is null where missing[i] is true; a nil missing slice means every cell is
// present. Inference requires at least one present cell of the winning
// kind, so an all-null column stays text.
func InferColumn(name string, cells []string, missing []bool) Column {
	if missing == nil {
		missing = make([]bool, len(cells))
	}

	if col, ok := tryFloats(name, cells, missing); ok {
		return col
	}
	if col, ok := tryBools(name, cells, missing); ok {
		return col
	}
	if col, ok := tryTimes(name, cells, missing); ok {
		return col
	}
	return NewTextColumn(name, cells, missing)
}

func tryFloats(name string, cells []string, missing []bool) (Column, bool) {
	values := make([]float64, len(cells))
	nulls := make([]bool, len(cells))
	present := 0
	for i, s := range cells {
		if missing[i] {
			nulls[i] = true
			continue
		}
		f, ok := ParseCellFloat(s)
		if !ok {
			return nil, false
		}
		values[i] = f
		present++
	}
	if present == 0 {
		return nil, false
	}
	return NewFloatColumn(name, values, nulls), true
}

func tryBools(name string, cells []string, missing []bool) (Column, bool) {
	values := make([]bool, len(cells))
	nulls := make([]bool, len(cells))
	present := 0
	for i, s := range cells {
		if missing[i] {
			nulls[i] = true
			continue
		}
		b, ok := ParseCellBool(s)
		if !ok {
			return nil, false
		}
		values[i] = b
		present++
	}
	if present == 0 {
		return nil, false
	}
	return NewBoolColumn(name, values, nulls), true
}

func tryTimes(name string, cells []string, missing []bool) (Column, bool) {
	values := make([]time.Time, len(cells))
	nulls := make([]bool, len(cells))
	present := 0
	for i, s := range cells {
		if missing[i] {
			nulls[i] = true
			continue
		}
		t, ok := ParseCellTime(s)
		if !ok {
			return nil, false
		}
		values[i] = t
		present++
	}
	if present == 0 {
		return nil, false
	}
	return NewTimeColumn(name, values, nulls), true
}
