package cleaning

import (
	"fmt"
	"math"
	"time"

	"tabiq/internal/tabular"
)

// ConvertTypes converts the named columns to the requested target types.
// Targets accept the kind names and their aliases (int, integer, float,
// number, str, string, bool, datetime, timestamp). Conversion is
// all-or-nothing per column: a cell that cannot be converted leaves the
// whole column unchanged and records a warning. Unknown columns and
// unknown targets also warn.
func ConvertTypes(t tabular.Table, targets map[string]string) (*tabular.MemTable, *ChangeReport, error) {
	mt, err := materialize(t)
	if err != nil {
		return nil, nil, err
	}
	report := newReport(OpConvertTypes, mt.NumRows(), mt.NumCols())
	report.Conversions = make(map[string]Conversion, len(targets))

	cols := mt.Columns()
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c.Name()] = i
	}

	for _, name := range sortedKeys(targets) {
		target := targets[name]
		i, ok := index[name]
		if !ok {
			report.warnf("column %q not found", name)
			continue
		}

		kind, integer, err := parseTarget(target)
		if err != nil {
			report.warnf("could not convert %q to %q: %v", name, target, err)
			continue
		}

		converted, err := convertColumn(cols[i], kind, integer)
		if err != nil {
			report.warnf("could not convert %q to %q: %v", name, target, err)
			continue
		}
		report.Conversions[name] = Conversion{
			From: cols[i].Kind().String(),
			To:   target,
		}
		cols[i] = converted
	}

	out, err := tabular.NewMemTable(cols...)
	if err != nil {
		return nil, nil, err
	}
	return out, report, nil
}

// parseTarget resolves a conversion target name. Integer targets map to the
// numeric kind with truncation toward zero.
func parseTarget(target string) (kind tabular.Kind, integer bool, err error) {
	switch target {
	case "int", "integer":
		return tabular.KindNumeric, true, nil
	}
	kind, err = tabular.ParseKind(target)
	return kind, false, err
}

func convertColumn(c tabular.Column, kind tabular.Kind, integer bool) (tabular.Column, error) {
	switch kind {
	case tabular.KindNumeric:
		return convertToNumeric(c, integer)
	case tabular.KindText:
		return widenToText(c), nil
	case tabular.KindBool:
		return convertToBool(c)
	case tabular.KindTime:
		return convertToTime(c)
	default:
		return nil, fmt.Errorf("invalid kind %v", kind)
	}
}

func convertToNumeric(c tabular.Column, integer bool) (tabular.Column, error) {
	values := make([]float64, c.Len())
	nulls := make([]bool, c.Len())
	for r := 0; r < c.Len(); r++ {
		if c.IsNull(r) {
			if integer {
				return nil, fmt.Errorf("row %d is missing, integers cannot hold missing values", r)
			}
			nulls[r] = true
			continue
		}
		var f float64
		switch c.Kind() {
		case tabular.KindNumeric:
			f, _ = c.Float(r)
		case tabular.KindText:
			s, _ := c.Text(r)
			parsed, ok := tabular.ParseCellFloat(s)
			if !ok {
				return nil, fmt.Errorf("row %d: %q is not numeric", r, s)
			}
			f = parsed
		case tabular.KindBool:
			if b, _ := c.Bool(r); b {
				f = 1
			}
		default:
			return nil, fmt.Errorf("%s columns cannot convert to numeric", c.Kind())
		}
		if integer {
			f = math.Trunc(f)
		}
		values[r] = f
	}
	return tabular.NewFloatColumn(c.Name(), values, nulls), nil
}

func convertToBool(c tabular.Column) (tabular.Column, error) {
	values := make([]bool, c.Len())
	nulls := make([]bool, c.Len())
	for r := 0; r < c.Len(); r++ {
		if c.IsNull(r) {
			nulls[r] = true
			continue
		}
		switch c.Kind() {
		case tabular.KindBool:
			values[r], _ = c.Bool(r)
		case tabular.KindNumeric:
			f, _ := c.Float(r)
			values[r] = f != 0
		case tabular.KindText:
			s, _ := c.Text(r)
			b, ok := tabular.ParseCellBool(s)
			if !ok {
				return nil, fmt.Errorf("row %d: %q is not boolean", r, s)
			}
			values[r] = b
		default:
			return nil, fmt.Errorf("%s columns cannot convert to boolean", c.Kind())
		}
	}
	return tabular.NewBoolColumn(c.Name(), values, nulls), nil
}

func convertToTime(c tabular.Column) (tabular.Column, error) {
	values := make([]time.Time, c.Len())
	nulls := make([]bool, c.Len())
	for r := 0; r < c.Len(); r++ {
		if c.IsNull(r) {
			nulls[r] = true
			continue
		}
		switch c.Kind() {
		case tabular.KindTime:
			values[r], _ = c.Time(r)
		case tabular.KindText:
			s, _ := c.Text(r)
			ts, ok := tabular.ParseCellTime(s)
			if !ok {
				return nil, fmt.Errorf("row %d: %q is not a timestamp", r, s)
			}
			values[r] = ts
		default:
			return nil, fmt.Errorf("%s columns cannot convert to timestamp", c.Kind())
		}
	}
	return tabular.NewTimeColumn(c.Name(), values, nulls), nil
}
