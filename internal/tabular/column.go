package tabular

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Column is a single named, typed, nullable column of a Table.
//
// The typed accessors return the zero value and false when the cell is null
// or the column holds a different kind. Value boxes the cell as a native Go
// value, with nil marking a null.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(row int) bool
	Value(row int) any
	Float(row int) (float64, bool)
	Text(row int) (string, bool)
	Bool(row int) (bool, bool)
	Time(row int) (time.Time, bool)
}

// IsNumericColumn reports whether c holds numeric values.
func IsNumericColumn(c Column) bool { return c.Kind() == KindNumeric }

// IsTextColumn reports whether c holds text values.
func IsTextColumn(c Column) bool { return c.Kind() == KindText }

// EmptyCell reports whether the cell at row is missing. A cell is missing
// when it is null or, for text columns, when the value trims to the empty
// string.
func EmptyCell(c Column, row int) bool {
	if c.IsNull(row) {
		return true
	}
	if c.Kind() == KindText {
		s, _ := c.Text(row)
		return strings.TrimSpace(s) == ""
	}
	return false
}

// Floats returns the non-null values of a numeric column together with the
// row index each value came from.
func Floats(c Column) ([]float64, []int) {
	values := make([]float64, 0, c.Len())
	rows := make([]int, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if v, ok := c.Float(i); ok {
			values = append(values, v)
			rows = append(rows, i)
		}
	}
	return values, rows
}

func normalizeNulls(n int, nulls []bool) []bool {
	out := make([]bool, n)
	copy(out, nulls)
	return out
}

// FloatColumn is a numeric column backed by a float64 slice.
type FloatColumn struct {
	name   string
	values []float64
	nulls  []bool
}

// NewFloatColumn builds a numeric column. A nil nulls slice means every cell
// is present. Non-finite values are stored as nulls.
func NewFloatColumn(name string, values []float64, nulls []bool) *FloatColumn {
	c := &FloatColumn{
		name:   name,
		values: make([]float64, len(values)),
		nulls:  normalizeNulls(len(values), nulls),
	}
	copy(c.values, values)
	for i, v := range c.values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			c.values[i] = 0
			c.nulls[i] = true
		}
	}
	return c
}

func (c *FloatColumn) Name() string        { return c.name }
func (c *FloatColumn) Kind() Kind          { return KindNumeric }
func (c *FloatColumn) Len() int            { return len(c.values) }
func (c *FloatColumn) IsNull(row int) bool { return c.nulls[row] }

func (c *FloatColumn) Value(row int) any {
	if c.nulls[row] {
		return nil
	}
	return c.values[row]
}

func (c *FloatColumn) Float(row int) (float64, bool) {
	if c.nulls[row] {
		return 0, false
	}
	return c.values[row], true
}

func (c *FloatColumn) Text(row int) (string, bool)    { return "", false }
func (c *FloatColumn) Bool(row int) (bool, bool)      { return false, false }
func (c *FloatColumn) Time(row int) (time.Time, bool) { return time.Time{}, false }

// TextColumn is a text column backed by a string slice.
type TextColumn struct {
	name   string
	values []string
	nulls  []bool
}

// NewTextColumn builds a text column. A nil nulls slice means every cell is
// present.
func NewTextColumn(name string, values []string, nulls []bool) *TextColumn {
	c := &TextColumn{
		name:   name,
		values: make([]string, len(values)),
		nulls:  normalizeNulls(len(values), nulls),
	}
	copy(c.values, values)
	return c
}

func (c *TextColumn) Name() string        { return c.name }
func (c *TextColumn) Kind() Kind          { return KindText }
func (c *TextColumn) Len() int            { return len(c.values) }
func (c *TextColumn) IsNull(row int) bool { return c.nulls[row] }

func (c *TextColumn) Value(row int) any {
	if c.nulls[row] {
		return nil
	}
	return c.values[row]
}

func (c *TextColumn) Float(row int) (float64, bool) { return 0, false }

func (c *TextColumn) Text(row int) (string, bool) {
	if c.nulls[row] {
		return "", false
	}
	return c.values[row], true
}

func (c *TextColumn) Bool(row int) (bool, bool)      { return false, false }
func (c *TextColumn) Time(row int) (time.Time, bool) { return time.Time{}, false }

// BoolColumn is a boolean column.
type BoolColumn struct {
	name   string
	values []bool
	nulls  []bool
}

// NewBoolColumn builds a boolean column. A nil nulls slice means every cell
// is present.
func NewBoolColumn(name string, values []bool, nulls []bool) *BoolColumn {
	c := &BoolColumn{
		name:   name,
		values: make([]bool, len(values)),
		nulls:  normalizeNulls(len(values), nulls),
	}
	copy(c.values, values)
	return c
}

func (c *BoolColumn) Name() string        { return c.name }
func (c *BoolColumn) Kind() Kind          { return KindBool }
func (c *BoolColumn) Len() int            { return len(c.values) }
func (c *BoolColumn) IsNull(row int) bool { return c.nulls[row] }

func (c *BoolColumn) Value(row int) any {
	if c.nulls[row] {
		return nil
	}
	return c.values[row]
}

func (c *BoolColumn) Float(row int) (float64, bool) { return 0, false }
func (c *BoolColumn) Text(row int) (string, bool)   { return "", false }

func (c *BoolColumn) Bool(row int) (bool, bool) {
	if c.nulls[row] {
		return false, false
	}
	return c.values[row], true
}

func (c *BoolColumn) Time(row int) (time.Time, bool) { return time.Time{}, false }

// TimeColumn is a timestamp column.
type TimeColumn struct {
	name   string
	values []time.Time
	nulls  []bool
}

// NewTimeColumn builds a timestamp column. A nil nulls slice means every
// cell is present.
func NewTimeColumn(name string, values []time.Time, nulls []bool) *TimeColumn {
	c := &TimeColumn{
		name:   name,
		values: make([]time.Time, len(values)),
		nulls:  normalizeNulls(len(values), nulls),
	}
	copy(c.values, values)
	return c
}

func (c *TimeColumn) Name() string        { return c.name }
func (c *TimeColumn) Kind() Kind          { return KindTime }
func (c *TimeColumn) Len() int            { return len(c.values) }
func (c *TimeColumn) IsNull(row int) bool { return c.nulls[row] }

func (c *TimeColumn) Value(row int) any {
	if c.nulls[row] {
		return nil
	}
	return c.values[row]
}

func (c *TimeColumn) Float(row int) (float64, bool) { return 0, false }
func (c *TimeColumn) Text(row int) (string, bool)   { return "", false }
func (c *TimeColumn) Bool(row int) (bool, bool)     { return false, false }

func (c *TimeColumn) Time(row int) (time.Time, bool) {
	if c.nulls[row] {
		return time.Time{}, false
	}
	return c.values[row], true
}

// ColumnFromValues builds a typed column from boxed cell values. A nil value
// marks a null cell. Values must match the requested kind; numeric cells
// accept any Go integer or float type.
func ColumnFromValues(name string, kind Kind, values []any) (Column, error) {
	n := len(values)
	nulls := make([]bool, n)
	switch kind {
	case KindNumeric:
		out := make([]float64, n)
		for i, v := range values {
			if v == nil {
				nulls[i] = true
				continue
			}
			f, ok := toFloat(v)
			if !ok {
				return nil, fmt.Errorf("column %s: cell %d: cannot store %T as numeric", name, i, v)
			}
			out[i] = f
		}
		return NewFloatColumn(name, out, nulls), nil
	case KindText:
		out := make([]string, n)
		for i, v := range values {
			if v == nil {
				nulls[i] = true
				continue
			}
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("column %s: cell %d: cannot store %T as text", name, i, v)
			}
			out[i] = s
		}
		return NewTextColumn(name, out, nulls), nil
	case KindBool:
		out := make([]bool, n)
		for i, v := range values {
			if v == nil {
				nulls[i] = true
				continue
			}
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("column %s: cell %d: cannot store %T as boolean", name, i, v)
			}
			out[i] = b
		}
		return NewBoolColumn(name, out, nulls), nil
	case KindTime:
		out := make([]time.Time, n)
		for i, v := range values {
			if v == nil {
				nulls[i] = true
				continue
			}
			t, ok := v.(time.Time)
			if !ok {
				return nil, fmt.Errorf("column %s: cell %d: cannot store %T as timestamp", name, i, v)
			}
			out[i] = t
		}
		return NewTimeColumn(name, out, nulls), nil
	default:
		return nil, fmt.Errorf("column %s: invalid kind %v", name, kind)
	}
}

// Values returns every cell of c boxed as a native Go value, nil for nulls.
func Values(c Column) []any {
	out := make([]any, c.Len())
	for i := range out {
		out[i] = c.Value(i)
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
