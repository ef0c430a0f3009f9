package tabular

import (
	"fmt"
	"math"
	"time"
)

// SafeFloat returns f boxed, or nil when f is NaN or infinite. JSON has no
// representation for non-finite floats.
func SafeFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

// SafeValue maps a cell value to a JSON-encodable native value. Non-finite
// floats become nil and timestamps become RFC 3339 strings; values of other
// types are formatted as strings.
func SafeValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return SafeFloat(x)
	case float32:
		return SafeFloat(float64(x))
	case int:
		return x
	case int64:
		return x
	case bool:
		return x
	case string:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	default:
		if f, ok := toFloat(v); ok {
			return SafeFloat(f)
		}
		return fmt.Sprint(v)
	}
}

// CellString renders a cell for use as an axis label. Nulls render as the
// empty string.
func CellString(c Column, row int) string {
	v := SafeValue(c.Value(row))
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
