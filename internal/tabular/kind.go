package tabular

import "fmt"

// Kind identifies the value type of a column.
type Kind uint8

const (
	KindNumeric Kind = iota
	KindText
	KindBool
	KindTime
)

// String returns the canonical type name used in reports.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindBool:
		return "boolean"
	case KindTime:
		return "timestamp"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// IsValid reports whether k is one of the defined kinds.
func (k Kind) IsValid() bool {
	return k <= KindTime
}

// ParseKind maps a type name to its Kind. It accepts the canonical names
// plus the short aliases used in cleaning requests.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "numeric", "float", "number":
		return KindNumeric, nil
	case "text", "string", "str":
		return KindText, nil
	case "boolean", "bool":
		return KindBool, nil
	case "timestamp", "datetime", "time":
		return KindTime, nil
	default:
		return 0, fmt.Errorf("unknown column kind %q", s)
	}
}
