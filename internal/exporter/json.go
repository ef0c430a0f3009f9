package exporter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"tabiq/internal/tabular"
)

// WriteJSON writes the table as an array of row objects. Keys follow
// column order, which a map-based encoder would not preserve.
func WriteJSON(w io.Writer, t tabular.Table) error {
	keys := make([][]byte, t.NumCols())
	for c, name := range t.ColumnNames() {
		key, err := json.Marshal(name)
		if err != nil {
			return fmt.Errorf("encoding column name %q: %w", name, err)
		}
		keys[c] = key
	}

	buf := bufio.NewWriter(w)
	buf.WriteByte('[')
	for r := 0; r < t.NumRows(); r++ {
		if r > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for c := 0; c < t.NumCols(); c++ {
			if c > 0 {
				buf.WriteByte(',')
			}
			value, err := json.Marshal(nativeValue(t.Column(c), r))
			if err != nil {
				return fmt.Errorf("encoding record %d: %w", r, err)
			}
			buf.Write(keys[c])
			buf.WriteByte(':')
			buf.Write(value)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Flush()
}
