package tabular

import (
	"fmt"
	"strings"
)

// Diagnostics reference cells in spreadsheet convention. Row 1 is the
// header, so the data row at positional index 0 is displayed as row 2.
const headerRowOffset = 2

// ColumnLetters converts a zero-based column index to spreadsheet letters:
// 0 -> A, 25 -> Z, 26 -> AA.
func ColumnLetters(index int) string {
	var b []byte
	for index >= 0 {
		b = append([]byte{byte('A' + index%26)}, b...)
		index = index/26 - 1
	}
	return string(b)
}

// CellAddress builds the spreadsheet address of the cell at the given
// zero-based column and row indices.
func CellAddress(colIndex, rowIndex int) string {
	return fmt.Sprintf("%s%d", ColumnLetters(colIndex), rowIndex+headerRowOffset)
}

// ParseAddress parses an address like "B4" into the zero-based column and
// row indices used by Table. It is the inverse of CellAddress.
func ParseAddress(addr string) (colIndex, rowIndex int, err error) {
	s := strings.ToUpper(strings.TrimSpace(addr))
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	letters, digits := s[:i], s[i:]
	if letters == "" || digits == "" {
		return 0, 0, fmt.Errorf("malformed cell address %q", addr)
	}
	col := 0
	for _, ch := range letters {
		col = col*26 + int(ch-'A') + 1
	}
	col--

	row := 0
	for _, ch := range digits {
		if ch < '0' || ch > '9' {
			return 0, 0, fmt.Errorf("malformed cell address %q", addr)
		}
		row = row*10 + int(ch-'0')
	}
	if row < headerRowOffset {
		return 0, 0, fmt.Errorf("cell address %q row is inside the header", addr)
	}
	return col, row - headerRowOffset, nil
}
