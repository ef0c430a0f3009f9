package ingest

import "strings"

// missingTokens are the placeholder strings treated as absent values,
// matched after trimming surrounding whitespace.
var missingTokens = map[string]struct{}{
	"N/A":  {},
	"n/a":  {},
	"NA":   {},
	"na":   {},
	"null": {},
	"NULL": {},
	"None": {},
	"":     {},
}

// normalizeCell trims a raw cell and reports whether it denotes a
// missing value. Missing cells come back as the empty string.
func normalizeCell(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if _, missing := missingTokens[trimmed]; missing {
		return "", true
	}
	return trimmed, false
}
