package tabular

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferColumn(t *testing.T) {
	tests := []struct {
		name    string
		cells   []string
		missing []bool
		want    Kind
	}{
		{name: "integers", cells: []string{"1", "2", "30"}, want: KindNumeric},
		{name: "floats with gaps", cells: []string{"1.5", "", "2e3"}, missing: []bool{false, true, false}, want: KindNumeric},
		{name: "ones and zeros stay numeric", cells: []string{"1", "0", "1"}, want: KindNumeric},
		{name: "booleans", cells: []string{"true", "FALSE", "True"}, want: KindBool},
		{name: "dates", cells: []string{"2024-01-15", "2024-02-01"}, want: KindTime},
		{name: "rfc3339", cells: []string{"2024-01-15T10:00:00Z"}, want: KindTime},
		{name: "plain text", cells: []string{"alpha", "beta"}, want: KindText},
		{name: "mixed falls back to text", cells: []string{"1", "beta"}, want: KindText},
		{name: "all missing stays text", cells: []string{"", ""}, missing: []bool{true, true}, want: KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := InferColumn("c", tt.cells, tt.missing)
			assert.Equal(t, tt.want, col.Kind())
			assert.Equal(t, len(tt.cells), col.Len())
		})
	}
}

func TestParseCellFloatRejectsNonFinite(t *testing.T) {
	_, ok := ParseCellFloat("NaN")
	assert.False(t, ok)
	_, ok = ParseCellFloat("+Inf")
	assert.False(t, ok)

	f, ok := ParseCellFloat(" 42.5 ")
	require.True(t, ok)
	assert.Equal(t, 42.5, f)
}

func TestParseCellTime(t *testing.T) {
	got, ok := ParseCellTime("2024-03-01")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)

	_, ok = ParseCellTime("not a date")
	assert.False(t, ok)
}

func TestSafeFloat(t *testing.T) {
	assert.Equal(t, 1.5, SafeFloat(1.5))
	assert.Nil(t, SafeFloat(math.NaN()))
	assert.Nil(t, SafeFloat(math.Inf(-1)))
}

func TestSafeValue(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-01T12:30:00Z", SafeValue(ts))
	assert.Nil(t, SafeValue(nil))
	assert.Nil(t, SafeValue(math.NaN()))
	assert.Equal(t, "plain", SafeValue("plain"))
	assert.Equal(t, true, SafeValue(true))
}
