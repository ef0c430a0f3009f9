package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tabiq/internal/tabular"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 1200.5, want: "1200.5"},
		{in: 900, want: "900"},
		{in: 0.1, want: "0.1"},
		{in: -3.25, want: "-3.25"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFloat(tt.in))
	}
}

func TestFormatTime(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01", formatTime(date))

	stamp := time.Date(2024, 3, 1, 9, 15, 30, 0, time.UTC)
	assert.Equal(t, "2024-03-01T09:15:30Z", formatTime(stamp))
}

func TestCellTextNullPlaceholder(t *testing.T) {
	col := tabular.NewFloatColumn("v", []float64{0}, []bool{true})
	assert.Equal(t, "", cellText(col, 0, ""))
	assert.Equal(t, "N/A", cellText(col, 0, "N/A"))
}
