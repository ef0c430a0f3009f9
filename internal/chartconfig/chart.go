package chartconfig

import (
	"errors"
	"fmt"
	"strings"
)

// ChartType identifies a supported chart family.
type ChartType string

const (
	TypeBar     ChartType = "bar"
	TypeLine    ChartType = "line"
	TypePie     ChartType = "pie"
	TypeDonut   ChartType = "donut"
	TypeScatter ChartType = "scatter"
	TypeArea    ChartType = "area"
	TypeRadar   ChartType = "radar"
	TypeHeatmap ChartType = "heatmap"
	TypeBubble  ChartType = "bubble"
	TypeTreemap ChartType = "treemap"
)

var (
	// ErrUnsupportedChartType is returned for chart type names outside the
	// supported set.
	ErrUnsupportedChartType = errors.New("unsupported chart type")

	// ErrUnknownColumn is returned when an axis binding names a column the
	// table does not have.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNoSeries is returned when a chart family requires a value series
	// and the table offers none.
	ErrNoSeries = errors.New("no data series available")
)

// ParseChartType normalizes a chart type name, accepting the common
// aliases. An empty name defaults to a bar chart.
func ParseChartType(s string) (ChartType, error) {
	switch t := strings.ToLower(strings.TrimSpace(s)); t {
	case "":
		return TypeBar, nil
	case "doughnut", "donut":
		return TypeDonut, nil
	case "timeseries", "time":
		return TypeLine, nil
	case "bar", "line", "pie", "scatter", "area", "radar", "heatmap", "bubble", "treemap":
		return ChartType(t), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedChartType, s)
	}
}

// Color palette shared by all chart families: solid fills, 80% opacity
// borders, and 20% opacity area fills.
var (
	primaryColors = []string{
		"#00f3ff", "#bd00ff", "#ff00aa", "#00ff9d", "#ffaa00", "#ff6b6b",
	}
	secondaryColors = []string{
		"rgba(0, 243, 255, 0.8)", "rgba(189, 0, 255, 0.8)", "rgba(255, 0, 170, 0.8)",
		"rgba(0, 255, 157, 0.8)", "rgba(255, 170, 0, 0.8)", "rgba(255, 107, 107, 0.8)",
	}
	transparentColors = []string{
		"rgba(0, 243, 255, 0.2)", "rgba(189, 0, 255, 0.2)", "rgba(255, 0, 170, 0.2)",
		"rgba(0, 255, 157, 0.2)", "rgba(255, 170, 0, 0.2)", "rgba(255, 107, 107, 0.2)",
	}
)

const (
	textColor = "#ffffff"
	gridColor = "rgba(255, 255, 255, 0.1)"
)
