package chartconfig

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"tabiq/internal/tabular"
)

// maxDefaultSeries caps how many numeric columns the radial and matrix
// families pull in when no bindings are given.
const maxDefaultSeries = 5

// maxPieCategories is the distinct-value ceiling above which a categorical
// column stops suggesting a pie chart.
const maxPieCategories = 10

// Generator builds chart configurations for one table. A nil table is
// allowed; every family then renders its no-data placeholder.
type Generator struct {
	table       tabular.Table
	numeric     []string
	categorical []string
}

// NewGenerator inspects the table's columns once, splitting them into the
// numeric and categorical pools the default axis selection draws from.
func NewGenerator(t tabular.Table) *Generator {
	g := &Generator{table: t}
	if t == nil {
		return g
	}
	for i := 0; i < t.NumCols(); i++ {
		col := t.Column(i)
		switch col.Kind() {
		case tabular.KindNumeric:
			g.numeric = append(g.numeric, col.Name())
		case tabular.KindText:
			g.categorical = append(g.categorical, col.Name())
		}
	}
	return g
}

// Generate builds the configuration for one chart. x and ys bind columns to
// the axes; when either is empty both are chosen from the table. Area
// charts render as filled lines, heatmaps and treemaps as bars.
func (g *Generator) Generate(chartType ChartType, x string, ys []string, title string) (*Config, error) {
	switch chartType {
	case TypeBar, TypeTreemap:
		return g.barConfig(x, ys, title)
	case TypeLine, TypeArea:
		return g.lineConfig(x, ys, title)
	case TypePie:
		return g.pieConfig(x, ys, title, false)
	case TypeDonut:
		return g.pieConfig(x, ys, title, true)
	case TypeScatter:
		return g.scatterConfig(x, ys, title)
	case TypeRadar:
		return g.radarConfig(x, ys, title)
	case TypeHeatmap:
		if g.table == nil {
			return g.emptyBar(orDefault(title, "Heatmap")), nil
		}
		return g.barConfig(x, ys, title)
	case TypeBubble:
		return g.bubbleConfig(x, ys, title)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedChartType, string(chartType))
	}
}

// SuggestChartType picks a chart family from the column mix: bar for mostly
// categorical tables, line for multiple numeric columns, pie for a single
// low-cardinality categorical column, bar otherwise.
func (g *Generator) SuggestChartType() ChartType {
	if len(g.categorical) > len(g.numeric) {
		return TypeBar
	}
	if len(g.numeric) >= 2 {
		return TypeLine
	}
	if len(g.categorical) > 0 {
		if col, ok := g.table.ColumnByName(g.categorical[0]); ok && distinctValues(col) <= maxPieCategories {
			return TypePie
		}
	}
	return TypeBar
}

// RecommendedConfig generates a configuration for the suggested chart type
// with default axis bindings.
func (g *Generator) RecommendedConfig(title string) (*Config, error) {
	return g.Generate(g.SuggestChartType(), "", nil, orDefault(title, "Auto-Generated Chart"))
}

// bestColumns chooses default axis bindings for a chart family. The
// cartesian and circular families prefer a categorical label column with a
// numeric series; the radial and matrix families take the first numeric
// columns.
func (g *Generator) bestColumns(family ChartType) (string, []string) {
	switch family {
	case TypePie, TypeDonut:
		if len(g.categorical) > 0 && len(g.numeric) > 0 {
			return g.categorical[0], g.numeric[:1]
		}
	case TypeBar, TypeLine, TypeArea, TypeScatter:
		if len(g.categorical) > 0 && len(g.numeric) > 0 {
			return g.categorical[0], g.numeric[:1]
		}
		if len(g.numeric) >= 2 {
			return g.numeric[0], g.numeric[1:]
		}
	case TypeHeatmap, TypeBubble, TypeRadar:
		if len(g.numeric) > maxDefaultSeries {
			return "", g.numeric[:maxDefaultSeries]
		}
		return "", g.numeric
	}
	if len(g.numeric) > 0 {
		return "", g.numeric[:1]
	}
	return "", nil
}

func (g *Generator) barConfig(x string, ys []string, title string) (*Config, error) {
	if x == "" || len(ys) == 0 {
		x, ys = g.bestColumns(TypeBar)
	}
	if g.table == nil {
		return g.emptyBar(orDefault(title, "Bar Chart")), nil
	}

	labels, err := g.labels(x)
	if err != nil {
		return nil, err
	}
	datasets := make([]Dataset, 0, len(ys))
	for idx, y := range ys {
		data, err := g.series(y)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, Dataset{
			Label:           y,
			Data:            data,
			BackgroundColor: primaryColors[idx%len(primaryColors)],
			BorderColor:     secondaryColors[idx%len(secondaryColors)],
			BorderWidth:     2,
			BorderRadius:    4,
		})
	}

	return &Config{
		Type:    "bar",
		Data:    Data{Labels: labels, Datasets: datasets},
		Options: chartOptions(orDefault(title, "Bar Chart - "+strings.Join(ys, ", ")), cartesianScales()),
	}, nil
}

func (g *Generator) lineConfig(x string, ys []string, title string) (*Config, error) {
	if x == "" || len(ys) == 0 {
		x, ys = g.bestColumns(TypeLine)
	}
	if g.table == nil {
		return g.emptyLine(orDefault(title, "Line Chart")), nil
	}

	labels, err := g.labels(x)
	if err != nil {
		return nil, err
	}
	datasets := make([]Dataset, 0, len(ys))
	for idx, y := range ys {
		data, err := g.series(y)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, Dataset{
			Label:                y,
			Data:                 data,
			BorderColor:          primaryColors[idx%len(primaryColors)],
			BackgroundColor:      transparentColors[idx%len(transparentColors)],
			BorderWidth:          2,
			Fill:                 true,
			Tension:              0.4,
			PointRadius:          4,
			PointBackgroundColor: primaryColors[idx%len(primaryColors)],
			PointBorderColor:     textColor,
			PointBorderWidth:     2,
		})
	}

	return &Config{
		Type:    "line",
		Data:    Data{Labels: labels, Datasets: datasets},
		Options: chartOptions(orDefault(title, "Line Chart - "+strings.Join(ys, ", ")), cartesianScales()),
	}, nil
}

func (g *Generator) pieConfig(x string, ys []string, title string, donut bool) (*Config, error) {
	renderType, family := "pie", "Pie Chart"
	if donut {
		renderType, family = "doughnut", "Donut Chart"
	}
	if x == "" || len(ys) == 0 {
		x, ys = g.bestColumns(TypePie)
	}
	if g.table == nil {
		return g.emptyPie(orDefault(title, family)), nil
	}
	if len(ys) == 0 {
		return nil, fmt.Errorf("%w: %s needs a value column", ErrNoSeries, renderType)
	}

	var labels []string
	if x != "" {
		var err error
		if labels, err = g.labels(x); err != nil {
			return nil, err
		}
	} else {
		labels = make([]string, g.table.NumRows())
		for i := range labels {
			labels[i] = "Slice " + strconv.Itoa(i)
		}
	}
	data, err := g.series(ys[0])
	if err != nil {
		return nil, err
	}

	return &Config{
		Type: renderType,
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Label:           ys[0],
				Data:            data,
				BackgroundColor: primaryColors,
				BorderColor:     textColor,
				BorderWidth:     2,
			}},
		},
		Options: Options{
			Responsive:          true,
			MaintainAspectRatio: false,
			Plugins:             Plugins{Title: titlePlugin(orDefault(title, family+" - "+ys[0])), Legend: legendPlugin()},
		},
	}, nil
}

func (g *Generator) scatterConfig(x string, ys []string, title string) (*Config, error) {
	if x == "" || len(ys) == 0 {
		x, ys = g.bestColumns(TypeScatter)
	}
	if g.table == nil {
		return g.emptyScatter(orDefault(title, "Scatter Chart")), nil
	}

	var xcol tabular.Column
	if x != "" {
		var ok bool
		if xcol, ok = g.table.ColumnByName(x); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, x)
		}
	}
	datasets := make([]Dataset, 0, len(ys))
	for idx, y := range ys {
		ycol, ok := g.table.ColumnByName(y)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, y)
		}
		points := make([]any, g.table.NumRows())
		for r := range points {
			var px any = r
			if xcol != nil {
				px = tabular.SafeValue(xcol.Value(r))
			}
			points[r] = Point{X: px, Y: tabular.SafeValue(ycol.Value(r))}
		}
		datasets = append(datasets, Dataset{
			Label:           y,
			Data:            points,
			BackgroundColor: secondaryColors[idx%len(secondaryColors)],
			BorderColor:     primaryColors[idx%len(primaryColors)],
			BorderWidth:     2,
			PointRadius:     6,
		})
	}

	def := "Scatter Chart - " + strings.Join(ys, ", ")
	if x != "" {
		def = fmt.Sprintf("Scatter Chart - %s vs %s", x, strings.Join(ys, ", "))
	}
	return &Config{
		Type:    "scatter",
		Data:    Data{Datasets: datasets},
		Options: chartOptions(orDefault(title, def), cartesianScales()),
	}, nil
}

func (g *Generator) radarConfig(x string, ys []string, title string) (*Config, error) {
	if x == "" || len(ys) == 0 {
		x, ys = g.bestColumns(TypeRadar)
	}
	if g.table == nil {
		return g.emptyRadar(orDefault(title, "Radar Chart")), nil
	}

	labels, err := g.labels(x)
	if err != nil {
		return nil, err
	}
	datasets := make([]Dataset, 0, len(ys))
	for idx, y := range ys {
		data, err := g.series(y)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, Dataset{
			Label:                y,
			Data:                 data,
			BorderColor:          primaryColors[idx%len(primaryColors)],
			BackgroundColor:      transparentColors[idx%len(transparentColors)],
			BorderWidth:          2,
			PointRadius:          4,
			PointBackgroundColor: primaryColors[idx%len(primaryColors)],
		})
	}

	return &Config{
		Type:    "radar",
		Data:    Data{Labels: labels, Datasets: datasets},
		Options: chartOptions(orDefault(title, "Radar Chart - "+strings.Join(ys, ", ")), radialScales()),
	}, nil
}

func (g *Generator) bubbleConfig(x string, ys []string, title string) (*Config, error) {
	// Bubbles need three numeric columns: x, y, and the marker size.
	if g.table == nil || len(g.numeric) < 3 {
		return g.emptyScatter(orDefault(title, "Bubble Chart")), nil
	}
	if x == "" {
		x = g.numeric[0]
	}
	y := g.numeric[1]
	if len(ys) > 0 {
		y = ys[0]
	}
	size := g.numeric[2]

	xcol, ok := g.table.ColumnByName(x)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, x)
	}
	ycol, ok := g.table.ColumnByName(y)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, y)
	}
	rcol, _ := g.table.ColumnByName(size)

	points := make([]any, g.table.NumRows())
	for r := range points {
		// Missing and zero sizes fall back to a unit radius.
		rv := 1.0
		if f, ok := rcol.Float(r); ok && f != 0 {
			rv = math.Abs(f)
		}
		scaled := rv / 10
		points[r] = Point{
			X: tabular.SafeValue(xcol.Value(r)),
			Y: tabular.SafeValue(ycol.Value(r)),
			R: &scaled,
		}
	}

	return &Config{
		Type: "bubble",
		Data: Data{
			Datasets: []Dataset{{
				Label:           fmt.Sprintf("%s vs %s", y, x),
				Data:            points,
				BackgroundColor: secondaryColors[0],
				BorderColor:     primaryColors[0],
				BorderWidth:     2,
			}},
		},
		Options: chartOptions(orDefault(title, fmt.Sprintf("Bubble Chart - %s vs %s (size: %s)", x, y, size)), cartesianScales()),
	}, nil
}

// labels renders the label column as strings, or the row indices when no
// column is bound.
func (g *Generator) labels(x string) ([]string, error) {
	out := make([]string, g.table.NumRows())
	if x == "" {
		for i := range out {
			out[i] = strconv.Itoa(i)
		}
		return out, nil
	}
	col, ok := g.table.ColumnByName(x)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, x)
	}
	for i := range out {
		out[i] = tabular.CellString(col, i)
	}
	return out, nil
}

// series returns a column's cells as JSON-safe values, nulls included.
func (g *Generator) series(name string) ([]any, error) {
	col, ok := g.table.ColumnByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	out := make([]any, g.table.NumRows())
	for i := range out {
		out[i] = tabular.SafeValue(col.Value(i))
	}
	return out, nil
}

func distinctValues(c tabular.Column) int {
	seen := make(map[string]struct{})
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		if s, ok := c.Text(i); ok {
			seen[s] = struct{}{}
		}
	}
	return len(seen)
}

func orDefault(title, fallback string) string {
	if title == "" {
		return fallback
	}
	return title
}

func (g *Generator) emptyBar(title string) *Config {
	return &Config{
		Type: "bar",
		Data: Data{
			Labels: []string{"No Data", "Available"},
			Datasets: []Dataset{{
				Label:           "Sample Data",
				Data:            []any{0, 0},
				BackgroundColor: primaryColors,
			}},
		},
		Options: placeholderOptions(title),
	}
}

func (g *Generator) emptyLine(title string) *Config {
	return &Config{
		Type: "line",
		Data: Data{
			Labels: []string{"No Data", "Available"},
			Datasets: []Dataset{{
				Label:           "Sample Data",
				Data:            []any{0, 0},
				BorderColor:     primaryColors[0],
				BackgroundColor: transparentColors[0],
			}},
		},
		Options: placeholderOptions(title),
	}
}

func (g *Generator) emptyPie(title string) *Config {
	return &Config{
		Type: "pie",
		Data: Data{
			Labels: []string{"No Data"},
			Datasets: []Dataset{{
				Label:           "Sample Data",
				Data:            []any{100},
				BackgroundColor: []string{primaryColors[0]},
			}},
		},
		Options: placeholderOptions(title),
	}
}

func (g *Generator) emptyScatter(title string) *Config {
	return &Config{
		Type: "scatter",
		Data: Data{
			Datasets: []Dataset{{
				Label:           "Sample Data",
				Data:            []any{Point{X: 0, Y: 0}},
				BackgroundColor: secondaryColors[0],
			}},
		},
		Options: placeholderOptions(title),
	}
}

func (g *Generator) emptyRadar(title string) *Config {
	return &Config{
		Type: "radar",
		Data: Data{
			Labels: []string{"No Data"},
			Datasets: []Dataset{{
				Label:           "Sample Data",
				Data:            []any{0},
				BackgroundColor: transparentColors[0],
				BorderColor:     primaryColors[0],
			}},
		},
		Options: placeholderOptions(title),
	}
}
