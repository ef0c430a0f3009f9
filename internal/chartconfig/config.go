package chartconfig

// Config is a renderer-ready Chart.js configuration.
type Config struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

// Data holds the axis labels and value series of a chart.
type Data struct {
	Labels   []string  `json:"labels,omitempty"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one value series. BackgroundColor is either a single color or
// a palette slice, depending on the chart family.
type Dataset struct {
	Label                string  `json:"label"`
	Data                 []any   `json:"data"`
	BackgroundColor      any     `json:"backgroundColor,omitempty"`
	BorderColor          string  `json:"borderColor,omitempty"`
	BorderWidth          int     `json:"borderWidth,omitempty"`
	BorderRadius         int     `json:"borderRadius,omitempty"`
	Fill                 bool    `json:"fill,omitempty"`
	Tension              float64 `json:"tension,omitempty"`
	PointRadius          int     `json:"pointRadius,omitempty"`
	PointBackgroundColor string  `json:"pointBackgroundColor,omitempty"`
	PointBorderColor     string  `json:"pointBorderColor,omitempty"`
	PointBorderWidth     int     `json:"pointBorderWidth,omitempty"`
}

// Point is a scatter or bubble marker. Nil coordinates stand for missing
// values.
type Point struct {
	X any      `json:"x"`
	Y any      `json:"y"`
	R *float64 `json:"r,omitempty"`
}

// Options mirrors the Chart.js options tree, reduced to the fields the
// frontend themes use.
type Options struct {
	Responsive          bool    `json:"responsive"`
	MaintainAspectRatio bool    `json:"maintainAspectRatio"`
	Plugins             Plugins `json:"plugins"`
	Scales              *Scales `json:"scales,omitempty"`
}

type Plugins struct {
	Title  Title   `json:"title"`
	Legend *Legend `json:"legend,omitempty"`
}

type Title struct {
	Display bool      `json:"display"`
	Text    string    `json:"text"`
	Font    TitleFont `json:"font"`
	Color   string    `json:"color"`
}

type TitleFont struct {
	Size   int    `json:"size"`
	Weight string `json:"weight"`
}

type Legend struct {
	Display bool         `json:"display"`
	Labels  LegendLabels `json:"labels"`
}

type LegendLabels struct {
	Color string `json:"color"`
}

// Scales configures the cartesian axes, or the radial axis for radar
// charts.
type Scales struct {
	X *Axis `json:"x,omitempty"`
	Y *Axis `json:"y,omitempty"`
	R *Axis `json:"r,omitempty"`
}

type Axis struct {
	Ticks AxisTicks `json:"ticks"`
	Grid  AxisGrid  `json:"grid"`
}

type AxisTicks struct {
	Color string `json:"color"`
}

type AxisGrid struct {
	Color string `json:"color"`
}

func titlePlugin(text string) Title {
	return Title{
		Display: true,
		Text:    text,
		Font:    TitleFont{Size: 16, Weight: "bold"},
		Color:   textColor,
	}
}

func legendPlugin() *Legend {
	return &Legend{Display: true, Labels: LegendLabels{Color: textColor}}
}

func axis() *Axis {
	return &Axis{Ticks: AxisTicks{Color: textColor}, Grid: AxisGrid{Color: gridColor}}
}

func cartesianScales() *Scales { return &Scales{X: axis(), Y: axis()} }

func radialScales() *Scales { return &Scales{R: axis()} }

// chartOptions assembles the standard options block. scales may be nil for
// the circular families.
func chartOptions(title string, scales *Scales) Options {
	return Options{
		Responsive:          true,
		MaintainAspectRatio: false,
		Plugins:             Plugins{Title: titlePlugin(title), Legend: legendPlugin()},
		Scales:              scales,
	}
}

// placeholderOptions is chartOptions without a legend, used by the
// no-data placeholder configs.
func placeholderOptions(title string) Options {
	return Options{
		Responsive:          true,
		MaintainAspectRatio: false,
		Plugins:             Plugins{Title: titlePlugin(title)},
	}
}
