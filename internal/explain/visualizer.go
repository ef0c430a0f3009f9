package explain

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Output caps, matching what the frontend renders.
const (
	maxSummaryFeatures     = 20
	maxExplanationFeatures = 15
	maxDependencePoints    = 1000
	maxImpactPoints        = 100
)

// Bar colors for supporting and opposing feature weights.
const (
	supportColor = "#00f3ff"
	opposeColor  = "#bd00ff"
)

var (
	// ErrNoAttributions is returned when an attribution matrix or series
	// holds no values.
	ErrNoAttributions = errors.New("no attribution values")

	// ErrLengthMismatch is returned when contribution and feature counts
	// differ.
	ErrLengthMismatch = errors.New("contribution and feature counts differ")
)

// Visualizer converts attribution values into plot records.
type Visualizer struct{}

// NewVisualizer returns a ready-to-use Visualizer.
func NewVisualizer() *Visualizer { return &Visualizer{} }

// FeatureImportance is one bar of a summary plot.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
	Index      int     `json:"index"`
}

// SummaryPlot is a bar plot of mean absolute attribution per feature.
type SummaryPlot struct {
	Type        string              `json:"type"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Data        []FeatureImportance `json:"data"`
	Method      string              `json:"method"`
}

// SummaryPlot averages the absolute attribution of each feature across all
// instances, keeping the twenty most important features. Rows may be
// ragged; each column is averaged over the rows that carry it.
func (v *Visualizer) SummaryPlot(matrix [][]float64, features []string) (*SummaryPlot, error) {
	cols := 0
	for _, row := range matrix {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return nil, ErrNoAttributions
	}

	sums := make([]float64, cols)
	counts := make([]int, cols)
	for _, row := range matrix {
		for j, val := range row {
			sums[j] += math.Abs(val)
			counts[j]++
		}
	}

	data := make([]FeatureImportance, 0, min(cols, len(features)))
	for i, feature := range features {
		if i >= cols {
			break
		}
		data = append(data, FeatureImportance{
			Feature:    feature,
			Importance: sums[i] / float64(counts[i]),
			Index:      i,
		})
	}
	sort.SliceStable(data, func(a, b int) bool { return data[a].Importance > data[b].Importance })
	if len(data) > maxSummaryFeatures {
		data = data[:maxSummaryFeatures]
	}

	return &SummaryPlot{
		Type:        "bar",
		Title:       "Mean Absolute SHAP Values",
		Description: "Average impact of each feature on model output",
		Data:        data,
		Method:      "shap",
	}, nil
}

// Contribution is one step of a force plot waterfall. Value is nil when no
// feature value was supplied for the step.
type Contribution struct {
	Feature      string   `json:"feature"`
	Value        *float64 `json:"value"`
	Contribution float64  `json:"contribution"`
	Cumulative   float64  `json:"cumulative"`
	Direction    string   `json:"direction"`
}

// ForcePlot is a waterfall from the base value to the final prediction.
type ForcePlot struct {
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	BaseValue   float64        `json:"base_value"`
	FinalValue  float64        `json:"final_value"`
	Data        []Contribution `json:"data"`
	Method      string         `json:"method"`
}

// ForcePlot orders one instance's contributions by absolute magnitude and
// accumulates them from the base value. featureValues may be shorter than
// features; missing values are left nil.
func (v *Visualizer) ForcePlot(contribs []float64, base float64, featureValues []float64, features []string, instance int) (*ForcePlot, error) {
	if len(contribs) != len(features) {
		return nil, fmt.Errorf("%w: %d contributions, %d features", ErrLengthMismatch, len(contribs), len(features))
	}

	order := make([]int, len(contribs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return math.Abs(contribs[order[a]]) > math.Abs(contribs[order[b]])
	})

	data := make([]Contribution, 0, len(order))
	current := base
	for _, idx := range order {
		c := Contribution{
			Feature:      features[idx],
			Contribution: contribs[idx],
			Cumulative:   current + contribs[idx],
			Direction:    "negative",
		}
		if contribs[idx] > 0 {
			c.Direction = "positive"
		}
		if idx < len(featureValues) {
			val := featureValues[idx]
			c.Value = &val
		}
		data = append(data, c)
		current += contribs[idx]
	}

	return &ForcePlot{
		Type:        "waterfall",
		Title:       fmt.Sprintf("SHAP Force Plot - Instance %d", instance),
		Description: "How each feature contributes to the prediction",
		BaseValue:   base,
		FinalValue:  current,
		Data:        data,
		Method:      "shap_force",
	}, nil
}

// Point is one marker of a dependence plot.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Index int     `json:"index"`
}

// DependencePlot is a scatter of feature value against attribution.
type DependencePlot struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	XLabel      string  `json:"x_label"`
	YLabel      string  `json:"y_label"`
	Data        []Point `json:"data"`
	Method      string  `json:"method"`
}

// DependencePlot pairs feature values with attribution values, capped at a
// thousand points. Unequal lengths pair up to the shorter series.
func (v *Visualizer) DependencePlot(featureVals, attrVals []float64, feature string) (*DependencePlot, error) {
	if len(attrVals) == 0 {
		return nil, ErrNoAttributions
	}

	n := min(len(featureVals), len(attrVals))
	n = min(n, maxDependencePoints)
	data := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		data = append(data, Point{X: featureVals[i], Y: attrVals[i], Index: i})
	}

	return &DependencePlot{
		Type:        "scatter",
		Title:       fmt.Sprintf("SHAP Dependence Plot - %s", feature),
		Description: fmt.Sprintf("Dependence of model output on %s", feature),
		XLabel:      feature,
		YLabel:      "SHAP Value",
		Data:        data,
		Method:      "shap_dependence",
	}, nil
}

// FeatureWeight is a local explanation pair as produced by a LIME-style
// explainer.
type FeatureWeight struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// WeightEntry is one bar of an explanation plot.
type WeightEntry struct {
	Feature   string  `json:"feature"`
	Weight    float64 `json:"weight"`
	Direction string  `json:"direction"`
	Color     string  `json:"color"`
}

// ExplanationPlot is a horizontal bar chart of local feature weights.
type ExplanationPlot struct {
	Type           string        `json:"type"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	PredictedClass string        `json:"predicted_class"`
	Data           []WeightEntry `json:"data"`
	Method         string        `json:"method"`
}

// ExplanationPlot orders local feature weights by absolute magnitude,
// keeping the fifteen strongest. Positive weights support the predicted
// label, the rest oppose it.
func (v *Visualizer) ExplanationPlot(pairs []FeatureWeight, label string) *ExplanationPlot {
	data := make([]WeightEntry, 0, len(pairs))
	for _, p := range pairs {
		e := WeightEntry{
			Feature:   p.Feature,
			Weight:    p.Weight,
			Direction: "opposes",
			Color:     opposeColor,
		}
		if p.Weight > 0 {
			e.Direction = "supports"
			e.Color = supportColor
		}
		data = append(data, e)
	}
	sort.SliceStable(data, func(a, b int) bool {
		return math.Abs(data[a].Weight) > math.Abs(data[b].Weight)
	})
	if len(data) > maxExplanationFeatures {
		data = data[:maxExplanationFeatures]
	}

	return &ExplanationPlot{
		Type:           "bar_horizontal",
		Title:          fmt.Sprintf("LIME Explanation - %s", label),
		Description:    "Local feature importance for this prediction",
		PredictedClass: label,
		Data:           data,
		Method:         "lime",
	}
}

// Impact is one feature weight observed in one explanation.
type Impact struct {
	ExplanationIndex int     `json:"explanation_idx"`
	Feature          string  `json:"feature"`
	Weight           float64 `json:"weight"`
}

// ImpactPlot shows how feature weights vary across many explanations.
type ImpactPlot struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Data        []Impact `json:"data"`
	Method      string   `json:"method"`
}

// FeatureImpact flattens a batch of explanations into per-feature weight
// observations, capped at a hundred points.
func (v *Visualizer) FeatureImpact(explanations [][]FeatureWeight) *ImpactPlot {
	var data []Impact
	for idx, pairs := range explanations {
		for _, p := range pairs {
			data = append(data, Impact{ExplanationIndex: idx, Feature: p.Feature, Weight: p.Weight})
		}
	}
	if len(data) > maxImpactPoints {
		data = data[:maxImpactPoints]
	}

	return &ImpactPlot{
		Type:        "distribution",
		Title:       "LIME Feature Impact Distribution",
		Description: "How feature impact varies across predictions",
		Data:        data,
		Method:      "lime_impact",
	}
}
