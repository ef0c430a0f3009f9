// Package v1 defines the request and response contracts of the HTTP API.
// Request structs carry validator tags; handlers validate them before any
// table work starts.
package v1

import (
	"tabiq/pkg/contracts/domain"
)

// AnalyzeRequest asks for a data-quality report over an inline table.
type AnalyzeRequest struct {
	Table domain.Table `json:"table" validate:"required"`
}

// CleanRequest applies one cleaning operation to an inline table. The
// parameter fields mirror the operation names: each operation reads only
// its own field.
type CleanRequest struct {
	Table     domain.Table `json:"table" validate:"required"`
	Operation string       `json:"operation" validate:"required,clean_op"`

	// Subset restricts remove_duplicates to the named columns.
	Subset []string `json:"subset,omitempty"`

	// FillValues maps column names to fill_empty_cells values.
	FillValues map[string]any `json:"fill_values,omitempty"`

	// Cells maps spreadsheet addresses to fill_empty_cells_by_address
	// values.
	Cells map[string]any `json:"cells,omitempty"`

	// Types maps column names to convert_types targets.
	Types map[string]string `json:"types,omitempty"`

	// Strategy selects the handle_missing_values strategy.
	Strategy string `json:"strategy,omitempty"`
}

// InsightsRequest asks for the insight report over an inline table.
// Sections limits the response to the named sections; empty means all.
type InsightsRequest struct {
	Table    domain.Table `json:"table" validate:"required"`
	Sections []string     `json:"sections,omitempty" validate:"omitempty,dive,oneof=summary_stats anomalies outliers relationships distributions missing_data"`
}

// ChartConfigRequest asks for a render-ready chart configuration.
type ChartConfigRequest struct {
	Table     domain.Table `json:"table" validate:"required"`
	ChartType string       `json:"chart_type" validate:"required,chart_type"`
	X         string       `json:"x,omitempty"`
	Y         []string     `json:"y,omitempty"`
	Title     string       `json:"title,omitempty"`
}

// ChartSuggestRequest asks which chart family fits an inline table.
type ChartSuggestRequest struct {
	Table domain.Table `json:"table" validate:"required"`
}

// ShapSummaryRequest carries a SHAP attribution matrix, one row per
// instance and one column per feature.
type ShapSummaryRequest struct {
	Matrix   [][]float64 `json:"matrix" validate:"required,min=1"`
	Features []string    `json:"features" validate:"required,min=1"`
}

// ShapForceRequest carries the attributions of a single instance.
type ShapForceRequest struct {
	Contributions []float64 `json:"contributions" validate:"required,min=1"`
	BaseValue     float64   `json:"base_value"`
	FeatureValues []float64 `json:"feature_values" validate:"required"`
	Features      []string  `json:"features" validate:"required,min=1"`
	Instance      int       `json:"instance" validate:"gte=0"`
}

// ShapDependenceRequest pairs one feature's values with its attributions.
type ShapDependenceRequest struct {
	FeatureValues     []float64 `json:"feature_values" validate:"required,min=1"`
	AttributionValues []float64 `json:"attribution_values" validate:"required,min=1"`
	Feature           string    `json:"feature" validate:"required"`
}

// FeatureWeight is one (feature, weight) pair of a LIME explanation.
type FeatureWeight struct {
	Feature string  `json:"feature" validate:"required"`
	Weight  float64 `json:"weight"`
}

// LimeExplanationRequest carries one local explanation.
type LimeExplanationRequest struct {
	Pairs []FeatureWeight `json:"pairs" validate:"required,min=1,dive"`
	Label string          `json:"label,omitempty"`
}

// LimeImpactRequest carries a batch of local explanations.
type LimeImpactRequest struct {
	Explanations [][]FeatureWeight `json:"explanations" validate:"required,min=1"`
}

// RunRequest starts a full pipeline run over an inline table: quality
// analysis, optional cleaning, insights, and chart recommendation.
type RunRequest struct {
	Table domain.Table `json:"table" validate:"required"`

	// CleanOperations are applied in order before analysis; empty means
	// the table is analyzed as-is.
	CleanOperations []string `json:"clean_operations,omitempty" validate:"omitempty,dive,clean_op"`
}
