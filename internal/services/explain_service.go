package services

import (
	"context"
	"log/slog"

	"tabiq/internal/explain"
)

// ExplainService formats model-attribution payloads into plot-ready
// structures.
type ExplainService struct {
	visualizer *explain.Visualizer
	logger     *slog.Logger
}

// NewExplainService creates the explain service.
func NewExplainService(logger *slog.Logger) *ExplainService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExplainService{
		visualizer: explain.NewVisualizer(),
		logger:     logger,
	}
}

// ShapSummary ranks features by mean absolute attribution.
func (s *ExplainService) ShapSummary(ctx context.Context, matrix [][]float64, features []string) (*explain.SummaryPlot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plot, err := s.visualizer.SummaryPlot(matrix, features)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "shap summary built",
		slog.Int("instances", len(matrix)),
		slog.Int("features", len(features)))
	return plot, nil
}

// ShapForce lays out one instance's attributions as a force plot.
func (s *ExplainService) ShapForce(ctx context.Context, contribs []float64, base float64, featureValues []float64, features []string, instance int) (*explain.ForcePlot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.visualizer.ForcePlot(contribs, base, featureValues, features, instance)
}

// ShapDependence pairs a feature's values with its attributions.
func (s *ExplainService) ShapDependence(ctx context.Context, featureVals, attrVals []float64, feature string) (*explain.DependencePlot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.visualizer.DependencePlot(featureVals, attrVals, feature)
}

// LimeExplanation renders one local explanation as a weight bar plot.
func (s *ExplainService) LimeExplanation(ctx context.Context, pairs []explain.FeatureWeight, label string) (*explain.ExplanationPlot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.visualizer.ExplanationPlot(pairs, label), nil
}

// LimeImpact flattens a batch of explanations into per-feature weight
// observations.
func (s *ExplainService) LimeImpact(ctx context.Context, explanations [][]explain.FeatureWeight) (*explain.ImpactPlot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plot := s.visualizer.FeatureImpact(explanations)
	s.logger.DebugContext(ctx, "lime impact built",
		slog.Int("explanations", len(explanations)),
		slog.Int("points", len(plot.Data)))
	return plot, nil
}
