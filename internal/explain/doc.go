// Package explain formats model attribution values into plot-ready
// records. It holds no model code: callers supply SHAP-style contribution
// matrices or LIME-style feature weight lists, and the visualizer turns
// them into the declarative structures the frontend renders.
package explain
