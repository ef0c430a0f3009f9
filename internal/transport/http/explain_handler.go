package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "tabiq/internal/errors"
	"tabiq/internal/explain"
	"tabiq/internal/middleware"
	"tabiq/internal/services"
	v1 "tabiq/pkg/contracts/api/v1"
)

// ExplainHandler serves plot-ready model-attribution structures.
type ExplainHandler struct {
	service      *services.ExplainService
	validator    *middleware.ValidationMiddleware
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewExplainHandler creates the explain handler.
func NewExplainHandler(service *services.ExplainService, validator *middleware.ValidationMiddleware, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *ExplainHandler {
	return &ExplainHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "explain_handler")),
	}
}

// Routes returns the explain routes.
func (h *ExplainHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/shap", func(r chi.Router) {
		r.Post("/summary", h.ShapSummary)
		r.Post("/force", h.ShapForce)
		r.Post("/dependence", h.ShapDependence)
	})
	r.Route("/lime", func(r chi.Router) {
		r.Post("/explanation", h.LimeExplanation)
		r.Post("/impact", h.LimeImpact)
	})

	return r
}

// ShapSummary ranks features by mean absolute attribution.
func (h *ExplainHandler) ShapSummary(w http.ResponseWriter, r *http.Request) {
	var req v1.ShapSummaryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	plot, err := h.service.ShapSummary(r.Context(), req.Matrix, req.Features)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrAttributionMismatch(err))
		return
	}
	render.JSON(w, r, plot)
}

// ShapForce lays out one instance's attributions as a waterfall.
func (h *ExplainHandler) ShapForce(w http.ResponseWriter, r *http.Request) {
	var req v1.ShapForceRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	plot, err := h.service.ShapForce(r.Context(), req.Contributions, req.BaseValue, req.FeatureValues, req.Features, req.Instance)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrAttributionMismatch(err))
		return
	}
	render.JSON(w, r, plot)
}

// ShapDependence pairs one feature's values with its attributions.
func (h *ExplainHandler) ShapDependence(w http.ResponseWriter, r *http.Request) {
	var req v1.ShapDependenceRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	plot, err := h.service.ShapDependence(r.Context(), req.FeatureValues, req.AttributionValues, req.Feature)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrAttributionMismatch(err))
		return
	}
	render.JSON(w, r, plot)
}

// LimeExplanation renders one local explanation.
func (h *ExplainHandler) LimeExplanation(w http.ResponseWriter, r *http.Request) {
	var req v1.LimeExplanationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	plot, err := h.service.LimeExplanation(r.Context(), toFeatureWeights(req.Pairs), req.Label)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, plot)
}

// LimeImpact flattens a batch of local explanations.
func (h *ExplainHandler) LimeImpact(w http.ResponseWriter, r *http.Request) {
	var req v1.LimeImpactRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	explanations := make([][]explain.FeatureWeight, len(req.Explanations))
	for i, pairs := range req.Explanations {
		explanations[i] = toFeatureWeights(pairs)
	}

	plot, err := h.service.LimeImpact(r.Context(), explanations)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, plot)
}

func toFeatureWeights(pairs []v1.FeatureWeight) []explain.FeatureWeight {
	out := make([]explain.FeatureWeight, len(pairs))
	for i, p := range pairs {
		out[i] = explain.FeatureWeight{Feature: p.Feature, Weight: p.Weight}
	}
	return out
}
