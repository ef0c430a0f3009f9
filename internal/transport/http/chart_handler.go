package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"tabiq/internal/chartconfig"
	apierrors "tabiq/internal/errors"
	"tabiq/internal/middleware"
	"tabiq/internal/services"
	v1 "tabiq/pkg/contracts/api/v1"
)

// ChartHandler serves chart configurations and chart type suggestions.
type ChartHandler struct {
	service      *services.ChartService
	validator    *middleware.ValidationMiddleware
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewChartHandler creates the chart handler.
func NewChartHandler(service *services.ChartService, validator *middleware.ValidationMiddleware, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *ChartHandler {
	return &ChartHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "chart_handler")),
	}
}

// Routes returns the chart routes.
func (h *ChartHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/config", h.Config)
	r.Post("/suggest", h.Suggest)
	return r
}

// Config builds the configuration for a requested chart type.
func (h *ChartHandler) Config(w http.ResponseWriter, r *http.Request) {
	var req v1.ChartConfigRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	table, err := req.Table.ToTabular()
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrTableDecode(err))
		return
	}

	cfg, err := h.service.Config(r.Context(), table, req.ChartType, req.X, req.Y, req.Title)
	if err != nil {
		if errors.Is(err, chartconfig.ErrUnsupportedChartType) {
			h.errorHandler.HandleError(w, r, apierrors.ErrChartType(req.ChartType))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	render.JSON(w, r, &v1.ChartConfigResponse{Config: cfg})
}

// Suggest picks the chart family best suited to an inline table.
func (h *ChartHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req v1.ChartSuggestRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	table, err := req.Table.ToTabular()
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrTableDecode(err))
		return
	}

	suggested, err := h.service.Suggest(r.Context(), table)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, &v1.ChartSuggestResponse{ChartType: string(suggested)})
}
