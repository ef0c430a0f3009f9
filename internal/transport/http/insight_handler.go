package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "tabiq/internal/errors"
	"tabiq/internal/middleware"
	"tabiq/internal/services"
	v1 "tabiq/pkg/contracts/api/v1"
)

// InsightHandler serves statistical insight reports.
type InsightHandler struct {
	service      *services.InsightService
	validator    *middleware.ValidationMiddleware
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewInsightHandler creates the insight handler.
func NewInsightHandler(service *services.InsightService, validator *middleware.ValidationMiddleware, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *InsightHandler {
	return &InsightHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "insight_handler")),
	}
}

// Routes returns the insight routes.
func (h *InsightHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Generate)
	return r
}

// Generate runs the requested insight sections over an inline table.
// The section query parameter may repeat and narrows the report.
func (h *InsightHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req v1.InsightsRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	// Sections may come in the body or as repeated query parameters;
	// the query wins when both are present.
	if sections := r.URL.Query()["section"]; len(sections) > 0 {
		req.Sections = sections
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

	report, err := h.service.Generate(r.Context(), table, req.Sections)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	render.JSON(w, r, &v1.InsightsResponse{
		Table:  v1.TableMeta{Rows: table.NumRows(), Columns: table.NumCols()},
		Report: report,
	})
}
