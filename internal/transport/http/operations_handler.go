package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "tabiq/internal/errors"
	"tabiq/internal/middleware"
	"tabiq/internal/operations"
	"tabiq/internal/services"
	v1 "tabiq/pkg/contracts/api/v1"
)

// OperationsHandler serves multi-step analysis runs.
type OperationsHandler struct {
	service      *services.OperationService
	validator    *middleware.ValidationMiddleware
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewOperationsHandler creates the operations handler.
func NewOperationsHandler(service *services.OperationService, validator *middleware.ValidationMiddleware, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *OperationsHandler {
	return &OperationsHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "operations_handler")),
	}
}

// Routes returns the operations routes.
func (h *OperationsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.StartRun)
	r.Get("/", h.ListRuns)
	r.Get("/stats", h.Stats)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetRun)
		r.Get("/results", h.GetResults)
	})

	return r
}

// StartRun queues an analysis run and answers 202 with the run ID.
func (h *OperationsHandler) StartRun(w http.ResponseWriter, r *http.Request) {
	var req v1.RunRequest
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

	runID, err := h.service.StartRun(r.Context(), table, req.CleanOperations)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, &v1.RunAcceptedResponse{
		RunID:  runID,
		Status: string(operations.RunStatusPending),
	})
}

// GetRun returns the latest snapshot of a run, in flight or finished.
func (h *OperationsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")

	if snapshot, ok := h.service.Snapshot(runID); ok {
		render.JSON(w, r, snapshot)
		return
	}

	state, err := h.service.GetRun(r.Context(), runID)
	if err != nil {
		if errors.Is(err, operations.ErrRunNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.RunNotFoundError(runID))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, state)
}

// GetResults returns the collected step results of a finished run.
func (h *OperationsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")

	state, err := h.service.GetRun(r.Context(), runID)
	if err != nil {
		if errors.Is(err, operations.ErrRunNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.RunNotFoundError(runID))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"run_id":  state.ID,
		"status":  state.Status,
		"results": state.Results(),
	})
}

// ListRuns returns stored runs, newest first. The status and limit query
// parameters narrow the result.
func (h *OperationsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	filter := operations.RunFilter{
		Status: operations.RunStatus(r.URL.Query().Get("status")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("limit", "limit must be a non-negative integer"))
			return
		}
		filter.Limit = limit
	}

	runs := h.service.ListRuns(r.Context(), filter)
	render.JSON(w, r, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}

// Stats returns run counts grouped by status.
func (h *OperationsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Stats())
}
