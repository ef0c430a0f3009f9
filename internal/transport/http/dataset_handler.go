package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"tabiq/internal/cleaning"
	apierrors "tabiq/internal/errors"
	"tabiq/internal/exporter"
	"tabiq/internal/middleware"
	"tabiq/internal/services"
	v1 "tabiq/pkg/contracts/api/v1"
	"tabiq/pkg/contracts/domain"
)

// uploadPreviewRows bounds the table sample echoed back for an upload.
const uploadPreviewRows = 10

// DatasetHandler serves ingestion, quality analysis, and cleaning.
type DatasetHandler struct {
	service      *services.DatasetService
	operations   *services.OperationService
	validator    *middleware.ValidationMiddleware
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger

	maxUploadBytes int64
}

// NewDatasetHandler creates the dataset handler. The operation service
// is used to start an analysis run for each upload.
func NewDatasetHandler(service *services.DatasetService, operations *services.OperationService, validator *middleware.ValidationMiddleware, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64, logger *slog.Logger) *DatasetHandler {
	return &DatasetHandler{
		service:        service,
		operations:     operations,
		validator:      validator,
		errorHandler:   errorHandler,
		logger:         logger.With(slog.String("component", "dataset_handler")),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the dataset routes.
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/analyze", h.Analyze)
	r.Post("/clean", h.Clean)
	r.Post("/upload", h.Upload)

	return r
}

// Analyze runs the quality diagnostics over an inline table.
func (h *DatasetHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req v1.AnalyzeRequest
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

	report, err := h.service.Analyze(r.Context(), table)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, &v1.AnalyzeResponse{
		Table:  v1.TableMeta{Rows: table.NumRows(), Columns: table.NumCols()},
		Report: report,
	})
}

// Clean applies one cleaning operation to an inline table.
func (h *DatasetHandler) Clean(w http.ResponseWriter, r *http.Request) {
	var req v1.CleanRequest
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

	params := cleaning.Params{
		Subset:     req.Subset,
		FillValues: req.FillValues,
		Cells:      req.Cells,
		Types:      req.Types,
		Strategy:   req.Strategy,
	}

	cleaned, report, err := h.service.Clean(r.Context(), table, req.Operation, params)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	render.JSON(w, r, &v1.CleanResponse{
		Table:  domain.FromTabular(req.Table.Name, cleaned),
		Report: report,
	})
}

// Upload ingests a multipart file upload, starts an analysis run over
// the parsed table, and returns a bounded preview with the run ID.
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A file upload named \"file\" is required"))
		return
	}
	defer file.Close()

	table, format, err := h.service.IngestUpload(r.Context(), header.Filename, header.Size, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	runID, err := h.operations.StartRun(r.Context(), table, nil)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, &v1.UploadResponse{
		Filename: header.Filename,
		Format:   string(format),
		Meta:     v1.TableMeta{Rows: table.NumRows(), Columns: table.NumCols()},
		Preview:  exporter.TablePreview(table, uploadPreviewRows),
		RunID:    runID,
	})
}
