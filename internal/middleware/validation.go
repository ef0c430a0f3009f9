package middleware

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "tabiq/internal/errors"
	"tabiq/internal/infrastructure"
)

// ValidationMiddleware validates request payloads with
// go-playground/validator.
type ValidationMiddleware struct {
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewValidationMiddleware creates a validation middleware with the
// custom tabiq validators registered.
func NewValidationMiddleware(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ValidationMiddleware {
	v := validator.New()

	// chart_type accepts the supported chart families and their aliases.
	v.RegisterValidation("chart_type", isChartType)
	// clean_op accepts the cleaning operation names.
	v.RegisterValidation("clean_op", isCleaningOperation)

	return &ValidationMiddleware{
		validator:    v,
		logger:       infrastructure.WithComponent(logger, "validation"),
		errorHandler: errorHandler,
	}
}

// ValidateStruct validates v and converts field errors into an APIError.
func (m *ValidationMiddleware) ValidateStruct(v any) error {
	if err := m.validator.Struct(v); err != nil {
		var fields []apierrors.ValidationError
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, apierrors.ValidationError{
					Field:   fe.Field(),
					Message: formatFieldError(fe),
				})
			}
			return apierrors.NewValidationErrors(fields)
		}
		return apierrors.InvalidRequestWithError(err)
	}
	return nil
}

// ContentTypeValidator rejects requests whose Content-Type is not in
// the allowed set. Requests without a body pass through.
func ContentTypeValidator(contentTypes ...string) func(next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(contentTypes))
	for _, ct := range contentTypes {
		allowed[strings.ToLower(ct)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength == 0 || r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || !allowed[strings.ToLower(mediaType)] {
				apierrors.WriteError(w, apierrors.NewWithDetails(
					http.StatusUnsupportedMediaType,
					"UNSUPPORTED_MEDIA_TYPE",
					"Unsupported content type",
					r.Header.Get("Content-Type"),
				))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "chart_type":
		return "must be a supported chart type"
	case "clean_op":
		return "must be a supported cleaning operation"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

var chartTypeNames = map[string]bool{
	"bar": true, "line": true, "pie": true, "donut": true, "doughnut": true,
	"scatter": true, "area": true, "radar": true, "heatmap": true,
	"bubble": true, "treemap": true, "timeseries": true, "time": true,
}

func isChartType(fl validator.FieldLevel) bool {
	value := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	if value == "" {
		return true
	}
	return chartTypeNames[value]
}

var cleaningOperations = map[string]bool{
	"remove_duplicates": true, "fill_empty_cells": true,
	"fill_empty_cells_by_address": true, "remove_whitespace": true,
	"normalize_column_names": true, "convert_types": true,
	"handle_missing_values": true,
}

func isCleaningOperation(fl validator.FieldLevel) bool {
	return cleaningOperations[strings.ToLower(fl.Field().String())]
}
