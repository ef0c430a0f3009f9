package infrastructure

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/lmittmann/tint"

	"tabiq/internal/config"
)

var (
	defaultLogger *slog.Logger
	loggerOnce    sync.Once
	loggerMu      sync.RWMutex
)

type contextKey string

const (
	traceIDKey contextKey = "trace_id"
)

// InitializeLogger builds the process logger from config and installs
// it as both the package and slog default.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	logger := createLogger(cfg)

	loggerMu.Lock()
	defaultLogger = logger
	loggerMu.Unlock()
	slog.SetDefault(logger)

	return logger, nil
}

// GetLogger returns the process logger, initializing a JSON logger with
// defaults on first use.
func GetLogger() *slog.Logger {
	loggerMu.RLock()
	if defaultLogger != nil {
		defer loggerMu.RUnlock()
		return defaultLogger
	}
	loggerMu.RUnlock()

	loggerOnce.Do(func() {
		logger, _ := InitializeLogger(config.Default().Logging)
		loggerMu.Lock()
		defaultLogger = logger
		loggerMu.Unlock()
	})

	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

func createLogger(cfg config.LoggingConfig) *slog.Logger {
	level := parseLogLevel(cfg.Level)

	var handler slog.Handler
	switch cfg.Format {
	case "console":
		handler = tint.NewHandler(os.Stderr, &tint.Options{Level: level})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(&traceHandler{Handler: handler})
}

// traceHandler injects the context trace ID into every record.
type traceHandler struct {
	slog.Handler
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceID := GetTraceID(ctx); traceID != "" {
		r.AddAttrs(slog.String("trace_id", traceID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithTraceID attaches a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// GetTraceID returns the trace ID from the context, or "".
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(traceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// ResetLoggerForTesting clears the cached logger so tests can install
// their own.
func ResetLoggerForTesting() {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	defaultLogger = nil
	loggerOnce = sync.Once{}
}
