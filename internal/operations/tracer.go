package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies spans emitted by this package.
const TracerName = "tabiq.operations"

// RunTracer provides OpenTelemetry spans around run and step execution.
type RunTracer struct {
	tracer trace.Tracer
}

// NewRunTracer creates a tracer using the globally registered provider.
func NewRunTracer() *RunTracer {
	return &RunTracer{
		tracer: otel.Tracer(TracerName),
	}
}

// TraceRun starts the span covering an entire run.
func (rt *RunTracer) TraceRun(ctx context.Context, runID string, stepCount int) (context.Context, trace.Span) {
	return rt.tracer.Start(ctx, "run.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.steps", stepCount),
		),
	)
}

// TraceStep starts the span covering a single step execution.
func (rt *RunTracer) TraceStep(ctx context.Context, runID string, step Step) (context.Context, trace.Span) {
	return rt.tracer.Start(ctx, fmt.Sprintf("run.step.%s", step.ID()),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
		),
	)
}

// RecordRunCompletion closes out a run span with its final status.
func (rt *RunTracer) RecordRunCompletion(span trace.Span, status RunStatus, duration time.Duration, err error) {
	span.SetAttributes(
		attribute.String("run.status", string(status)),
		attribute.Float64("run.duration_seconds", duration.Seconds()),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

// RecordStepCompletion closes out a step span with its outcome.
func (rt *RunTracer) RecordStepCompletion(span trace.Span, duration time.Duration, err error) {
	span.SetAttributes(
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.AddEvent("step.failed", trace.WithAttributes(
			attribute.String("error.type", string(GetErrorType(err))),
		))
		return
	}
	span.SetStatus(codes.Ok, "")
	span.AddEvent("step.completed")
}
