package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitializeOTelDisabled(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{Enabled: false}, GetLogger())
	require.NoError(t, err)
	assert.Nil(t, providers.TracerProvider)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTelEnabled(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{Enabled: true, SampleRatio: 1.0}, GetLogger())
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)
	defer providers.Shutdown(context.Background())

	tracer := otel.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "test-span")
	assert.NotEmpty(t, TraceIDFromContext(ctx))

	AddSpanEvent(ctx, "checkpoint", map[string]any{
		"rows":  100,
		"score": 87.5,
		"label": "quality",
		"ok":    true,
	})
	RecordError(ctx, assert.AnError)
	span.End()
}

func TestTraceIDFromContextWithoutSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestShutdownNil(t *testing.T) {
	var providers *OTelProviders
	assert.NoError(t, providers.Shutdown(context.Background()))
}
