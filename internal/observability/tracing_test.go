package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "yatube-test", Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.NotNil(t, Tracer)
}

func TestInitTracing_StdoutExporter(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{
		ServiceName:    "yatube-test",
		ServiceVersion: "test",
		Environment:    "test",
		Enabled:        true,
		Exporter:       "stdout",
		SamplerRatio:   0,
	})
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	ctx, span := StartRepositorySpan(context.Background(), "PostRepository", "List", "posts")
	RecordErrorInContext(ctx, assert.AnError)
	span.End()
	assert.False(t, span.SpanContext().IsSampled())
}
