//go:build !integration

package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestInit_Disabled(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := Init(context.Background(), Config{Enabled: false})

	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider())
}

func TestInit_WritesSpansToWriter(t *testing.T) {
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	var buf bytes.Buffer
	shutdown, err := Init(context.Background(), Config{
		Enabled:        true,
		ServiceVersion: "1.2.3",
		Writer:         &buf,
	})
	require.NoError(t, err)

	_, span := Tracer("telemetry-test").Start(context.Background(), "plan.allocate")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	out := buf.String()
	assert.Contains(t, out, "plan.allocate")
	assert.Contains(t, out, DefaultServiceName)
	assert.Contains(t, out, "1.2.3")
}

func TestNewTracerProvider_ServiceName(t *testing.T) {
	var buf bytes.Buffer
	tp, err := NewTracerProvider(context.Background(), Config{ServiceName: "packplan", Writer: &buf})
	require.NoError(t, err)

	_, span := tp.Tracer("telemetry-test").Start(context.Background(), "export")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "packplan")
}

func TestNewTracerProvider_OTLPEndpoint(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Endpoint: "http://localhost:4318"})
	require.NoError(t, err)
	// nothing was recorded so shutdown has nothing to send
	assert.NoError(t, tp.Shutdown(context.Background()))
}
