// Package tracing wraps each GNC loop iteration in an OpenTelemetry span.
// Purely diagnostic: no invariant or control decision depends on trace
// state.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "selene/gnc"

// Setup installs a stdout-exporting TracerProvider as the global provider and
// returns a shutdown function. When enabled is false, Setup installs nothing
// and the returned shutdown is a no-op.
func Setup(ctx context.Context, enabled bool) (shutdown func(context.Context) error, err error) {
	if !enabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx)
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Tracer returns the named tracer GNC loop spans are created on.
func Tracer() oteltrace.Tracer { return otel.Tracer(tracerName) }
