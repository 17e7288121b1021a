package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the shared tracer for analysis spans. Without InitTracing it
// resolves to the global no-op provider, so span calls stay safe everywhere.
var Tracer trace.Tracer = otel.Tracer("ranger")

// InitTracing installs an OTLP/gRPC trace exporter when endpoint is non-empty
// and returns a shutdown func. With an empty endpoint tracing stays a no-op.
func InitTracing(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(sdkresource.NewSchemaless(
			attribute.String("service.name", "ranger"),
		)),
	)
	otel.SetTracerProvider(provider)
	Tracer = provider.Tracer("ranger")

	return provider.Shutdown, nil
}
