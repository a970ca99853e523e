package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/detectors/aws/ecs"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// InitTracer installs a global tracer provider exporting to endpoint over OTLP gRPC, with X-Ray
// compatible ids and propagation. The returned function flushes and shuts the provider down.
func InitTracer(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	exporter, err := newExporter(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize exporter: %w", err)
	}

	tp, err := newTracerProvider(ctx, exporter, serviceName, serviceVersion)
	if err != nil {
		return nil, err
	}

	// Set the tracer provider and propagator
	otel.SetTracerProvider(tp)

	// Use the X-Ray propagator for AWS compatibility
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		xray.Propagator{},
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown TracerProvider: %w", err)
		}
		return nil
	}, nil
}

// newExporter creates an OTLP exporter for a local collector such as the ADOT sidecar
func newExporter(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
	return otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
}

// newTracerProvider creates a new tracer provider with the given exporter
func newTracerProvider(ctx context.Context, exp sdktrace.SpanExporter, serviceName, serviceVersion string) (*sdktrace.TracerProvider, error) {
	// Outside ECS the detector returns an empty resource
	ecsDetector := ecs.NewResourceDetector()
	ecsResource, _ := ecsDetector.Detect(ctx)

	// Create a resource with service information
	baseResource := resource.Default()
	baseResource, _ = resource.Merge(baseResource, ecsResource)
	r, err := resource.Merge(
		baseResource,
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build trace resource: %w", err)
	}

	// Create a tracer provider with the given exporter and resource
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
		sdktrace.WithIDGenerator(xray.NewIDGenerator()),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	), nil
}
