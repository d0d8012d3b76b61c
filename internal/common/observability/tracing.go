package observability

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Span names used by the workers and the ranking engine.
const (
	SpanBuildProfile = "recommender.profile.build"
	SpanRank         = "recommender.rank"
	SpanCatalogLoad  = "recommender.catalog.load"
)

// Attribute keys.
const (
	AttrProfileID    = "recommender.profile_id"
	AttrSeason       = "recommender.season"
	AttrCatalogSize  = "recommender.catalog_size"
	AttrCatalogSrc   = "recommender.catalog_source"
	AttrTopScore     = "recommender.top_score"
	AttrCacheOutcome = "recommender.cache"
)

// initTracing installs a Jaeger-backed tracer provider when an endpoint or
// span processor is configured, and a noop tracer otherwise.
func (o *Observability) initTracing(serviceName string, opts *options) {
	if opts.jaegerEndpoint == "" && len(opts.spanProcessors) == 0 {
		o.tracer = noop.NewTracerProvider().Tracer(serviceName)
		return
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	}
	if opts.jaegerEndpoint != "" {
		exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(opts.jaegerEndpoint)))
		if err != nil {
			log.Printf("Failed to create Jaeger exporter: %v", err)
		} else {
			tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
		}
	}
	for _, sp := range opts.spanProcessors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(sp))
	}

	provider := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(provider)

	o.tracerProvider = provider
	o.tracer = provider.Tracer(serviceName)
}

// StartSpan starts a span as a child of whatever span ctx carries. A nil
// receiver yields a noop span so callers never need to guard.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Tracer exposes the underlying tracer.
func (o *Observability) Tracer() trace.Tracer {
	return o.tracer
}
