package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const routingMeterName = "github.com/kitamove/kitamove/internal/routing"

// RoutingMetrics holds instruments for route computation and upstream calls.
// A nil *RoutingMetrics is valid and records nothing.
type RoutingMetrics struct {
	upstreamDuration metric.Float64Histogram
	upstreamTotal    metric.Int64Counter
	fallbackTotal    metric.Int64Counter
	routesTotal      metric.Int64Counter
}

// NewRoutingMetrics creates routing instruments on the global meter provider.
func NewRoutingMetrics() (*RoutingMetrics, error) {
	meter := otel.Meter(routingMeterName)

	upstreamDuration, err := meter.Float64Histogram(
		"routing.upstream.duration",
		metric.WithDescription("Duration of upstream routing requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	upstreamTotal, err := meter.Int64Counter(
		"routing.upstream.total",
		metric.WithDescription("Total number of upstream routing requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	fallbackTotal, err := meter.Int64Counter(
		"routing.fallback.total",
		metric.WithDescription("Number of routes served by the fallback provider after an upstream failure"),
		metric.WithUnit("{route}"),
	)
	if err != nil {
		return nil, err
	}

	routesTotal, err := meter.Int64Counter(
		"routing.routes.total",
		metric.WithDescription("Number of routes returned, by route kind"),
		metric.WithUnit("{route}"),
	)
	if err != nil {
		return nil, err
	}

	return &RoutingMetrics{
		upstreamDuration: upstreamDuration,
		upstreamTotal:    upstreamTotal,
		fallbackTotal:    fallbackTotal,
		routesTotal:      routesTotal,
	}, nil
}

// RecordUpstream records one upstream call.
func (m *RoutingMetrics) RecordUpstream(ctx context.Context, provider string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("provider.name", provider),
		attribute.Bool("error", err != nil),
	}
	m.upstreamDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.upstreamTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordFallback records that the fallback provider replaced a failed upstream.
func (m *RoutingMetrics) RecordFallback(ctx context.Context, upstream, fallback string) {
	if m == nil {
		return
	}
	m.fallbackTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider.upstream", upstream),
		attribute.String("provider.fallback", fallback),
	))
}

// RecordRoute records a returned route.
func (m *RoutingMetrics) RecordRoute(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.routesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("route.kind", kind)))
}
