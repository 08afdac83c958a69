// Package otel provides the span helpers behind chartsync coordinator traces.
package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tvmdash/chartsync/internal/chart"
)

// Attribute keys of coordinator spans
const (
	AttrGroupKey    = attribute.Key("sync.group")
	AttrSourceChart = attribute.Key("sync.source_chart")
	AttrEventKind   = attribute.Key("sync.event_kind")
	AttrRangeMin    = attribute.Key("sync.range.min")
	AttrRangeMax    = attribute.Key("sync.range.max")
	AttrOutcome     = attribute.Key("sync.outcome")
	AttrTargetCount = attribute.Key("sync.target_count")
	AttrFailedCount = attribute.Key("sync.failed_count")
	AttrFailedChart = attribute.Key("sync.failed_charts")
)

// StartSpan starts a span on tracer. A nil tracer yields the span already in
// ctx, which is a no-op span when there is none.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// ZoomAttributes describes a zoom notification received by a group
func ZoomAttributes(group, source string, kind chart.EventKind, r chart.Range) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrGroupKey.String(group),
		AttrSourceChart.String(source),
		AttrEventKind.String(string(kind)),
		AttrRangeMin.Float64(r.Min),
		AttrRangeMax.Float64(r.Max),
	}
}

// ChartFailure is a chart that rejected a range during a batch
type ChartFailure struct {
	Chart string
	Err   error
}

// EndBatch records the outcome of a propagation or reset batch on span. Any
// failure marks the span as errored, with one exception event per chart.
func EndBatch(span trace.Span, outcome string, targets int, failures []ChartFailure) {
	if span == nil {
		return
	}
	span.SetAttributes(
		AttrOutcome.String(outcome),
		AttrTargetCount.Int(targets),
		AttrFailedCount.Int(len(failures)),
	)
	if len(failures) == 0 {
		return
	}

	charts := make([]string, len(failures))
	for i, f := range failures {
		charts[i] = f.Chart
		RecordError(span, fmt.Errorf("chart %s: %w", f.Chart, f.Err))
	}
	span.SetAttributes(AttrFailedChart.StringSlice(charts))
	span.SetStatus(codes.Error, fmt.Sprintf("%d of %d charts failed", len(failures), targets))
}

// RecordError records err on span and marks the span as errored. Nil spans
// and nil errors are ignored.
func RecordError(span trace.Span, err error) {
	if err == nil || span == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "chart update failed")
}
