package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// SyncMetricsMeterName is the name used for the zoom sync metrics meter
	SyncMetricsMeterName = "github.com/tvmdash/chartsync/sync"
)

// SyncMetrics holds the OpenTelemetry instruments for zoom synchronization
type SyncMetrics struct {
	propagations   metric.Int64Counter
	handleFailures metric.Int64Counter
	resets         metric.Int64Counter
	batchSize      metric.Int64Histogram
}

// NewSyncMetrics creates a new SyncMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	propagations, err := meter.Int64Counter(
		"chartsync_propagations",
		metric.WithDescription("Zoom notifications received, by outcome"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	handleFailures, err := meter.Int64Counter(
		"chartsync_handle_failures",
		metric.WithDescription("Chart handles that failed to apply a range"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	resets, err := meter.Int64Counter(
		"chartsync_resets",
		metric.WithDescription("Zoom resets, by scope"),
		metric.WithUnit("{reset}"),
	)
	if err != nil {
		return nil, err
	}

	batchSize, err := meter.Int64Histogram(
		"chartsync_batch_size",
		metric.WithDescription("Number of charts updated by one propagation"),
		metric.WithUnit("{chart}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 4, 8, 16, 32),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		propagations:   propagations,
		handleFailures: handleFailures,
		resets:         resets,
		batchSize:      batchSize,
	}, nil
}

// RecordPropagation records one zoom notification and its outcome. The batch
// size is only recorded for notifications that reached the group.
func (m *SyncMetrics) RecordPropagation(ctx context.Context, group, outcome string, batchSize int) {
	if m == nil || m.propagations == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("group", group),
		attribute.String("outcome", outcome),
	)
	m.propagations.Add(ctx, 1, attrs)

	if batchSize > 0 && m.batchSize != nil {
		m.batchSize.Record(ctx, int64(batchSize), metric.WithAttributes(attribute.String("group", group)))
	}
}

// RecordHandleFailure records a chart that failed to apply a range
func (m *SyncMetrics) RecordHandleFailure(ctx context.Context, group, chartID string) {
	if m == nil || m.handleFailures == nil {
		return
	}

	m.handleFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("group", group),
		attribute.String("chart", chartID),
	))
}

// RecordReset records a reset of the whole group ("all") or of one chart ("chart")
func (m *SyncMetrics) RecordReset(ctx context.Context, group, scope string) {
	if m == nil || m.resets == nil {
		return
	}

	m.resets.Add(ctx, 1, metric.WithAttributes(
		attribute.String("group", group),
		attribute.String("scope", scope),
	))
}
