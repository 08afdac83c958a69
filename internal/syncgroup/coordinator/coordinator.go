package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/tvmdash/chartsync/internal/chart"
	"github.com/tvmdash/chartsync/internal/otel"
	"github.com/tvmdash/chartsync/internal/syncgroup"
	"github.com/tvmdash/chartsync/internal/telemetry"
)

// ErrUnknownChart is returned when an operation names a chart that is not
// registered in the group
var ErrUnknownChart = errors.New("unknown chart")

// errHandlePanic wraps panics raised by a chart handle
var errHandlePanic = errors.New("chart handle panicked")

// Coordinator propagates zoom changes within one sync group
type Coordinator interface {
	// NotifyZoom pushes r, selected on chart sourceID, to every other chart
	// of the group. It does nothing when the group is disabled, the event kind
	// is filtered out, the range is invalid or the source is not registered.
	NotifyZoom(ctx context.Context, sourceID string, r chart.Range, kind chart.EventKind) Report

	// ResetAll restores every chart with data to its full range. It runs
	// whether or not the group is enabled.
	ResetAll(ctx context.Context) Report

	// ResetChart restores a single chart to its full range without touching
	// the rest of the group
	ResetChart(ctx context.Context, chartID string) error

	// ZoomFunc returns an emission target for chart adapters that forwards
	// to NotifyZoom
	ZoomFunc(ctx context.Context) chart.ZoomFunc

	// Registry returns the coordinated group
	Registry() *syncgroup.Registry
}

// defaultCoordinator is the default implementation of Coordinator
type defaultCoordinator struct {
	registry *syncgroup.Registry

	// applying counts in-flight SetVisibleRange calls per chart id
	mu       sync.Mutex
	applying map[string]int

	syncMetrics *telemetry.SyncMetrics
	tracer      trace.Tracer
}

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithSyncMetrics sets the sync metrics for the coordinator
func WithSyncMetrics(metrics *telemetry.SyncMetrics) Option {
	return func(c *defaultCoordinator) {
		c.syncMetrics = metrics
	}
}

// WithTracer sets the tracer used to record coordinator spans
func WithTracer(tracer trace.Tracer) Option {
	return func(c *defaultCoordinator) {
		c.tracer = tracer
	}
}

// New creates a coordinator for the given group
func New(registry *syncgroup.Registry, opts ...Option) Coordinator {
	c := &defaultCoordinator{
		registry: registry,
		applying: make(map[string]int),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Registry returns the coordinated group
func (c *defaultCoordinator) Registry() *syncgroup.Registry {
	return c.registry
}

// ZoomFunc returns a chart.ZoomFunc bound to ctx
func (c *defaultCoordinator) ZoomFunc(ctx context.Context) chart.ZoomFunc {
	return func(id string, r chart.Range, kind chart.EventKind) {
		c.NotifyZoom(ctx, id, r, kind)
	}
}

// NotifyZoom propagates a zoom from sourceID to the rest of the group
func (c *defaultCoordinator) NotifyZoom(
	ctx context.Context,
	sourceID string,
	r chart.Range,
	kind chart.EventKind,
) Report {
	group := c.registry.Key()
	ctx, span := otel.StartSpan(ctx, c.tracer, "coordinator.NotifyZoom",
		trace.WithAttributes(otel.ZoomAttributes(group, sourceID, kind, r)...),
	)
	defer span.End()

	report := Report{
		Group:  group,
		Source: sourceID,
		Kind:   kind,
		Range:  r,
	}

	if outcome, skip := c.checkNotification(sourceID, r, kind); skip {
		report.Outcome = outcome
		slog.Debug("Zoom notification not propagated",
			"group", group,
			"chart", sourceID,
			"event", kind,
			"reason", outcome)
		c.syncMetrics.RecordPropagation(ctx, group, string(outcome), 0)
		c.annotate(span, &report)
		return report
	}

	targets := c.registry.Others(sourceID)
	c.applyAll(ctx, &report, targets, func(chart.Handle) (chart.Range, bool) {
		return r, true
	})
	report.Outcome = OutcomePropagated

	slog.Debug("Zoom propagated",
		"group", group,
		"chart", sourceID,
		"event", kind,
		"range", r.String(),
		"applied", len(report.Applied),
		"failed", len(report.Failures))

	c.syncMetrics.RecordPropagation(ctx, group, string(report.Outcome), len(targets))
	c.annotate(span, &report)
	return report
}

// checkNotification evaluates the guards of NotifyZoom in order
func (c *defaultCoordinator) checkNotification(
	sourceID string,
	r chart.Range,
	kind chart.EventKind,
) (Outcome, bool) {
	switch {
	case !r.Valid():
		// Libraries can report transient inverted ranges while recalculating.
		return OutcomeInvalidRange, true
	case !c.registry.IsEnabled():
		return OutcomeDisabled, true
	case !c.registry.Allows(kind):
		return OutcomeFiltered, true
	case !c.registry.Has(sourceID):
		// The chart may have unmounted before its zoom callback fired.
		return OutcomeUnknownSource, true
	case c.isApplying(sourceID):
		return OutcomeEcho, true
	default:
		return "", false
	}
}

// ResetAll restores every chart to its full range
func (c *defaultCoordinator) ResetAll(ctx context.Context) Report {
	group := c.registry.Key()
	ctx, span := otel.StartSpan(ctx, c.tracer, "coordinator.ResetAll",
		trace.WithAttributes(otel.AttrGroupKey.String(group)),
	)
	defer span.End()

	report := Report{Group: group, Outcome: OutcomeReset}

	c.applyAll(ctx, &report, c.registry.All(), func(h chart.Handle) (chart.Range, bool) {
		return h.FullRange()
	})

	slog.Info("Zoom reset on all charts",
		"group", group,
		"applied", len(report.Applied),
		"failed", len(report.Failures))

	c.syncMetrics.RecordReset(ctx, group, "all")
	c.annotate(span, &report)
	return report
}

// ResetChart restores one chart to its full range
func (c *defaultCoordinator) ResetChart(ctx context.Context, chartID string) error {
	group := c.registry.Key()

	h, ok := c.registry.Get(chartID)
	if !ok {
		return fmt.Errorf("group %s: %w: %s", group, ErrUnknownChart, chartID)
	}

	full, ok := h.FullRange()
	if !ok {
		return nil
	}

	if err := c.apply(h, full); err != nil {
		c.syncMetrics.RecordHandleFailure(ctx, group, chartID)
		return HandleError{ChartID: chartID, Err: err}
	}

	slog.Debug("Zoom reset on chart", "group", group, "chart", chartID)
	c.syncMetrics.RecordReset(ctx, group, "chart")
	return nil
}

// applyAll updates each handle once, isolating failures
func (c *defaultCoordinator) applyAll(
	ctx context.Context,
	report *Report,
	handles []chart.Handle,
	rangeFor func(chart.Handle) (chart.Range, bool),
) {
	for _, h := range handles {
		id := h.ID()
		r, ok := rangeFor(h)
		if !ok {
			continue
		}

		if err := c.apply(h, r); err != nil {
			slog.Warn("Chart failed to apply synchronized range",
				"group", report.Group,
				"chart", id,
				"range", r.String(),
				"error", err)
			c.syncMetrics.RecordHandleFailure(ctx, report.Group, id)
			report.Failures = append(report.Failures, HandleError{ChartID: id, Err: err})
			continue
		}
		report.Applied = append(report.Applied, id)
	}
}

// apply calls SetVisibleRange while marking the chart as receiving a range,
// converting panics into errors
func (c *defaultCoordinator) apply(h chart.Handle, r chart.Range) (err error) {
	id := h.ID()
	c.markApplying(id, 1)
	defer c.markApplying(id, -1)

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", errHandlePanic, p)
		}
	}()

	return h.SetVisibleRange(r)
}

func (c *defaultCoordinator) markApplying(id string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.applying[id] += delta
	if c.applying[id] <= 0 {
		delete(c.applying, id)
	}
}

func (c *defaultCoordinator) isApplying(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applying[id] > 0
}

// annotate records the report on the span
func (*defaultCoordinator) annotate(span trace.Span, report *Report) {
	failures := make([]otel.ChartFailure, len(report.Failures))
	for i, f := range report.Failures {
		failures[i] = otel.ChartFailure{Chart: f.ChartID, Err: f.Err}
	}
	otel.EndBatch(span, string(report.Outcome), len(report.Applied)+len(report.Failures), failures)
}
