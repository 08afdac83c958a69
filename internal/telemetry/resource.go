package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Resource attributes describing the dashboard a chartsync process runs
const (
	AttrDashboardName   = attribute.Key("chartsync.dashboard.name")
	AttrDashboardGroups = attribute.Key("chartsync.dashboard.groups")
	AttrDashboardCharts = attribute.Key("chartsync.dashboard.charts")
)

// DashboardInfo identifies the dashboard reported by traces and metrics
type DashboardInfo struct {
	Name   string
	Groups int
	Charts int
}

func (d *DashboardInfo) attributes() []attribute.KeyValue {
	if d == nil {
		return nil
	}
	attrs := []attribute.KeyValue{
		AttrDashboardGroups.Int(d.Groups),
		AttrDashboardCharts.Int(d.Charts),
	}
	if d.Name != "" {
		attrs = append(attrs, AttrDashboardName.String(d.Name))
	}
	return attrs
}

// NewResource builds the resource shared by the tracer and meter providers.
// A nil dashboard leaves the dashboard attributes out.
func NewResource(ctx context.Context, serviceName, serviceVersion string, dash *DashboardInfo) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	}
	attrs = append(attrs, dash.attributes()...)

	// resource.New rather than resource.Merge with resource.Default keeps
	// the schema URL from conflicting.
	res, err := resource.New(ctx,
		resource.WithAttributes(attrs...),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
