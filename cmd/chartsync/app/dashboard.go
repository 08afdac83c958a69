package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tvmdash/chartsync/internal/app"
	"github.com/tvmdash/chartsync/internal/config"
	"github.com/tvmdash/chartsync/internal/telemetry"
	"github.com/tvmdash/chartsync/internal/versions"
)

const tracerName = "github.com/tvmdash/chartsync"

// telemetryConfig returns the telemetry configuration for a run. A metrics
// textfile given on the command line switches metrics to the prometheus
// exporter writing there.
func telemetryConfig(cfg *config.Config, textfile string) *telemetry.Config {
	if textfile == "" {
		return cfg.Telemetry
	}

	tc := &telemetry.Config{}
	if cfg.Telemetry != nil {
		copied := *cfg.Telemetry
		tc = &copied
	}
	tc.Enabled = true
	tc.Metrics = &telemetry.MetricsConfig{
		Enabled:  true,
		Exporter: telemetry.MetricsExporterPrometheus,
		Textfile: textfile,
	}
	return tc
}

// dashboardInfo identifies cfg in telemetry resources
func dashboardInfo(cfg *config.Config) telemetry.DashboardInfo {
	info := telemetry.DashboardInfo{Name: cfg.GetName(), Groups: len(cfg.Groups)}
	for _, g := range cfg.Groups {
		info.Charts += len(g.Charts)
	}
	return info
}

// dashboard is a built dashboard together with its telemetry
type dashboard struct {
	*app.DashboardApp
	telemetry *telemetry.Telemetry
}

// Close closes the dashboard and flushes telemetry
func (d *dashboard) Close(ctx context.Context) {
	d.DashboardApp.Close()
	if err := d.telemetry.Shutdown(ctx); err != nil {
		slog.Error("Failed to shutdown telemetry", "error", err)
	}
}

// buildDashboard initializes telemetry and builds every configured group
func buildDashboard(
	ctx context.Context,
	cfg *config.Config,
	textfile string,
	opts ...app.DashboardAppOptions,
) (*dashboard, error) {
	tc := telemetryConfig(cfg, textfile)
	if tc != nil && tc.ServiceVersion == "" {
		withVersion := *tc
		withVersion.ServiceVersion = versions.GetVersionInfo().Version
		tc = &withVersion
	}

	tel, err := telemetry.New(ctx,
		telemetry.WithTelemetryConfig(tc),
		telemetry.WithDashboardInfo(dashboardInfo(cfg)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	appOpts := []app.DashboardAppOptions{
		app.WithConfig(cfg),
		app.WithMeterProvider(tel.MeterProvider()),
		app.WithTracer(tel.Tracer(tracerName)),
	}
	appOpts = append(appOpts, opts...)

	dash, err := app.NewDashboardApp(ctx, appOpts...)
	if err != nil {
		if shutdownErr := tel.Shutdown(ctx); shutdownErr != nil {
			slog.Error("Failed to shutdown telemetry", "error", shutdownErr)
		}
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	return &dashboard{DashboardApp: dash, telemetry: tel}, nil
}
