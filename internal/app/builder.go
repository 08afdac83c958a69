package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/tvmdash/chartsync/internal/chart"
	"github.com/tvmdash/chartsync/internal/config"
	"github.com/tvmdash/chartsync/internal/dataset"
	"github.com/tvmdash/chartsync/internal/syncgroup"
	"github.com/tvmdash/chartsync/internal/syncgroup/coordinator"
	"github.com/tvmdash/chartsync/internal/telemetry"
)

// RendererFactory creates the renderer drawing one chart. A nil renderer
// leaves the chart headless.
type RendererFactory func(groupKey, chartID string, series dataset.Series) chart.Renderer

// SeriesLoader loads the series of every chart
type SeriesLoader func(ctx context.Context, sources []dataset.NamedSource) ([]dataset.Series, error)

// DashboardAppOptions is a function that configures the dashboard app builder
type DashboardAppOptions func(*dashboardAppConfig) error

// dashboardAppConfig holds the builder state. It supports dependency
// injection for testing while providing sensible defaults for production.
type dashboardAppConfig struct {
	config *config.Config

	// Optional component overrides
	rendererFactory RendererFactory
	seriesLoader    SeriesLoader
	idGenerator     func() string

	// Telemetry components
	meterProvider metric.MeterProvider
	tracer        trace.Tracer
}

func baseConfig(opts ...DashboardAppOptions) (*dashboardAppConfig, error) {
	cfg := &dashboardAppConfig{
		seriesLoader: dataset.LoadAll,
		idGenerator:  uuid.NewString,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// NewDashboardApp builds every configured group
func NewDashboardApp(
	ctx context.Context,
	opts ...DashboardAppOptions,
) (*DashboardApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	coordOpts, err := buildCoordinatorOptions(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build coordinator options: %w", err)
	}

	// Assign ids before loading so that generated ids name the series too
	ids := assignChartIDs(cfg)

	series, err := loadSeries(ctx, cfg, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart data: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)
	app := &DashboardApp{
		config:     cfg.config,
		byKey:      make(map[string]*Group, len(cfg.config.Groups)),
		cancelFunc: cancel,
	}

	for gi := range cfg.config.Groups {
		gc := &cfg.config.Groups[gi]
		group, err := buildGroup(appCtx, cfg, gc, ids[gi], series[gi], coordOpts)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to build group %s: %w", gc.Key, err)
		}
		app.groups = append(app.groups, group)
		app.byKey[gc.Key] = group
	}

	slog.Info("Dashboard initialized",
		"dashboard", cfg.config.GetName(),
		"groups", len(app.groups))

	return app, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) DashboardAppOptions {
	return func(cfg *dashboardAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithRendererFactory sets the factory creating each chart's renderer
func WithRendererFactory(f RendererFactory) DashboardAppOptions {
	return func(cfg *dashboardAppConfig) error {
		cfg.rendererFactory = f
		return nil
	}
}

// WithSeriesLoader allows injecting a custom series loader (for testing)
func WithSeriesLoader(l SeriesLoader) DashboardAppOptions {
	return func(cfg *dashboardAppConfig) error {
		if l == nil {
			return fmt.Errorf("series loader cannot be nil")
		}
		cfg.seriesLoader = l
		return nil
	}
}

// WithIDGenerator sets the generator used for charts configured without an id
func WithIDGenerator(gen func() string) DashboardAppOptions {
	return func(cfg *dashboardAppConfig) error {
		if gen == nil {
			return fmt.Errorf("id generator cannot be nil")
		}
		cfg.idGenerator = gen
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for sync metrics
func WithMeterProvider(mp metric.MeterProvider) DashboardAppOptions {
	return func(cfg *dashboardAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithTracer sets the tracer used by every coordinator
func WithTracer(tracer trace.Tracer) DashboardAppOptions {
	return func(cfg *dashboardAppConfig) error {
		cfg.tracer = tracer
		return nil
	}
}

// buildCoordinatorOptions creates the options shared by every coordinator
func buildCoordinatorOptions(b *dashboardAppConfig) ([]coordinator.Option, error) {
	var coordOpts []coordinator.Option

	if b.meterProvider != nil {
		syncMetrics, err := telemetry.NewSyncMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create sync metrics: %w", err)
		}
		if syncMetrics != nil {
			coordOpts = append(coordOpts, coordinator.WithSyncMetrics(syncMetrics))
			slog.Info("Sync metrics enabled")
		}
	}

	if b.tracer != nil {
		coordOpts = append(coordOpts, coordinator.WithTracer(b.tracer))
	}

	return coordOpts, nil
}

// assignChartIDs returns the chart ids of every group, generating the
// missing ones
func assignChartIDs(b *dashboardAppConfig) [][]string {
	ids := make([][]string, len(b.config.Groups))
	for gi, gc := range b.config.Groups {
		ids[gi] = make([]string, len(gc.Charts))
		for ci, cc := range gc.Charts {
			id := cc.ID
			if id == "" {
				id = b.idGenerator()
			}
			ids[gi][ci] = id
		}
	}
	return ids
}

// loadSeries loads every chart of every group in one batch and splits the
// result back per group
func loadSeries(ctx context.Context, b *dashboardAppConfig, ids [][]string) ([][]dataset.Series, error) {
	var sources []dataset.NamedSource
	for gi, gc := range b.config.Groups {
		for ci, cc := range gc.Charts {
			sources = append(sources, dataset.NamedSource{Name: ids[gi][ci], Source: cc.Source})
		}
	}

	flat, err := b.seriesLoader(ctx, sources)
	if err != nil {
		return nil, err
	}
	if len(flat) != len(sources) {
		return nil, fmt.Errorf("loader returned %d series for %d charts", len(flat), len(sources))
	}

	out := make([][]dataset.Series, len(b.config.Groups))
	offset := 0
	for gi, gc := range b.config.Groups {
		out[gi] = flat[offset : offset+len(gc.Charts)]
		offset += len(gc.Charts)
	}
	return out, nil
}

// buildGroup creates the registry, coordinator and adapters of one group
func buildGroup(
	ctx context.Context,
	b *dashboardAppConfig,
	gc *config.GroupConfig,
	ids []string,
	series []dataset.Series,
	coordOpts []coordinator.Option,
) (*Group, error) {
	registry := syncgroup.NewRegistry(gc.Key,
		syncgroup.WithEnabled(gc.IsEnabled()),
		syncgroup.WithFilter(gc.EventFilter()),
	)

	group := &Group{
		ctx:         ctx,
		registry:    registry,
		coordinator: coordinator.New(registry, coordOpts...),
		byID:        make(map[string]*Panel, len(gc.Charts)),
		unregister:  make(map[string]syncgroup.UnregisterFunc, len(gc.Charts)),
	}

	for ci, cc := range gc.Charts {
		id := ids[ci]
		s := series[ci]
		s.Sort()

		var renderer chart.Renderer
		if b.rendererFactory != nil {
			renderer = b.rendererFactory(gc.Key, id, s)
		}

		adapter := chart.NewAdapter(id, renderer, chart.WithZoomFunc(group.notify))
		if err := adapter.SetData(s.Domain()); err != nil {
			group.close()
			return nil, err
		}

		title := cc.Title
		if title == "" {
			title = id
		}
		panel := &Panel{
			ID:      id,
			Title:   title,
			Source:  cc.Source,
			Series:  s,
			Adapter: adapter,
		}
		group.panels = append(group.panels, panel)
		group.byID[id] = panel
		group.unregister[id] = registry.Register(adapter)

		if _, ok := adapter.FullRange(); !ok {
			slog.Warn("Chart has no data, reset will skip it", "group", gc.Key, "chart", id)
		}
	}

	slog.Info("Sync group initialized",
		"group", gc.Key,
		"charts", len(group.panels),
		"mode", registry.Mode())

	return group, nil
}
