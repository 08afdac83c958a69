// Package config provides configuration loading for chartsync dashboards.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tvmdash/chartsync/internal/dataset"
	"github.com/tvmdash/chartsync/internal/syncgroup"
	"github.com/tvmdash/chartsync/internal/telemetry"
)

const (
	// DefaultDashboardName is used when the configuration does not name the dashboard
	DefaultDashboardName = "chartsync"

	// EnvPrefix is the prefix of environment variables read by the CLI
	EnvPrefix = "CHARTSYNC"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		// Validate the path to prevent path traversal attacks
		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// Name identifies the dashboard in logs and telemetry
	// Defaults to "chartsync" if not specified
	Name string `yaml:"name,omitempty"`

	// Groups lists the sync groups and their charts
	Groups []GroupConfig `yaml:"groups"`

	// Telemetry configures tracing and metrics
	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// GroupConfig defines one sync group
type GroupConfig struct {
	// Key is the group identifier shared by all its charts
	Key string `yaml:"key"`

	// Enabled sets the initial sync state. Defaults to true.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Filter selects which event kinds propagate. Every kind propagates
	// when omitted.
	Filter *FilterConfig `yaml:"filter,omitempty"`

	// Charts are the members of the group
	Charts []ChartConfig `yaml:"charts"`
}

// FilterConfig selects which event kinds propagate. Omitted fields default
// to true.
type FilterConfig struct {
	// PointerEvents propagates pointer-down and pointer-up notifications
	PointerEvents *bool `yaml:"pointerEvents,omitempty"`

	// DragLifecycle propagates drag-start and drag-end notifications
	DragLifecycle *bool `yaml:"dragLifecycle,omitempty"`
}

// Options converts the configuration into filter options
func (f *FilterConfig) Options() syncgroup.FilterOptions {
	opts := syncgroup.DefaultFilterOptions()
	if f == nil {
		return opts
	}
	if f.PointerEvents != nil {
		opts.PointerEvents = *f.PointerEvents
	}
	if f.DragLifecycle != nil {
		opts.DragLifecycle = *f.DragLifecycle
	}
	return opts
}

// ChartConfig defines one chart and the series it plots
type ChartConfig struct {
	// ID identifies the chart inside its group. A random id is assigned
	// when empty.
	ID string `yaml:"id,omitempty"`

	// Title is a human readable label
	Title string `yaml:"title,omitempty"`

	// Source describes where the chart's data comes from
	Source dataset.Source `yaml:"source"`
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, err
	}

	config.resolvePaths(filepath.Dir(loaderCfg.path))
	return config, nil
}

// Parse parses and validates configuration from YAML bytes. Relative source
// paths are left untouched.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// GetName returns the dashboard name, using "chartsync" if not specified
func (c *Config) GetName() string {
	if c.Name == "" {
		return DefaultDashboardName
	}
	return c.Name
}

// Group returns the group with the given key
func (c *Config) Group(key string) (*GroupConfig, bool) {
	for i := range c.Groups {
		if c.Groups[i].Key == key {
			return &c.Groups[i], true
		}
	}
	return nil, false
}

// IsEnabled returns the initial sync state of the group
func (g *GroupConfig) IsEnabled() bool {
	return g.Enabled == nil || *g.Enabled
}

// EventFilter returns the filter configured for the group
func (g *GroupConfig) EventFilter() syncgroup.EventFilter {
	if g.Filter == nil {
		return syncgroup.AllowAll
	}
	return syncgroup.NewEventFilter(g.Filter.Options())
}

// Label returns the chart title, falling back to its id
func (c *ChartConfig) Label() string {
	if c.Title != "" {
		return c.Title
	}
	return c.ID
}

// resolvePaths makes relative source paths relative to the config file
func (c *Config) resolvePaths(baseDir string) {
	for gi := range c.Groups {
		for ci := range c.Groups[gi].Charts {
			src := &c.Groups[gi].Charts[ci].Source
			if src.Path != "" && !filepath.IsAbs(src.Path) {
				src.Path = filepath.Join(baseDir, src.Path)
			}
		}
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if len(c.Groups) == 0 {
		return fmt.Errorf("at least one group must be configured")
	}

	groupKeys := make(map[string]bool)
	for i := range c.Groups {
		group := &c.Groups[i]
		if group.Key == "" {
			return fmt.Errorf("group[%d]: key is required", i)
		}

		if groupKeys[group.Key] {
			return fmt.Errorf("group[%d]: duplicate group key '%s'", i, group.Key)
		}
		groupKeys[group.Key] = true

		if err := validateGroupConfig(group, i); err != nil {
			return err
		}
	}

	if c.Telemetry != nil {
		if err := c.Telemetry.Validate(); err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
	}

	return nil
}

// validateGroupConfig validates a single group configuration
func validateGroupConfig(group *GroupConfig, index int) error {
	prefix := fmt.Sprintf("group[%d] (%s)", index, group.Key)

	if len(group.Charts) == 0 {
		return fmt.Errorf("%s: at least one chart must be configured", prefix)
	}

	// Duplicate ids would silently replace each other at registration time.
	chartIDs := make(map[string]bool)
	for i := range group.Charts {
		chart := &group.Charts[i]
		if chart.ID != "" {
			if chartIDs[chart.ID] {
				return fmt.Errorf("%s: chart[%d]: duplicate chart id '%s'", prefix, i, chart.ID)
			}
			chartIDs[chart.ID] = true
		}

		if err := chart.Source.Validate(); err != nil {
			return fmt.Errorf("%s: chart[%d]: %w", prefix, i, err)
		}
	}

	return nil
}
