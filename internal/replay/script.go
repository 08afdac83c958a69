// Package replay drives a sync group through a scripted sequence of user
// interactions and records the visible range of every chart after each step.
//
// Scripts are YAML documents:
//
//	group: tvm-sync
//	steps:
//	  - action: zoom
//	    chart: chart1
//	    fraction: {from: 0.25, to: 0.5}
//	  - action: toggle
//	    enabled: false
//	  - action: reset
//
// Zoom steps go through the chart's own Adapter.Zoom so the same emission
// path as a real drag-select is exercised.
package replay

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tvmdash/chartsync/internal/chart"
)

// Action is the kind of a script step
type Action string

const (
	// ActionZoom selects a range on one chart
	ActionZoom Action = "zoom"
	// ActionToggle switches the group between synced and independent mode
	ActionToggle Action = "toggle"
	// ActionFilter replaces the group's event filter
	ActionFilter Action = "filter"
	// ActionReset restores every chart to its full range
	ActionReset Action = "reset"
	// ActionResetChart restores one chart to its full range
	ActionResetChart Action = "reset-chart"
	// ActionUnregister removes one chart from the group
	ActionUnregister Action = "unregister"
)

// Fraction selects a range as fractions of a chart's full range
type Fraction struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
}

// Script is a sequence of interactions against one group
type Script struct {
	Group string `yaml:"group"`
	Steps []Step `yaml:"steps"`
}

// Step is one scripted interaction
type Step struct {
	Action Action `yaml:"action"`
	Chart  string `yaml:"chart,omitempty"`

	// Zoom range, either absolute or as a fraction of the chart's full range
	Min      *float64  `yaml:"min,omitempty"`
	Max      *float64  `yaml:"max,omitempty"`
	Fraction *Fraction `yaml:"fraction,omitempty"`
	Event    string    `yaml:"event,omitempty"`

	// Toggle target. A toggle without it flips the current mode.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Filter settings. Omitted fields default to true.
	PointerEvents *bool `yaml:"pointerEvents,omitempty"`
	DragLifecycle *bool `yaml:"dragLifecycle,omitempty"`
}

// String renders a short description of the step
func (s Step) String() string {
	switch s.Action {
	case ActionZoom:
		kind := s.Event
		if kind == "" {
			kind = string(chart.EventDrag)
		}
		switch {
		case s.Fraction != nil:
			return fmt.Sprintf("zoom %s %.0f%%-%.0f%% (%s)", s.Chart, s.Fraction.From*100, s.Fraction.To*100, kind)
		case s.Min != nil && s.Max != nil:
			return fmt.Sprintf("zoom %s [%g, %g] (%s)", s.Chart, *s.Min, *s.Max, kind)
		default:
			return fmt.Sprintf("zoom %s", s.Chart)
		}
	case ActionToggle:
		if s.Enabled == nil {
			return "toggle sync"
		}
		return fmt.Sprintf("toggle sync enabled=%t", *s.Enabled)
	case ActionFilter:
		return fmt.Sprintf("filter pointer=%t drag-lifecycle=%t",
			boolOr(s.PointerEvents, true), boolOr(s.DragLifecycle, true))
	case ActionResetChart, ActionUnregister:
		return fmt.Sprintf("%s %s", s.Action, s.Chart)
	default:
		return string(s.Action)
	}
}

// Validate checks that every step carries the fields its action needs
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("script has no steps")
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("step[%d] (%s): %w", i, step.Action, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	switch s.Action {
	case ActionZoom:
		if s.Chart == "" {
			return fmt.Errorf("chart is required")
		}
		if s.Fraction != nil && (s.Min != nil || s.Max != nil) {
			return fmt.Errorf("fraction and min/max are mutually exclusive")
		}
		if s.Fraction == nil && (s.Min == nil || s.Max == nil) {
			return fmt.Errorf("either fraction or both min and max are required")
		}
		if _, err := chart.ParseEventKind(s.Event); err != nil {
			return err
		}
	case ActionResetChart, ActionUnregister:
		if s.Chart == "" {
			return fmt.Errorf("chart is required")
		}
	case ActionToggle, ActionFilter, ActionReset:
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}
	return nil
}

// ParseScript parses and validates a script
func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse replay script: %w", err)
	}
	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("invalid replay script: %w", err)
	}
	return &script, nil
}

// ReadScript parses a script from r
func ReadScript(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay script: %w", err)
	}
	return ParseScript(data)
}

// LoadScript parses the script at path
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read replay script: %w", err)
	}
	return ParseScript(data)
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
