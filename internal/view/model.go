// Package view is a terminal dashboard showing one sync group's charts as
// sparklines. Zooming and panning the focused chart goes through its adapter,
// so the group's coordinator propagates it like any other interaction.
package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tvmdash/chartsync/internal/app"
	"github.com/tvmdash/chartsync/internal/chart"
	"github.com/tvmdash/chartsync/internal/syncgroup"
	"github.com/tvmdash/chartsync/internal/syncgroup/coordinator"
)

const (
	// zoomFactor is the width ratio applied by one zoom-in step
	zoomFactor = 0.5
	// panFraction is the share of the visible width moved by one pan step
	panFraction = 0.25
	// minZoomWidth stops zooming in once the window gets this narrow
	minZoomWidth = 1e-9
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	focusedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1)
	blurredStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	rangeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// RangeFormatter renders a visible range for display
type RangeFormatter func(r chart.Range) string

// Option configures a Model
type Option func(*Model)

// WithRangeFormatter sets how visible ranges are displayed
func WithRangeFormatter(f RangeFormatter) Option {
	return func(m *Model) {
		m.formatRange = f
	}
}

// Model is the bubbletea model of the dashboard
type Model struct {
	ctx         context.Context
	group       *app.Group
	lines       *Sparklines
	formatRange RangeFormatter

	focus  int
	status string
	err    error
}

// New creates a model for group. lines must be the collection whose factory
// built the group's renderers.
func New(ctx context.Context, group *app.Group, lines *Sparklines, opts ...Option) *Model {
	m := &Model{
		ctx:         ctx,
		group:       group,
		lines:       lines,
		formatRange: func(r chart.Range) string { return r.String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Leave room for the border and padding.
		m.lines.SetWidth(max(msg.Width-6, 10))
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.cycleFocus(1)
	case "shift+tab":
		m.cycleFocus(-1)
	case "+", "=":
		m.zoom(zoomFactor)
	case "-", "_":
		m.zoom(1 / zoomFactor)
	case "left", "h":
		m.pan(-panFraction)
	case "right", "l":
		m.pan(panFraction)
	case "s":
		m.toggleSync()
	case "p":
		m.togglePointer()
	case "r":
		report := m.group.Coordinator().ResetAll(m.ctx)
		m.status = fmt.Sprintf("reset %d charts", len(report.Applied))
		m.setFailures(report.Failures)
	case "c":
		m.resetFocused()
	}
	return m, nil
}

func (m *Model) cycleFocus(step int) {
	n := len(m.group.Panels())
	if n == 0 {
		return
	}
	m.focus = (m.focus + step + n) % n
}

func (m *Model) focused() (*app.Panel, bool) {
	panels := m.group.Panels()
	if len(panels) == 0 {
		return nil, false
	}
	return panels[m.focus], true
}

// zoom scales the focused chart's visible width around its center
func (m *Model) zoom(factor float64) {
	p, ok := m.focused()
	if !ok {
		return
	}
	full, ok := p.Adapter.FullRange()
	if !ok {
		m.status = p.Title + " has no data"
		return
	}

	visible := p.Adapter.VisibleRange()
	half := visible.Width() * factor / 2
	if half*2 < minZoomWidth {
		return
	}
	center := visible.Min + visible.Width()/2
	next := chart.Range{Min: center - half, Max: center + half}.Clamp(full)
	m.apply(p, next, chart.EventDrag)
}

// pan shifts the focused chart's window by a fraction of its width. A pan
// ends with a pointer release, so it is subject to the pointer filter.
func (m *Model) pan(fraction float64) {
	p, ok := m.focused()
	if !ok {
		return
	}
	full, ok := p.Adapter.FullRange()
	if !ok {
		m.status = p.Title + " has no data"
		return
	}

	visible := p.Adapter.VisibleRange()
	delta := visible.Width() * fraction
	next := chart.Range{Min: visible.Min + delta, Max: visible.Max + delta}.Clamp(full)
	m.apply(p, next, chart.EventPointerUp)
}

func (m *Model) apply(p *app.Panel, r chart.Range, kind chart.EventKind) {
	m.group.TakeReport()
	if err := p.Adapter.Zoom(r, kind); err != nil {
		m.err = err
		return
	}

	report, ok := m.group.TakeReport()
	if !ok {
		m.status = fmt.Sprintf("%s zoomed locally", p.Title)
		return
	}
	m.status = fmt.Sprintf("%s: %s, %d synchronized", p.Title, report.Outcome, len(report.Applied))
	m.setFailures(report.Failures)
}

func (m *Model) toggleSync() {
	registry := m.group.Registry()
	registry.SetEnabled(!registry.IsEnabled())
	m.status = "mode " + string(registry.Mode())
}

func (m *Model) togglePointer() {
	registry := m.group.Registry()
	opts := syncgroup.FilterOptions{
		PointerEvents: !registry.Allows(chart.EventPointerUp),
		DragLifecycle: registry.Allows(chart.EventDragEnd),
	}
	registry.SetFilter(syncgroup.NewEventFilter(opts))
	m.status = "pointer propagation " + onOff(opts.PointerEvents)
}

func (m *Model) resetFocused() {
	p, ok := m.focused()
	if !ok {
		return
	}
	err := m.group.Coordinator().ResetChart(m.ctx, p.ID)
	if errors.Is(err, coordinator.ErrUnknownChart) {
		// Unregistered charts are still reset on their own.
		err = p.Adapter.ResetZoom()
	}
	if err != nil {
		m.err = err
		return
	}
	m.status = "reset " + p.Title
}

func (m *Model) setFailures(failures []coordinator.HandleError) {
	if len(failures) == 0 {
		return
	}
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	m.err = errors.Join(errs...)
	slog.Warn("Charts failed to synchronize", "group", m.group.Key(), "error", m.err)
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	registry := m.group.Registry()
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s [%s]", m.group.Key(), registry.Mode())))
	b.WriteString("  ")
	b.WriteString(helpStyle.Render("pointer " + onOff(registry.Allows(chart.EventPointerUp))))
	b.WriteString("\n")

	for i, p := range m.group.Panels() {
		style := blurredStyle
		if i == m.focus {
			style = focusedStyle
		}

		title := p.Title
		if !registry.Has(p.ID) {
			title += " (detached)"
		}

		var line string
		if l, ok := m.lines.Get(m.group.Key(), p.ID); ok {
			line = l.String()
		}
		visible := rangeStyle.Render(m.formatRange(p.Adapter.VisibleRange()))
		b.WriteString(style.Render(title + "\n" + line + "\n" + visible))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab focus  +/- zoom  ←/→ pan  s sync  p pointer  r reset  c reset chart  q quit"))
	return b.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
