package app

import (
	"context"
	"sync"

	"github.com/tvmdash/chartsync/internal/chart"
	"github.com/tvmdash/chartsync/internal/dataset"
	"github.com/tvmdash/chartsync/internal/syncgroup"
	"github.com/tvmdash/chartsync/internal/syncgroup/coordinator"
)

// Panel is one configured chart: its adapter, title and loaded series
type Panel struct {
	ID      string
	Title   string
	Source  dataset.Source
	Series  dataset.Series
	Adapter *chart.Adapter
}

// Group is a sync group with its coordinator and the panels registered in it
type Group struct {
	ctx         context.Context
	registry    *syncgroup.Registry
	coordinator coordinator.Coordinator

	panels     []*Panel
	byID       map[string]*Panel
	unregister map[string]syncgroup.UnregisterFunc

	mu         sync.Mutex
	lastReport *coordinator.Report
}

// Key returns the group key
func (g *Group) Key() string {
	return g.registry.Key()
}

// Registry returns the group's registry
func (g *Group) Registry() *syncgroup.Registry {
	return g.registry
}

// Coordinator returns the group's coordinator
func (g *Group) Coordinator() coordinator.Coordinator {
	return g.coordinator
}

// Panels returns every configured panel in configuration order, including
// unregistered ones
func (g *Group) Panels() []*Panel {
	return g.panels
}

// Panel returns the panel with the given chart id
func (g *Group) Panel(id string) (*Panel, bool) {
	p, ok := g.byID[id]
	return p, ok
}

// Chart returns the adapter of the chart with the given id
func (g *Group) Chart(id string) (*chart.Adapter, bool) {
	p, ok := g.byID[id]
	if !ok {
		return nil, false
	}
	return p.Adapter, true
}

// ChartIDs lists every configured chart id in configuration order
func (g *Group) ChartIDs() []string {
	ids := make([]string, len(g.panels))
	for i, p := range g.panels {
		ids[i] = p.ID
	}
	return ids
}

// Unregister removes a chart from the group. The chart keeps its data and can
// still be zoomed locally. It reports false for an unknown chart.
func (g *Group) Unregister(id string) bool {
	g.mu.Lock()
	fn, ok := g.unregister[id]
	g.mu.Unlock()
	if ok {
		fn()
	}
	return ok
}

// TakeReport returns the report of the latest zoom notification emitted by
// one of the group's charts since the previous call
func (g *Group) TakeReport() (coordinator.Report, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lastReport == nil {
		return coordinator.Report{}, false
	}
	report := *g.lastReport
	g.lastReport = nil
	return report, true
}

// notify is the zoom emission target of every adapter in the group
func (g *Group) notify(id string, r chart.Range, kind chart.EventKind) {
	report := g.coordinator.NotifyZoom(g.ctx, id, r, kind)

	g.mu.Lock()
	g.lastReport = &report
	g.mu.Unlock()
}

func (g *Group) close() {
	g.mu.Lock()
	fns := make([]syncgroup.UnregisterFunc, 0, len(g.unregister))
	for _, fn := range g.unregister {
		fns = append(fns, fn)
	}
	g.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
