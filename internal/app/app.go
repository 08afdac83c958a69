// Package app wires configured sync groups into a running dashboard: it loads
// every chart's series, builds one registry and coordinator per group and
// registers a chart adapter for each configured chart.
package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tvmdash/chartsync/internal/config"
)

// DashboardApp encapsulates the sync groups built from one configuration
type DashboardApp struct {
	config *config.Config
	groups []*Group
	byKey  map[string]*Group

	// Lifecycle management
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// Group returns the group with the given key
func (app *DashboardApp) Group(key string) (*Group, bool) {
	g, ok := app.byKey[key]
	return g, ok
}

// Groups returns every group in configuration order
func (app *DashboardApp) Groups() []*Group {
	return app.groups
}

// GetConfig returns the application configuration
func (app *DashboardApp) GetConfig() *config.Config {
	return app.config
}

// Close unregisters every chart from its group. It is safe to call more than
// once.
func (app *DashboardApp) Close() {
	app.closeOnce.Do(func() {
		for _, g := range app.groups {
			g.close()
		}
		if app.cancelFunc != nil {
			app.cancelFunc()
		}
		slog.Info("Dashboard closed", "dashboard", app.config.GetName())
	})
}
