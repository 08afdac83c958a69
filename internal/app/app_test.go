package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvmdash/chartsync/internal/chart"
	"github.com/tvmdash/chartsync/internal/syncgroup/coordinator"
)

func newTestApp(t *testing.T) *DashboardApp {
	t.Helper()

	app, err := NewDashboardApp(context.Background(),
		WithConfig(createValidTestConfig()),
		WithSeriesLoader(fixedSeriesLoader([]float64{0, 1000}, []float64{0, 500})),
	)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func TestGroup_ZoomPropagation(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	tvm, _ := app.Group("tvm-sync")

	chart1, ok := tvm.Chart("chart1")
	require.True(t, ok)
	chart2, ok := tvm.Chart("chart2")
	require.True(t, ok)

	_, ok = tvm.TakeReport()
	assert.False(t, ok, "no notification yet")

	r := chart.Range{Min: 100, Max: 200}
	require.NoError(t, chart1.Zoom(r, chart.EventDrag))
	assert.Equal(t, r, chart2.VisibleRange())

	report, ok := tvm.TakeReport()
	require.True(t, ok)
	assert.Equal(t, coordinator.OutcomePropagated, report.Outcome)
	assert.Equal(t, "chart1", report.Source)

	_, ok = tvm.TakeReport()
	assert.False(t, ok, "report is cleared once taken")

	tvm.Registry().SetEnabled(false)
	require.NoError(t, chart1.Zoom(chart.Range{Min: 120, Max: 150}, chart.EventDrag))
	assert.Equal(t, r, chart2.VisibleRange())

	report = tvm.Coordinator().ResetAll(context.Background())
	assert.Len(t, report.Applied, 2)
	assert.Equal(t, chart.Range{Min: 0, Max: 1000}, chart1.VisibleRange())
	assert.Equal(t, chart.Range{Min: 0, Max: 500}, chart2.VisibleRange())
}

func TestGroup_Unregister(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	tvm, _ := app.Group("tvm-sync")

	assert.True(t, tvm.Unregister("chart2"))
	assert.True(t, tvm.Unregister("chart2"), "unregistering twice is harmless")
	assert.False(t, tvm.Unregister("chart9"))

	assert.Equal(t, []string{"chart1"}, tvm.Registry().IDs())
	// The panel is still configured.
	assert.Equal(t, []string{"chart1", "chart2"}, tvm.ChartIDs())

	chart1, _ := tvm.Chart("chart1")
	chart2, _ := tvm.Chart("chart2")
	require.NoError(t, chart1.Zoom(chart.Range{Min: 1, Max: 2}, chart.EventDrag))
	assert.Equal(t, chart.Range{Min: 0, Max: 500}, chart2.VisibleRange())

	// A detached chart no longer notifies the group.
	tvm.TakeReport()
	require.NoError(t, chart2.Zoom(chart.Range{Min: 3, Max: 4}, chart.EventDrag))
	_, ok := tvm.TakeReport()
	assert.False(t, ok)
	assert.Equal(t, chart.Range{Min: 1, Max: 2}, chart1.VisibleRange())
}

func TestDashboardApp_Close(t *testing.T) {
	t.Parallel()

	app, err := NewDashboardApp(context.Background(),
		WithConfig(createValidTestConfig()),
		WithSeriesLoader(fixedSeriesLoader([]float64{0, 1})),
	)
	require.NoError(t, err)

	app.Close()
	app.Close()

	for _, g := range app.Groups() {
		assert.Zero(t, g.Registry().Len(), "group %s", g.Key())
	}
}
