package integration

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tvmdash/chartsync/internal/app"
	"github.com/tvmdash/chartsync/internal/chart"
	"github.com/tvmdash/chartsync/internal/config"
	"github.com/tvmdash/chartsync/internal/syncgroup/coordinator"
	"github.com/tvmdash/chartsync/test-integration/chartsync/helpers"
)

var _ = Describe("Zoom Synchronization", Label("sync"), func() {
	var (
		tempDir string
		dash    *app.DashboardApp
		group   *app.Group
		chart1  *chart.Adapter
		chart2  *chart.Adapter
	)

	BeforeEach(func() {
		tempDir = createTempDir("sync-test-")

		configFile, err := helpers.WriteConfigYAML(tempDir, "tvm-sync", []helpers.ChartSpec{
			{ID: "chart1", Source: "type: sample\nsample: {count: 2000, seed: 1, axis: flightHours}"},
			{ID: "chart2", Source: "type: sample\nsample: {count: 1000, seed: 2, axis: flightHours}"},
		})
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.LoadConfig(config.WithConfigPath(configFile))
		Expect(err).NotTo(HaveOccurred())

		dash, err = app.NewDashboardApp(ctx, app.WithConfig(cfg))
		Expect(err).NotTo(HaveOccurred())

		var ok bool
		group, ok = dash.Group("tvm-sync")
		Expect(ok).To(BeTrue())
		chart1, _ = group.Chart("chart1")
		chart2, _ = group.Chart("chart2")
	})

	AfterEach(func() {
		dash.Close()
		cleanupTempDir(tempDir)
	})

	Context("Two charts in a synced group", func() {
		It("should mirror a zoom on either chart", func() {
			r := chart.Range{Min: 1300 * 3600, Max: 1400 * 3600}
			Expect(chart1.Zoom(r, chart.EventDrag)).To(Succeed())
			Expect(chart2.VisibleRange()).To(Equal(r))

			r2 := chart.Range{Min: 1250 * 3600, Max: 1260 * 3600}
			Expect(chart2.Zoom(r2, chart.EventDrag)).To(Succeed())
			Expect(chart1.VisibleRange()).To(Equal(r2))

			report, ok := group.TakeReport()
			Expect(ok).To(BeTrue())
			Expect(report.Outcome).To(Equal(coordinator.OutcomePropagated))
			Expect(report.Applied).To(ConsistOf("chart1"))
		})

		It("should leave siblings alone while disabled and reset everything", func() {
			group.Registry().SetEnabled(false)

			r := chart.Range{Min: 1300 * 3600, Max: 1400 * 3600}
			Expect(chart1.Zoom(r, chart.EventDrag)).To(Succeed())

			full2, ok := chart2.FullRange()
			Expect(ok).To(BeTrue())
			Expect(chart2.VisibleRange()).To(Equal(full2))

			report := group.Coordinator().ResetAll(ctx)
			Expect(report.Applied).To(HaveLen(2))
			full1, _ := chart1.FullRange()
			Expect(chart1.VisibleRange()).To(Equal(full1))
		})

		It("should stop propagating to a chart once it is unregistered", func() {
			Expect(group.Unregister("chart2")).To(BeTrue())

			full2 := chart2.VisibleRange()
			Expect(chart1.Zoom(chart.Range{Min: 1300 * 3600, Max: 1301 * 3600}, chart.EventDrag)).To(Succeed())
			Expect(chart2.VisibleRange()).To(Equal(full2))
		})
	})

	Context("Event filtering", func() {
		It("should honor the pointer filter while always propagating drags", func() {
			group.Registry().SetFilter(func(kind chart.EventKind) bool { return !kind.IsPointer() })

			before := chart2.VisibleRange()
			Expect(chart1.Zoom(chart.Range{Min: 1300 * 3600, Max: 1350 * 3600}, chart.EventPointerUp)).To(Succeed())
			Expect(chart2.VisibleRange()).To(Equal(before))

			r := chart.Range{Min: 1310 * 3600, Max: 1320 * 3600}
			Expect(chart1.Zoom(r, chart.EventDrag)).To(Succeed())
			Expect(chart2.VisibleRange()).To(Equal(r))
		})
	})
})
