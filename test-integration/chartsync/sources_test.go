package integration

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/tvmdash/chartsync/internal/app"
	"github.com/tvmdash/chartsync/internal/chart"
	"github.com/tvmdash/chartsync/internal/config"
	"github.com/tvmdash/chartsync/internal/dataset"
	"github.com/tvmdash/chartsync/test-integration/chartsync/helpers"
)

var _ = Describe("File Sources", Label("sources"), func() {
	var tempDir string

	BeforeEach(func() {
		tempDir = createTempDir("sources-test-")
	})

	AfterEach(func() {
		cleanupTempDir(tempDir)
	})

	It("should synchronize charts loaded from CSV, Excel and generated data", func() {
		const start = 1200 * 3600

		_, err := helpers.WriteTVMCSV(tempDir, "tvm.csv", start, 48)
		Expect(err).NotTo(HaveOccurred())
		_, err = helpers.WriteTVMWorkbook(tempDir, "tvm.xlsx", "Readings", start, 24)
		Expect(err).NotTo(HaveOccurred())

		// Relative paths resolve against the configuration file.
		configFile, err := helpers.WriteConfigYAML(tempDir, "recorded", []helpers.ChartSpec{
			{ID: "csv", Source: "type: csv\npath: tvm.csv\nx: flightHours\ny: amplitude"},
			{ID: "excel", Source: "type: excel\npath: tvm.xlsx\nsheet: Readings\nx: flightHours\ny: amplitude"},
			{ID: "generated", Source: "type: sample\nsample: {count: 48, seed: 3, axis: flightHours}"},
		})
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.LoadConfig(config.WithConfigPath(configFile))
		Expect(err).NotTo(HaveOccurred())

		dash, err := app.NewDashboardApp(ctx, app.WithConfig(cfg))
		Expect(err).NotTo(HaveOccurred())
		defer dash.Close()

		group, _ := dash.Group("recorded")
		csvPanel, _ := group.Panel("csv")
		excelPanel, _ := group.Panel("excel")
		Expect(csvPanel.Series.Len()).To(Equal(48))
		Expect(excelPanel.Series.Len()).To(Equal(24))

		full, ok := excelPanel.Adapter.FullRange()
		Expect(ok).To(BeTrue())
		Expect(full).To(Equal(chart.Range{Min: start, Max: start + 23*3600}))

		r := chart.Range{Min: start + 10*3600, Max: start + 20*3600}
		Expect(csvPanel.Adapter.Zoom(r, chart.EventDrag)).To(Succeed())
		for _, id := range []string{"excel", "generated"} {
			a, _ := group.Chart(id)
			Expect(a.VisibleRange()).To(Equal(r), "chart %s", id)
		}
		Expect(excelPanel.Series.Window(r)).To(HaveLen(11))
	})

	It("should chart a bank statement workbook as expenses and balance", func() {
		_, err := helpers.WriteStatementWorkbook(tempDir, "conto.xlsx")
		Expect(err).NotTo(HaveOccurred())

		configFile, err := helpers.WriteConfigYAML(tempDir, "bank", []helpers.ChartSpec{
			{ID: "spese", Source: "type: statement\npath: conto.xlsx\nview: expenses"},
			{ID: "saldo", Source: "type: statement\npath: conto.xlsx\nview: balance"},
		})
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.LoadConfig(config.WithConfigPath(configFile))
		Expect(err).NotTo(HaveOccurred())

		dash, err := app.NewDashboardApp(ctx, app.WithConfig(cfg))
		Expect(err).NotTo(HaveOccurred())
		defer dash.Close()

		group, _ := dash.Group("bank")
		spese, _ := group.Panel("spese")
		saldo, _ := group.Panel("saldo")
		Expect(spese.Series.Len()).To(Equal(3))
		Expect(saldo.Series.Len()).To(Equal(4))
		Expect(saldo.Series.Points[3].Y).To(BeNumerically("~", 1200, 1e-9))

		jan10 := float64(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC).Unix())
		jan20 := float64(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC).Unix())
		Expect(spese.Adapter.Zoom(chart.Range{Min: jan10, Max: jan20}, chart.EventDrag)).To(Succeed())
		Expect(saldo.Adapter.VisibleRange()).To(Equal(chart.Range{Min: jan10, Max: jan20}))

		st, err := dataset.LoadStatement(spese.Source.Path, "", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(st.HeaderRow).To(Equal(3))
		Expect(st.Summarize(decimal.NewFromInt(100)).Remaining.String()).To(Equal("1100"))
	})
})
