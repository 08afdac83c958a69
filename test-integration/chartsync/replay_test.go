package integration

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tvmdash/chartsync/examples"
	"github.com/tvmdash/chartsync/internal/app"
	"github.com/tvmdash/chartsync/internal/config"
	"github.com/tvmdash/chartsync/internal/replay"
	"github.com/tvmdash/chartsync/internal/syncgroup"
)

var _ = Describe("Replay Scripts", Label("replay"), func() {
	It("should replay the TVM example against the TVM example configuration", func() {
		data, err := examples.ConfigFS.ReadFile("config-tvm.yaml")
		Expect(err).NotTo(HaveOccurred())
		cfg, err := config.Parse(data)
		Expect(err).NotTo(HaveOccurred())

		scriptData, err := examples.ReplayFS.ReadFile("replay-tvm.yaml")
		Expect(err).NotTo(HaveOccurred())
		script, err := replay.ParseScript(scriptData)
		Expect(err).NotTo(HaveOccurred())

		dash, err := app.NewDashboardApp(ctx, app.WithConfig(cfg))
		Expect(err).NotTo(HaveOccurred())
		defer dash.Close()

		group, ok := dash.Group(script.Group)
		Expect(ok).To(BeTrue())

		results, err := replay.Run(ctx, script, group)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(script.Steps)))

		outcomes := make([]string, len(results))
		for i, res := range results {
			outcomes[i] = res.Outcome
		}
		Expect(outcomes).To(Equal([]string{
			"propagated", "propagated", "filter", "filtered",
			"independent", "disabled", "reset", "synced", "reset",
		}))

		last := results[len(results)-1]
		Expect(last.Mode).To(Equal(syncgroup.ModeSynced))
		for _, id := range group.ChartIDs() {
			a, _ := group.Chart(id)
			full, _ := a.FullRange()
			Expect(last.Ranges[id]).To(Equal(full), "chart %s", id)
		}

		var out bytes.Buffer
		Expect(replay.Render(&out, results, group.ChartIDs(), nil)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("chart1"))
	})

	It("should stop at a step naming an unknown chart", func() {
		tempDir := createTempDir("replay-test-")
		defer cleanupTempDir(tempDir)

		scriptPath := filepath.Join(tempDir, "script.yaml")
		Expect(os.WriteFile(scriptPath, []byte("steps:\n  - action: reset\n  - action: unregister\n    chart: ghost\n"), 0600)).To(Succeed())

		data, err := examples.ConfigFS.ReadFile("config-tvm.yaml")
		Expect(err).NotTo(HaveOccurred())
		cfg, err := config.Parse(data)
		Expect(err).NotTo(HaveOccurred())

		dash, err := app.NewDashboardApp(ctx, app.WithConfig(cfg))
		Expect(err).NotTo(HaveOccurred())
		defer dash.Close()

		script, err := replay.LoadScript(scriptPath)
		Expect(err).NotTo(HaveOccurred())

		group, _ := dash.Group("tvm-sync")
		results, err := replay.Run(ctx, script, group)
		Expect(err).To(MatchError(ContainSubstring("ghost")))
		Expect(results).To(HaveLen(1))
	})
})
