package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tvmdash/chartsync/internal/app"
	"github.com/tvmdash/chartsync/internal/view"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Run the terminal dashboard for one sync group",
	Long: `Run an interactive terminal dashboard showing every chart of a sync group
as a sparkline. Zoom and pan the focused chart and watch its siblings follow.

Keys: tab focus, +/- zoom, left/right pan, s toggle sync, p toggle pointer
propagation, r reset all, c reset the focused chart, q quit.`,
	PreRunE: bindFlags,
	RunE:    runView,
}

func init() {
	addConfigFlag(viewCmd)
	viewCmd.Flags().String("group", "", "Group to display (defaults to the first group)")
	viewCmd.Flags().String("log-file", "", "Write logs to this file while the dashboard runs")
	viewCmd.Flags().String("metrics-textfile", "", "Write sync metrics to this Prometheus textfile on exit")
}

func runView(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// The dashboard owns the terminal, so logs go to a file or nowhere.
	restore, err := redirectLogs(viper.GetString("log-file"))
	if err != nil {
		return err
	}
	defer restore()

	cfg, err := loadConfig(viper.GetString("config"))
	if err != nil {
		return err
	}

	groupKey := viper.GetString("group")
	if groupKey == "" {
		groupKey = cfg.Groups[0].Key
	}
	groupCfg, ok := cfg.Group(groupKey)
	if !ok {
		return fmt.Errorf("group %q is not configured", groupKey)
	}

	lines := view.NewSparklines(view.DefaultWidth)
	dash, err := buildDashboard(ctx, cfg, viper.GetString("metrics-textfile"),
		app.WithRendererFactory(lines.Factory()))
	if err != nil {
		return err
	}
	defer dash.Close(ctx)

	group, _ := dash.Group(groupKey)
	model := view.New(ctx, group, lines,
		view.WithRangeFormatter(chartRangeFormatter(replayFormatter(groupCfg))))

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}

// redirectLogs sends the default logger to path, or discards logs when path
// is empty. The returned function restores the previous logger.
func redirectLogs(path string) (func(), error) {
	previous := slog.Default()

	var (
		w       io.Writer = io.Discard
		closeFn           = func() {}
	)
	if path != "" {
		f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(w, nil)))
	return func() {
		slog.SetDefault(previous)
		closeFn()
	}, nil
}
