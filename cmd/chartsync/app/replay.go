package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tvmdash/chartsync/internal/app"
	"github.com/tvmdash/chartsync/internal/config"
	"github.com/tvmdash/chartsync/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a scripted interaction against a sync group",
	Long: `Replay a YAML script of zoom, toggle, filter, reset and unregister steps
against one sync group and print the visible range of every chart after each
step. Zooms go through each chart's adapter, exactly as a user interaction.`,
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runReplay(cmd.Context(), cmd.OutOrStdout(), replayOptions{
			configPath: viper.GetString("config"),
			scriptPath: viper.GetString("script"),
			groupKey:   viper.GetString("group"),
			textfile:   viper.GetString("metrics-textfile"),
		})
	},
}

func init() {
	addConfigFlag(replayCmd)
	replayCmd.Flags().String("script", "", "Path to the replay script (YAML format, required)")
	replayCmd.Flags().String("group", "", "Group to replay against (defaults to the script's group)")
	replayCmd.Flags().String("metrics-textfile", "", "Write sync metrics to this Prometheus textfile on exit")
}

type replayOptions struct {
	configPath string
	scriptPath string
	groupKey   string
	textfile   string

	// appOpts are extra dashboard options, used by tests
	appOpts []app.DashboardAppOptions
}

func runReplay(ctx context.Context, w io.Writer, opts replayOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.scriptPath == "" {
		return fmt.Errorf("a replay script is required (--script or %s_SCRIPT)", config.EnvPrefix)
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	script, err := replay.LoadScript(opts.scriptPath)
	if err != nil {
		return err
	}
	groupCfg, err := scriptGroup(cfg, script, opts.groupKey)
	if err != nil {
		return err
	}

	dash, err := buildDashboard(ctx, cfg, opts.textfile, opts.appOpts...)
	if err != nil {
		return err
	}
	defer dash.Close(ctx)

	group, ok := dash.Group(groupCfg.Key)
	if !ok {
		return fmt.Errorf("group %q is not configured", groupCfg.Key)
	}

	slog.Info("Replaying script",
		"group", group.Key(),
		"script", opts.scriptPath,
		"steps", len(script.Steps))

	results, runErr := replay.Run(ctx, script, group)
	if err := replay.Render(w, results, group.ChartIDs(), replayFormatter(groupCfg)); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("replay stopped: %w", runErr)
	}
	return nil
}

// replayFormatter formats bounds with the axis of the group's first chart
func replayFormatter(group *config.GroupConfig) replay.RangeFormatter {
	if len(group.Charts) == 0 {
		return replay.DefaultRangeFormatter
	}
	return axisFormatter(group.Charts[0].Source)
}
