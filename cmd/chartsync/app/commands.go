// Package app provides the commands of the chartsync CLI.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tvmdash/chartsync/internal/config"
	"github.com/tvmdash/chartsync/internal/versions"
)

var rootCmd = &cobra.Command{
	Use:               "chartsync",
	DisableAutoGenTag: true,
	Short:             "Synchronized zoom for time-series dashboards",
	Long: `chartsync keeps the visible range of charts in a sync group aligned: zooming
one chart zooms its siblings. It validates and inspects dashboard configurations,
replays scripted interactions and runs a terminal dashboard.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			slog.Error("Error displaying help", "error", err)
		}
	},
}

// NewRootCmd creates a new root command for chartsync.
func NewRootCmd() *cobra.Command {
	cobra.OnInitialize(initViper)

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	if err != nil {
		slog.Error("Error binding debug flag", "error", err)
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(viewCmd)

	return rootCmd
}

// initViper lets every flag be set through a CHARTSYNC_* variable
func initViper() {
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

// bindFlags binds the running command's flags to viper. Commands share flag
// names, so binding happens when a command runs rather than at init.
func bindFlags(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := versions.GetVersionInfo()
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to retrieve format flag: %w", err)
		}

		if format == "json" {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format version info as JSON: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "chartsync %s (commit %s, built %s, %s, %s)\n",
			info.Version, info.Commit, info.BuildDate, info.GoVersion, info.Platform)
		return err
	},
}

func init() {
	versionCmd.Flags().String("format", "", "Output format (json)")
}

// addConfigFlag adds the --config flag to cmd. It may also be set through
// CHARTSYNC_CONFIG.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
}

// loadConfig loads and validates the configuration at path
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return nil, fmt.Errorf("a configuration file is required (--config or %s_CONFIG)", config.EnvPrefix)
	}
	cfg, err := config.LoadConfig(config.WithConfigPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.Debug("Loaded configuration", "path", path, "dashboard", cfg.GetName(), "groups", len(cfg.Groups))
	return cfg, nil
}
