package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tvmdash/chartsync/internal/config"
	"github.com/tvmdash/chartsync/internal/replay"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a dashboard configuration",
	Long: `Validate a dashboard configuration without loading any data.

With --script, the replay script is validated too and every chart it names
must be configured in the group it runs against.`,
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runValidate(cmd.OutOrStdout(),
			viper.GetString("config"),
			viper.GetString("script"),
			viper.GetString("group"))
	},
}

func init() {
	addConfigFlag(validateCmd)
	validateCmd.Flags().String("script", "", "Replay script to check against the configuration")
	validateCmd.Flags().String("group", "", "Group the script runs against (defaults to the script's group)")
}

func runValidate(w io.Writer, configPath, scriptPath, groupKey string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	charts := 0
	for _, g := range cfg.Groups {
		charts += len(g.Charts)
	}
	if _, err := fmt.Fprintf(w, "Configuration %s is valid: %d groups, %d charts\n",
		cfg.GetName(), len(cfg.Groups), charts); err != nil {
		return err
	}

	if scriptPath == "" {
		return nil
	}

	script, err := replay.LoadScript(scriptPath)
	if err != nil {
		return err
	}
	group, err := scriptGroup(cfg, script, groupKey)
	if err != nil {
		return err
	}
	if err := checkScriptCharts(group, script); err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "Replay script is valid: %d steps against group %s\n", len(script.Steps), group.Key)
	return err
}

// scriptGroup resolves the group a script runs against: the explicit key,
// then the script's own group, then the first configured group
func scriptGroup(cfg *config.Config, script *replay.Script, groupKey string) (*config.GroupConfig, error) {
	key := groupKey
	if key == "" {
		key = script.Group
	}
	if key == "" {
		return &cfg.Groups[0], nil
	}
	if script.Group != "" && script.Group != key {
		return nil, fmt.Errorf("script targets group %q, not %q", script.Group, key)
	}

	group, ok := cfg.Group(key)
	if !ok {
		return nil, fmt.Errorf("group %q is not configured", key)
	}
	return group, nil
}

// checkScriptCharts verifies that every chart named by the script is
// configured with an explicit id in group
func checkScriptCharts(group *config.GroupConfig, script *replay.Script) error {
	known := make(map[string]bool, len(group.Charts))
	for _, c := range group.Charts {
		if c.ID != "" {
			known[c.ID] = true
		}
	}

	for i, step := range script.Steps {
		if step.Chart != "" && !known[step.Chart] {
			return fmt.Errorf("step %d (%s): chart %q is not configured in group %s", i+1, step, step.Chart, group.Key)
		}
	}
	return nil
}
