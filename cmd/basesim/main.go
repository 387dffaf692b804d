// Command basesim runs the geoscape base simulation over a saved campaign.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ftageo/basesim/internal/config"
)

// module defs - set at build time via ldflags
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

const appName = "basesim"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Geoscape base management simulator",
		Long: `Advances a campaign of player bases through game time: research,
manufacturing, prisoner handling, diplomacy funding and upkeep.`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(configDir); err != nil && !config.IsNotFound(err) {
				return err
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configDir, "config", "c", ".", "Directory holding "+config.FileName)
	flags.StringP("rules", "r", "", "Ruleset directory (overrides rulesDir)")
	flags.StringP("save", "s", "", "Save name (overrides sim.saveName)")
	flags.String("storage", "", "Storage backend: memory, sqlite, postgres, websocket or auto")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("logs-dir", "", "Directory for log files")

	for key, flag := range map[string]string{
		"rulesDir":     "rules",
		"sim.saveName": "save",
		"storage.type": "storage",
		"logLevel":     "log-level",
		"logsDir":      "logs-dir",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(newSimulateCmd(), newReportCmd(), newRulesCmd())
	return rootCmd
}
