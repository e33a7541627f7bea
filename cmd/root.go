package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/cricanalyze/internal/config"
)

var (
	dbPath     string
	configPath string
	sourceFlag string
)

var rootCmd = &cobra.Command{
	Use:   "cricanalyze",
	Short: "Cricket chase and score-progression analysis",
	Long: `Compare a partial innings score against historical matches.

'chase' finds matches with the same score at one over and reports how often the
target was chased. 'match' scores matches against up to four checkpoint scores.
'shell' keeps a session open so the first-innings total carries across queries.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to SQLite dataset cache")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "path to TOML config file")
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "dataset source: URL, CSV path, or db:<name> (overrides config)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(chaseCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if sourceFlag != "" {
		cfg.Source = sourceFlag
	}
	return cfg, nil
}
