package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/cricanalyze/internal/report"
)

// summaryCmd is the cobra command for displaying a per-season dataset overview.
var summaryCmd = &cobra.Command{
	Use:   "summary [name]",
	Short: "Show a per-season overview of a cached dataset",
	Long: `Display innings counts and chase/defend outcomes per season for a cached
dataset (default "default").`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	name := "default"
	if len(args) == 1 {
		name = args[0]
	}
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetOverview(name)
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if len(ov) == 0 {
		fmt.Fprintf(os.Stdout, "No innings stored for %q. Run 'cricanalyze import --name %s' to add them.\n", name, name)
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Dataset %s ===\n\n", name)
	report.PrintOverview(os.Stdout, ov)
	return nil
}
