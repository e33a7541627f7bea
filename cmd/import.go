package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/cricanalyze/internal/dataset"
)

var importName string

var importCmd = &cobra.Command{
	Use:   "import [csv-path-or-url]",
	Short: "Import an innings table into the local cache",
	Long: `Fetch an innings CSV table and store it in the SQLite cache so later runs can
use --source db:<name> without refetching. With no argument the configured source
is imported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importName, "name", "default", "name to store the dataset under")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	src := cfg.Source
	if len(args) == 1 {
		src = args[0]
	}

	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Fetching %s...\n", src)
	ds, err := dataset.FromSource(src, cfg.Timeout).Fetch(cmd.Context())
	if err != nil {
		return err
	}
	if err := db.ImportDataset(importName, src, ds); err != nil {
		return fmt.Errorf("import dataset: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Imported %d innings (%d columns) as %q. Use --source db:%s to analyze it.\n",
		ds.Len(), len(ds.Header), importName, importName)
	return nil
}
