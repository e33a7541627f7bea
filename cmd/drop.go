package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes one cached dataset, or the whole cache file.
var dropCmd = &cobra.Command{
	Use:   "drop [name]",
	Short: "Delete a cached dataset or the whole cache",
	Long: `With a name, remove that dataset from the cache. Without one, permanently
delete the SQLite cache file; re-import afterwards to rebuild.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		db, err := openStorage()
		if err != nil {
			return err
		}
		defer db.Close()
		dropped, err := db.DropDataset(args[0])
		if err != nil {
			return fmt.Errorf("drop dataset: %w", err)
		}
		if !dropped {
			fmt.Fprintf(os.Stdout, "No dataset named %q, nothing to drop.\n", args[0])
			return nil
		}
		fmt.Fprintf(os.Stdout, "Dropped dataset %q\n", args[0])
		return nil
	}

	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}
