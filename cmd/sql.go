package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/cricanalyze/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the dataset cache",
	Long: `Run an arbitrary SQL query against the dataset cache and print results as a table.

Schema overview:
  datasets(name, source, row_count, imported_at)
  dataset_columns(dataset, position, name)
  innings(dataset, row_num, year INTEGER, result)
  innings_fields(dataset, row_num, key, value)

Checkpoint scores live in innings_fields with keys like '6over' and '20over':
  SELECT i.year, f.value FROM innings i
  JOIN innings_fields f USING (dataset, row_num)
  WHERE f.key = '20over' AND i.result = 'chased'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	report.PrintRaw(os.Stdout, cols, rows)
	return nil
}
