package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/cricanalyze/internal/analyzer"
	"github.com/pable/cricanalyze/internal/report"
)

var (
	chaseOver    int
	chaseRange   string
	chaseTarget  string
	chaseDetails bool
	chaseView    viewFlags
)

var chaseCmd = &cobra.Command{
	Use:   "chase <runs/wickets>",
	Short: "Find matches with the same score at one over",
	Long: `Find historical matches with the same score at the given over and report how
often the side batting second chased the total.

Up to over 20 the score must match exactly. After over 20 matches are those
needing the same number of runs from that point, so a first-innings total is
required via --target.`,
	Example: `  cricanalyze chase 45/1 --over 6
  cricanalyze chase 150/3 --over 20 --range 150-159
  cricanalyze chase 80/2 --over 26 --target 180/5 --result chased`,
	Args: cobra.ExactArgs(1),
	RunE: runChase,
}

func init() {
	chaseCmd.Flags().IntVar(&chaseOver, "over", 0, "over of the score (1-40)")
	chaseCmd.Flags().StringVar(&chaseRange, "range", "", "restrict to a 20-over score range, e.g. 150-159 or 200+")
	chaseCmd.Flags().StringVar(&chaseTarget, "target", "", "first-innings total for overs after 20, e.g. 180/5")
	chaseCmd.Flags().BoolVar(&chaseDetails, "details", false, "print every field of the matched matches")
	addViewFlags(chaseCmd, &chaseView, false)
	chaseCmd.MarkFlagRequired("over")
}

func addViewFlags(c *cobra.Command, f *viewFlags, match bool) {
	c.Flags().StringSliceVar(&f.years, "year", nil, "only these seasons (repeatable or comma-separated)")
	c.Flags().StringVar(&f.rng, "filter-range", "", "only rows whose 20-over score is in this range")
	if match {
		c.Flags().IntVar(&f.min, "min", 0, "only rows agreeing on at least this many signals")
	} else {
		c.Flags().StringVar(&f.result, "result", "", "only chased or defend rows")
	}
	c.Flags().StringSliceVar(&f.sort, "sort", nil, "sort by column; repeat a column to sort descending")
}

func runChase(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	actions, err := chaseView.actions()
	if err != nil {
		return err
	}
	ds, err := loadNow(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	s := analyzer.NewSession(analyzer.Static{Data: ds})
	res, err := s.Chase(analyzer.ChaseQuery{Score: args[0], Over: chaseOver, Range: chaseRange, Target: chaseTarget})
	if err != nil {
		return err
	}
	for _, a := range actions {
		if res, err = s.ApplyChase(a); err != nil {
			return err
		}
	}
	report.PrintChaseResult(os.Stdout, res, s.CrossRef())
	if chaseDetails {
		fmt.Fprintln(os.Stdout)
		report.PrintDetails(os.Stdout, res.View, ds.Header)
	}
	return nil
}
