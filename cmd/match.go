package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/cricanalyze/internal/analyzer"
	"github.com/pable/cricanalyze/internal/report"
)

var (
	matchQuery   analyzer.MatchQuery
	matchDetails bool
	matchView    viewFlags
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score matches against several checkpoint scores",
	Long: `Compare up to four first-innings checkpoint scores (6, 10, 15 and 20 overs)
against every historical match. A match is kept when its runs agree on at least
one of ten signals: the four scores and the six differences between them.`,
	Example: `  cricanalyze match --6 45/1 --10 78/2 --15 120/3
  cricanalyze match --20 165/4 --min 2 --sort 20ov`,
	Args: cobra.NoArgs,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchQuery.Score6, "6", "", "score after 6 overs")
	matchCmd.Flags().StringVar(&matchQuery.Score10, "10", "", "score after 10 overs")
	matchCmd.Flags().StringVar(&matchQuery.Score15, "15", "", "score after 15 overs")
	matchCmd.Flags().StringVar(&matchQuery.Score20, "20", "", "score after 20 overs")
	matchCmd.Flags().BoolVar(&matchDetails, "details", false, "print every field of the matched matches")
	addViewFlags(matchCmd, &matchView, true)
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	actions, err := matchView.actions()
	if err != nil {
		return err
	}
	ds, err := loadNow(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	s := analyzer.NewSession(analyzer.Static{Data: ds})
	res, err := s.Match(matchQuery)
	if err != nil {
		return err
	}
	for _, a := range actions {
		if res, err = s.ApplyMatch(a); err != nil {
			return err
		}
	}
	report.PrintMatchResult(os.Stdout, res)
	if matchDetails {
		fmt.Fprintln(os.Stdout)
		report.PrintDetails(os.Stdout, res.View, ds.Header)
	}
	return nil
}
