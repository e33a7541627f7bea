package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pable/cricanalyze/internal/analyzer"
	"github.com/pable/cricanalyze/internal/config"
	"github.com/pable/cricanalyze/internal/dataset"
	"github.com/pable/cricanalyze/internal/model"
	"github.com/pable/cricanalyze/internal/report"
	"github.com/pable/cricanalyze/internal/score"
	"github.com/pable/cricanalyze/internal/view"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive analysis session",
	Long: `Open a session against the dataset. The dataset loads in the background and
the first-innings total captured by a 20-over chase query carries over to later
second-innings queries. Type 'help' for available commands.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sh := &shell{
		cfg:         cfg,
		in:          bufio.NewScanner(os.Stdin),
		out:         os.Stdout,
		errOut:      os.Stderr,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		newLoader:   newLoader,
	}
	if err := sh.reload(cmd.Context()); err != nil {
		return err
	}
	defer sh.cleanup()

	if sh.interactive {
		cGreeting.Println("cricanalyze shell")
		cMuted.Println("type 'help' or 'exit'")
		fmt.Println()
	}
	sh.run()
	return nil
}

// kind names which result the filter and sort commands act on.
type kind int

const (
	kindNone kind = iota
	kindChase
	kindMatch
)

type shell struct {
	ctx         context.Context
	cfg         config.Config
	in          *bufio.Scanner
	out, errOut io.Writer
	interactive bool
	newLoader   func(config.Config) (*dataset.Loader, func(), error)

	loader  *dataset.Loader
	cleanup func()
	session *analyzer.Session
	active  kind
}

// reload starts a fresh dataset load and a fresh session.
func (sh *shell) reload(ctx context.Context) error {
	loader, cleanup, err := sh.newLoader(sh.cfg)
	if err != nil {
		return err
	}
	if sh.cleanup != nil {
		sh.cleanup()
	}
	sh.loader, sh.cleanup = loader, cleanup
	sh.session = analyzer.NewSession(loader)
	sh.active = kindNone
	sh.ctx = ctx
	loader.Start(ctx)
	return nil
}

func (sh *shell) run() {
	for {
		if sh.interactive {
			cPrompt.Fprint(sh.out, "cricanalyze")
			cMuted.Fprint(sh.out, "> ")
		}
		if !sh.in.Scan() {
			if sh.interactive {
				fmt.Fprintln(sh.out)
			}
			return
		}
		line := strings.TrimSpace(sh.in.Text())
		if line == "" {
			continue
		}
		if sh.exec(line) {
			return
		}
	}
}

// exec runs one command line and reports whether the shell should exit.
func (sh *shell) exec(line string) bool {
	tokens := strings.Fields(line)
	cmd, args := strings.ToLower(tokens[0]), tokens[1:]

	switch cmd {
	case "exit", "quit":
		return true
	case "help":
		sh.help()
	case "status":
		fmt.Fprintln(sh.out, sh.loader.Status())
	case "reload":
		if err := sh.reload(sh.ctx); err != nil {
			sh.fail(err)
			return false
		}
		fmt.Fprintln(sh.out, "Reloading dataset; session reset.")
	case "chase":
		sh.chase(args)
	case "match":
		sh.match(args)
	case "show":
		sh.show()
	case "target":
		st := sh.session.ChaseState()
		if !st.FirstInningsDone {
			cMuted.Fprintln(sh.out, "No first-innings total captured yet.")
			return false
		}
		rng := "-"
		if st.ScoreRange != nil {
			rng = st.ScoreRange.String()
		}
		fmt.Fprintf(sh.out, "Target: %d  |  20-Over Score Range: %s\n", st.TargetRuns, rng)
	case "options":
		sh.options()
	case "details":
		sh.details()
	case "years":
		ys, err := parseYears(args)
		if err != nil {
			sh.fail(err)
			return false
		}
		sh.apply(view.SelectYears{Years: ys})
	case "range":
		a, err := view.ParseRangeAction(strings.Join(args, ""))
		if err != nil {
			sh.fail(err)
			return false
		}
		sh.apply(a)
	case "result":
		a, err := view.ParseResultAction(strings.Join(args, ""))
		if err != nil {
			sh.fail(err)
			return false
		}
		sh.apply(a)
	case "min":
		n := 0
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 0 {
				sh.fail(fmt.Errorf("usage: min <n>  (0 shows all)"))
				return false
			}
			n = v
		}
		sh.apply(view.MinAgreement{N: n})
	case "sort":
		if len(args) != 1 {
			sh.fail(fmt.Errorf("usage: sort <column>"))
			return false
		}
		sh.apply(view.SortBy{Column: args[0]})
	default:
		cWarn.Fprintf(sh.errOut, "unknown command %q, type 'help'\n", cmd)
	}
	return false
}

func (sh *shell) help() {
	fmt.Fprintln(sh.out)
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"chase <r/w> <over> [range]", "matches with this score at this over (1-40)"},
		{"match <6ov> <10ov> <15ov> <20ov>", "multi-checkpoint match; '-' skips a checkpoint"},
		{"years [y ...|all]", "show only these seasons"},
		{"range <lo-hi|200+|all>", "show only this 20-over score range"},
		{"result <chased|defend|all>", "chase results only: filter by outcome"},
		{"min <n>", "match results only: at least n agreeing signals"},
		{"sort <column>", "sort by column; again to reverse"},
		{"show", "print the current result again"},
		{"details", "every field of the visible matches"},
		{"options", "years and ranges available for filtering"},
		{"target", "the captured first-innings total"},
		{"status", "dataset loading state"},
		{"reload", "reload the dataset and reset the session"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Fprint(sh.out, "  ")
		cCmd.Fprintf(sh.out, "%-36s", r.cmd)
		fmt.Fprintln(sh.out, r.desc)
	}
	fmt.Fprintln(sh.out)
}

func (sh *shell) fail(err error) {
	var ve *analyzer.ValidationError
	switch {
	case errors.As(err, &ve):
		cWarn.Fprintln(sh.errOut, ve.Message)
	case errors.Is(err, dataset.ErrNotReady):
		cWarn.Fprintln(sh.errOut, "Data is still loading. Please wait.")
	default:
		cError.Fprintf(sh.errOut, "error: %v\n", err)
	}
}

func (sh *shell) chase(args []string) {
	if len(args) < 2 || len(args) > 3 {
		sh.fail(fmt.Errorf("usage: chase <runs/wickets> <over> [range]"))
		return
	}
	over, err := strconv.Atoi(args[1])
	if err != nil {
		over = 0 // reported by the analyzer as an invalid over
	}
	if _, err := sh.loader.Dataset(); err != nil {
		sh.fail(err)
		return
	}
	q := analyzer.ChaseQuery{Score: args[0], Over: over}
	if len(args) == 3 {
		q.Range = args[2]
	}
	// Ask for the total only once the query itself is valid.
	if _, ok := score.Parse(q.Score); ok && over <= model.MaxOver && sh.session.NeedsTarget(over) {
		q.Target = sh.prompt("Enter the 1st innings total score (e.g., '180/5'): ")
	}
	res, err := sh.session.Chase(q)
	if err != nil {
		sh.fail(err)
		return
	}
	sh.active = kindChase
	report.PrintChaseResult(sh.out, res, sh.session.CrossRef())
}

func (sh *shell) prompt(msg string) string {
	if sh.interactive {
		cPrompt.Fprint(sh.out, msg)
	}
	if !sh.in.Scan() {
		return ""
	}
	return strings.TrimSpace(sh.in.Text())
}

func (sh *shell) match(args []string) {
	if len(args) == 0 || len(args) > 4 {
		sh.fail(fmt.Errorf("usage: match <6ov> [10ov] [15ov] [20ov]  ('-' skips one)"))
		return
	}
	var scores [4]string
	for i, a := range args {
		if a != "-" {
			scores[i] = a
		}
	}
	res, err := sh.session.Match(analyzer.MatchQuery{Score6: scores[0], Score10: scores[1], Score15: scores[2], Score20: scores[3]})
	if err != nil {
		sh.fail(err)
		return
	}
	sh.active = kindMatch
	report.PrintMatchResult(sh.out, res)
}

func (sh *shell) apply(a view.Action) {
	switch sh.active {
	case kindChase:
		res, err := sh.session.ApplyChase(a)
		if err != nil {
			sh.fail(err)
			return
		}
		report.PrintChaseResult(sh.out, res, sh.session.CrossRef())
	case kindMatch:
		res, err := sh.session.ApplyMatch(a)
		if err != nil {
			sh.fail(err)
			return
		}
		report.PrintMatchResult(sh.out, res)
	default:
		sh.fail(analyzer.ErrNoResult)
	}
}

func (sh *shell) show() {
	switch sh.active {
	case kindChase:
		report.PrintChaseResult(sh.out, sh.session.LastChase(), sh.session.CrossRef())
	case kindMatch:
		report.PrintMatchResult(sh.out, sh.session.LastMatch())
	default:
		sh.fail(analyzer.ErrNoResult)
	}
}

func (sh *shell) options() {
	switch sh.active {
	case kindChase:
		res := sh.session.LastChase()
		report.PrintOptions(sh.out, res.Years, res.Buckets)
	case kindMatch:
		res := sh.session.LastMatch()
		report.PrintOptions(sh.out, res.Years, res.Ranges)
	default:
		sh.fail(analyzer.ErrNoResult)
	}
}

func (sh *shell) details() {
	var v view.View
	switch sh.active {
	case kindChase:
		v = sh.session.LastChase().View
	case kindMatch:
		v = sh.session.LastMatch().View
	default:
		sh.fail(analyzer.ErrNoResult)
		return
	}
	var header []string
	if ds, err := sh.loader.Dataset(); err == nil {
		header = ds.Header
	}
	cHeader.Fprintln(sh.out, "\n--- Full Match Details ---")
	report.PrintDetails(sh.out, v, header)
}
