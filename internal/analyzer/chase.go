package analyzer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pable/cricanalyze/internal/model"
	"github.com/pable/cricanalyze/internal/score"
	"github.com/pable/cricanalyze/internal/stats"
	"github.com/pable/cricanalyze/internal/view"
)

// ChaseQuery is a single-checkpoint query.
type ChaseQuery struct {
	// Score is the "runs/wickets" text at Over.
	Score string
	// Over is the checkpoint, 1 through 40.
	Over int
	// Range optionally restricts matches to a 20-over bucket, e.g. "150-159".
	Range string
	// Target is the first-innings total; read only for second-innings
	// queries made before any over-20 query in the session.
	Target string
}

// ChaseResult is the outcome of a chase query.
type ChaseResult struct {
	Query score.Point
	Over  int

	// ScoreRange is the 20-over range reported alongside the result. It is
	// set for second-innings queries and whenever a range was given.
	ScoreRange *score.Range
	// RunDifference is target minus query runs, for second-innings queries.
	RunDifference *int

	// Years are the distinct seasons among the matched rows.
	Years []int
	// Buckets are the 20-over buckets seen across the compared rows.
	Buckets []score.Range

	View view.View
}

// Total returns the number of matched rows.
func (r *ChaseResult) Total() int { return r.View.Total() }

// Stats returns the win rates over the visible rows.
func (r *ChaseResult) Stats() stats.WinRate { return r.View.Stats() }

// Chase runs a single-checkpoint query. At or before over 20 rows must match
// the score exactly; after over 20 rows must have the same run gap between
// over 20 and the queried over as the session's target has to the query.
func (s *Session) Chase(q ChaseQuery) (*ChaseResult, error) {
	p, ok := score.Parse(q.Score)
	if !ok || q.Over < 1 || q.Over > model.MaxOver {
		return nil, invalid("Please enter valid score/wickets (e.g., '20/1') and select an over between 1 and %d.", model.MaxOver)
	}
	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}

	var explicit *score.Range
	if strings.TrimSpace(q.Range) != "" {
		r, ok := score.ParseRange(q.Range)
		if !ok {
			return nil, invalid("Invalid score range %q (e.g., '140-149' or '200+').", q.Range)
		}
		explicit = &r
	}

	switch {
	case q.Over == model.FirstInningsOver:
		s.captureTarget(p.Runs, explicit)
	case q.Over > model.FirstInningsOver && !s.chase.FirstInningsDone:
		if strings.TrimSpace(q.Target) == "" {
			return nil, invalid("Target score required for 2nd innings analysis.")
		}
		t, ok := score.Parse(q.Target)
		if !ok {
			return nil, invalid("Invalid target score format.")
		}
		s.captureTarget(t.Runs, explicit)
	}

	population := ds.Records
	if explicit != nil {
		population = inRange(population, *explicit)
		r := *explicit
		s.chase.ScoreRange = &r
	}

	res := &ChaseResult{Query: p, Over: q.Over}
	var matched []model.Record
	if q.Over <= model.FirstInningsOver {
		for _, rec := range population {
			if got, ok := rec.Score(q.Over); ok && got == p {
				matched = append(matched, rec)
			}
		}
	} else {
		diff := s.chase.TargetRuns - p.Runs
		res.RunDifference = &diff
		for _, rec := range population {
			total, ok := rec.Score(model.FirstInningsOver)
			if !ok {
				continue
			}
			cur, ok := rec.Score(q.Over)
			if !ok {
				continue
			}
			if total.Runs-cur.Runs == diff {
				matched = append(matched, rec)
			}
		}
	}

	if q.Over > model.FirstInningsOver || explicit != nil {
		res.ScoreRange = s.ChaseState().ScoreRange
	}

	sortByYear(matched)
	res.Years = model.DistinctYears(matched)
	res.Buckets = bucketsOf(population)

	columns := chaseColumns(q.Over)
	rows := make([]view.Row, len(matched))
	for i, rec := range matched {
		rows[i] = view.Row{Record: rec, Cells: chaseCells(rec, columns)}
	}
	res.View = view.New(columns, rows)

	s.lastChase = res
	return res, nil
}

// Header lines describing the query, as shown above the result table.
func (r *ChaseResult) Header() []string {
	lines := []string{fmt.Sprintf("Analysis for %s after Over %d", r.Query, r.Over)}
	if r.ScoreRange != nil {
		lines = append(lines, "20-Over Score Range: "+r.ScoreRange.String())
	}
	if r.RunDifference != nil {
		lines = append(lines, fmt.Sprintf("Run Difference (20ov - %dov): %d", r.Over, *r.RunDifference))
	}
	lines = append(lines, fmt.Sprintf("Total matches: %d", r.Total()))
	if r.Total() == 0 {
		msg := fmt.Sprintf("No matches found with exact score %s after Over %d", r.Query, r.Over)
		if r.ScoreRange != nil && r.RunDifference == nil {
			msg += " within " + r.ScoreRange.String()
		}
		lines = append(lines, msg+".")
	}
	return lines
}

func inRange(records []model.Record, r score.Range) []model.Record {
	var out []model.Record
	for _, rec := range records {
		if total, ok := rec.Score(model.FirstInningsOver); ok && r.Contains(total.Runs) {
			out = append(out, rec)
		}
	}
	return out
}

// sortByYear orders records by season, keeping dataset order within a season
// and putting records without a readable year last.
func sortByYear(records []model.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		yi, oki := records[i].Year()
		yj, okj := records[j].Year()
		if oki != okj {
			return oki
		}
		return yi < yj
	})
}

func bucketsOf(records []model.Record) []score.Range {
	seen := make(map[score.Range]bool)
	var out []score.Range
	for _, rec := range records {
		total, ok := rec.Score(model.FirstInningsOver)
		if !ok {
			continue
		}
		b := score.BucketOf(total.Runs)
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	score.SortRanges(out)
	return out
}

// OverColumn is the table column name for an over checkpoint, e.g. "20ov".
func OverColumn(over int) string {
	return fmt.Sprintf("%dov", over)
}

// chaseColumns lists the table columns for a query at over. First-innings
// queries show the checkpoints still ahead of the query; second-innings
// queries add the chase checkpoints, the totals and two scoring-rate deltas.
func chaseColumns(over int) []string {
	cols := []string{view.ColYear}
	if over <= model.FirstInningsOver {
		for _, cp := range []int{6, 10, 15} {
			if over < cp {
				cols = append(cols, OverColumn(cp))
			}
		}
		return append(cols, view.Col20, view.ColResult)
	}
	for _, cp := range []int{26, 30, 35} {
		if over < cp {
			cols = append(cols, OverColumn(cp))
		}
	}
	cols = append(cols, OverColumn(over), view.Col20)
	if over != model.MaxOver {
		cols = append(cols, OverColumn(model.MaxOver))
	}
	return append(cols, colDiff156, colDiff206, view.ColResult)
}

const (
	colDiff156 = "15ov-6ov"
	colDiff206 = "20ov-6ov"
)

func chaseCells(rec model.Record, columns []string) map[string]string {
	cells := make(map[string]string, len(columns))
	for _, c := range columns {
		switch c {
		case view.ColYear:
			cells[c] = rec.Display(model.KeyYear)
		case view.ColResult:
			cells[c] = rec.Result()
		case colDiff156:
			cells[c] = difference(rec, 15, 6)
		case colDiff206:
			cells[c] = difference(rec, 20, 6)
		default:
			if n, found := strings.CutSuffix(c, "ov"); found {
				if over, err := strconv.Atoi(n); err == nil {
					cells[c] = rec.Display(model.CheckpointKey(over))
				}
			}
		}
	}
	return cells
}

func difference(rec model.Record, later, earlier int) string {
	l, _ := rec.Checkpoint(later)
	e, _ := rec.Checkpoint(earlier)
	return score.Difference(l, e)
}
