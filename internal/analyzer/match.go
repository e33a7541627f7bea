package analyzer

import (
	"strings"

	"github.com/pable/cricanalyze/internal/model"
	"github.com/pable/cricanalyze/internal/score"
	"github.com/pable/cricanalyze/internal/stats"
	"github.com/pable/cricanalyze/internal/view"
)

// matchOvers are the checkpoints a match query can fill in.
var matchOvers = [4]int{6, 10, 15, 20}

// Signals names the ten comparison signals in evaluation order: the four raw
// checkpoints followed by the six forward differences between them.
var Signals = []string{
	"6over", "10over", "15over", "20over",
	"10-6", "15-10", "15-6", "20-6", "20-10", "20-15",
}

// signalPairs maps each difference signal to its (later, earlier) index into
// matchOvers.
var signalPairs = [6][2]int{
	{1, 0}, {2, 1}, {2, 0}, {3, 0}, {3, 1}, {3, 2},
}

// MatchColumns is the match analyzer's table layout.
var MatchColumns = []string{
	view.ColYear, "6ov", "10ov", "15ov", view.Col20,
	"10-6", "15-10", "15-6", "20-6", "20-10", "20-15",
	view.ColResult,
}

// SignalForColumn returns the signal shown in a match table column, or "".
func SignalForColumn(column string) string {
	switch column {
	case "6ov", "10ov", "15ov", view.Col20:
		return strings.TrimSuffix(column, "ov") + "over"
	case view.ColYear, view.ColResult:
		return ""
	}
	for _, s := range Signals[4:] {
		if s == column {
			return s
		}
	}
	return ""
}

// MatchQuery is a multi-checkpoint query. Blank fields are left out.
type MatchQuery struct {
	Score6  string
	Score10 string
	Score15 string
	Score20 string
}

func (q MatchQuery) texts() [4]string {
	return [4]string{q.Score6, q.Score10, q.Score15, q.Score20}
}

// MatchResult is the outcome of a match query.
type MatchResult struct {
	Query MatchQuery

	// Years are the distinct seasons across the whole dataset.
	Years []int
	// Ranges are the 20-over ranges offered for filtering.
	Ranges []score.Range

	View view.View
}

// Total returns the number of matched rows.
func (r *MatchResult) Total() int { return r.View.Total() }

// Stats returns the win rates over the visible rows.
func (r *MatchResult) Stats() stats.WinRate { return r.View.Stats() }

// signal is one comparison value. ok is false when an input was missing.
type signal struct {
	runs, wickets int
	ok            bool
}

func signalsOf(points [4]score.Point, present [4]bool) [10]signal {
	var out [10]signal
	for i := range matchOvers {
		if present[i] {
			out[i] = signal{runs: points[i].Runs, wickets: points[i].Wickets, ok: true}
		}
	}
	for i, pair := range signalPairs {
		l, e := pair[0], pair[1]
		if present[l] && present[e] {
			d := score.Sub(points[l], points[e])
			out[4+i] = signal{runs: d.Runs, wickets: d.Wickets, ok: true}
		}
	}
	return out
}

// Match scores every historical innings against up to four checkpoint scores
// and keeps those agreeing on runs in at least one of the ten signals.
func (s *Session) Match(q MatchQuery) (*MatchResult, error) {
	var (
		points  [4]score.Point
		present [4]bool
		given   bool
	)
	for i, text := range q.texts() {
		if strings.TrimSpace(text) == "" {
			continue
		}
		p, ok := score.Parse(text)
		if !ok {
			return nil, invalid("Invalid %d-over score %q (e.g., '20/1').", matchOvers[i], text)
		}
		points[i], present[i], given = p, true, true
	}
	if !given {
		return nil, invalid("Please enter at least one valid score/wickets (e.g., '20/1').")
	}
	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}

	want := signalsOf(points, present)
	var rows []view.Row
	for _, rec := range ds.Records {
		var rp [4]score.Point
		var rpresent [4]bool
		for i, over := range matchOvers {
			rp[i], rpresent[i] = rec.Score(over)
		}
		got := signalsOf(rp, rpresent)

		var at, wicketsAt []string
		for i := range want {
			if !want[i].ok || !got[i].ok || want[i].runs != got[i].runs {
				continue
			}
			at = append(at, Signals[i])
			if want[i].wickets == got[i].wickets {
				wicketsAt = append(wicketsAt, Signals[i])
			}
		}
		if len(at) == 0 {
			continue
		}
		rows = append(rows, view.Row{
			Record:           rec,
			Cells:            matchCells(rec),
			MatchCount:       len(at),
			MatchesAt:        at,
			MatchesWicketsAt: wicketsAt,
		})
	}

	res := &MatchResult{
		Query:  q,
		Years:  ds.Years(),
		Ranges: append([]score.Range(nil), score.MatchRanges...),
		View:   view.New(MatchColumns, rows),
	}
	s.lastMatch = res
	return res, nil
}

func matchCells(rec model.Record) map[string]string {
	raw := make([]string, len(matchOvers))
	cells := make(map[string]string, len(MatchColumns))
	cells[view.ColYear] = rec.Display(model.KeyYear)
	for i, over := range matchOvers {
		raw[i], _ = rec.Checkpoint(over)
		cells[OverColumn(over)] = rec.Display(model.CheckpointKey(over))
	}
	for i, pair := range signalPairs {
		cells[Signals[4+i]] = score.Difference(raw[pair[0]], raw[pair[1]])
	}
	cells[view.ColResult] = rec.Result()
	return cells
}
