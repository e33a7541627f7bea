package view

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pable/cricanalyze/internal/model"
	"github.com/pable/cricanalyze/internal/score"
	"github.com/pable/cricanalyze/internal/stats"
)

// Filter is the current narrowing applied on top of the base rows. The zero
// value shows everything.
type Filter struct {
	// Years restricts rows to these seasons. Empty means no restriction.
	Years []int
	// Range restricts rows by their 20-over run total.
	Range *score.Range
	// Result restricts rows to one outcome label ("chased" or "defend").
	Result string
	// MinAgreement is the minimum number of agreeing signals; 0 disables it.
	MinAgreement int
}

// SortState is the active sort column and direction. An empty Column means
// rows stay in base order.
type SortState struct {
	Column    string `json:"column"`
	Ascending bool   `json:"ascending"`
}

// View is an immutable filtered, sorted window over a matched row set. Every
// method returns a new View; the base rows are shared and never modified.
type View struct {
	columns []string
	base    []Row
	filter  Filter
	sort    SortState
	visible []Row
}

// New builds a View over base with no filter and no sort.
func New(columns []string, base []Row) View {
	v := View{columns: columns, base: base}
	v.visible = v.compute()
	return v
}

// Columns returns the table's column names in display order.
func (v View) Columns() []string { return v.columns }

// Rows returns the visible rows.
func (v View) Rows() []Row { return v.visible }

// Base returns the full unfiltered matched set.
func (v View) Base() []Row { return v.base }

// Len returns the number of visible rows.
func (v View) Len() int { return len(v.visible) }

// Total returns the size of the unfiltered matched set.
func (v View) Total() int { return len(v.base) }

// Filter returns the active filter.
func (v View) Filter() Filter { return v.filter }

// Sort returns the active sort state.
func (v View) Sort() SortState { return v.sort }

// Stats computes chase/defend rates over the visible rows.
func (v View) Stats() stats.WinRate { return stats.Compute(v.visible) }

// Dispatch applies a to v and returns the resulting View.
func (v View) Dispatch(a Action) View {
	next := a.apply(v)
	next.visible = next.compute()
	return next
}

// compute filters the base set and orders the survivors.
func (v View) compute() []Row {
	out := make([]Row, 0, len(v.base))
	for _, r := range v.base {
		if v.filter.keep(r) {
			out = append(out, r)
		}
	}
	if v.sort.Column != "" {
		sortRows(out, v.sort)
	}
	return out
}

func (f Filter) keep(r Row) bool {
	if len(f.Years) > 0 {
		y, ok := r.Record.Year()
		if !ok || !containsInt(f.Years, y) {
			return false
		}
	}
	if f.Range != nil {
		runs, ok := score.RunsOf(r.Cell(Col20))
		if !ok || !f.Range.Contains(runs) {
			return false
		}
	}
	if f.Result != "" && !strings.EqualFold(strings.TrimSpace(r.Result()), f.Result) {
		return false
	}
	if f.MinAgreement > 0 && r.MatchCount < f.MinAgreement {
		return false
	}
	return true
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// sortRows orders rows by one column. Year compares numerically, cells that
// both contain "/" compare by run total, anything else compares as collated
// text. Cells whose numbers cannot be read go last in either direction.
func sortRows(rows []Row, s SortState) {
	// A Collator keeps scratch buffers, so each sort gets its own.
	collator := collate.New(language.Und)
	compare := func(a, b string) (int, bool) {
		if s.Column == ColYear {
			return compareNumeric(a, b, strconv.Atoi)
		}
		if strings.Contains(a, "/") && strings.Contains(b, "/") {
			return compareNumeric(a, b, func(t string) (int, error) {
				n, ok := score.RunsOf(t)
				if !ok {
					return 0, strconv.ErrSyntax
				}
				return n, nil
			})
		}
		return collator.CompareString(a, b), false
	}
	sort.SliceStable(rows, func(i, j int) bool {
		c, unparsed := compare(rows[i].Cell(s.Column), rows[j].Cell(s.Column))
		if unparsed || s.Ascending {
			return c < 0
		}
		return c > 0
	})
}

// compareNumeric returns the ordering of a and b by parsed value. When either
// side fails to parse, the result already puts the failing side last and the
// second return value is true so callers do not invert it.
func compareNumeric(a, b string, parse func(string) (int, error)) (int, bool) {
	x, errA := parse(strings.TrimSpace(a))
	y, errB := parse(strings.TrimSpace(b))
	switch {
	case errA != nil && errB != nil:
		return 0, true
	case errA != nil:
		return 1, true
	case errB != nil:
		return -1, true
	case x < y:
		return -1, false
	case x > y:
		return 1, false
	default:
		return 0, false
	}
}

// Details returns the raw-record table for the visible rows: every key seen
// across them, in header order then first-seen order, with blanks as N/A.
func (v View) Details(header []string) ([]string, [][]string) {
	seen := make(map[string]bool)
	var keys []string
	for _, r := range v.visible {
		for _, k := range r.Record.Keys(header) {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	rows := make([][]string, len(v.visible))
	for i, r := range v.visible {
		cells := make([]string, len(keys))
		for j, k := range keys {
			cells[j] = r.Record.Display(k)
		}
		rows[i] = cells
	}
	return keys, rows
}

// Years returns the distinct years across the base rows, ascending.
func (v View) Years() []int {
	records := make([]model.Record, len(v.base))
	for i, r := range v.base {
		records[i] = r.Record
	}
	return model.DistinctYears(records)
}
