// Package report renders analysis results as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/cricanalyze/internal/analyzer"
	"github.com/pable/cricanalyze/internal/score"
	"github.com/pable/cricanalyze/internal/stats"
	"github.com/pable/cricanalyze/internal/storage"
	"github.com/pable/cricanalyze/internal/view"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// headerFor marks the sorted column with its direction.
func headerFor(columns []string, s view.SortState) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c
		if c == s.Column {
			if s.Ascending {
				out[i] += " ^"
			} else {
				out[i] += " v"
			}
		}
	}
	return out
}

// PrintStats prints the win probability line.
func PrintStats(w io.Writer, s stats.WinRate) {
	fmt.Fprintf(w, "Win Probability: %s\n", s)
}

// PrintFilter prints how many rows are visible and which filters are on.
func PrintFilter(w io.Writer, v view.View) {
	parts := []string{fmt.Sprintf("Showing %d of %d", v.Len(), v.Total())}
	f := v.Filter()
	if len(f.Years) > 0 {
		ys := make([]string, len(f.Years))
		for i, y := range f.Years {
			ys[i] = strconv.Itoa(y)
		}
		parts = append(parts, "years: "+strings.Join(ys, ","))
	}
	if f.Range != nil {
		parts = append(parts, "range: "+f.Range.String())
	}
	if f.Result != "" {
		parts = append(parts, "result: "+f.Result)
	}
	if f.MinAgreement > 0 {
		parts = append(parts, fmt.Sprintf("min matches: %d", f.MinAgreement))
	}
	if s := v.Sort(); s.Column != "" {
		dir := "desc"
		if s.Ascending {
			dir = "asc"
		}
		parts = append(parts, fmt.Sprintf("sort: %s %s", s.Column, dir))
	}
	fmt.Fprintln(w, strings.Join(parts, "  |  "))
}

// PrintChaseResult prints the chase header, statistics and table. Rows also
// found by the session's latest match query are marked with ">".
func PrintChaseResult(w io.Writer, res *analyzer.ChaseResult, cross analyzer.CrossRef) {
	fmt.Fprintln(w)
	for _, line := range res.Header() {
		fmt.Fprintln(w, line)
	}
	PrintStats(w, res.View.Stats())
	if res.Total() == 0 {
		return
	}
	PrintFilter(w, res.View)
	fmt.Fprintln(w)

	table := newTable(w)
	table.Header(toAny(append([]string{" "}, headerFor(res.View.Columns(), res.View.Sort())...))...)
	for _, r := range res.View.Rows() {
		marker := " "
		if cross.Contains(r.Record) {
			marker = ">"
		}
		cells := []string{marker}
		for _, c := range res.View.Columns() {
			cells = append(cells, r.Cell(c))
		}
		table.Append(toAny(cells)...)
	}
	table.Render()
}

// PrintMatchResult prints the match statistics and table. A cell whose
// signal agreed on runs is suffixed "*", on runs and wickets "**".
func PrintMatchResult(w io.Writer, res *analyzer.MatchResult) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total matches: %d\n", res.Total())
	PrintStats(w, res.View.Stats())
	if res.Total() == 0 {
		fmt.Fprintln(w, "No matching innings found.")
		return
	}
	PrintFilter(w, res.View)
	fmt.Fprintln(w)

	columns := res.View.Columns()
	table := newTable(w)
	table.Header(toAny(append(headerFor(columns, res.View.Sort()), "MATCHES"))...)
	for _, r := range res.View.Rows() {
		cells := make([]string, 0, len(columns)+1)
		for _, c := range columns {
			cell := r.Cell(c)
			if sig := analyzer.SignalForColumn(c); sig != "" {
				switch runs, wickets := r.Agrees(sig); {
				case wickets:
					cell += "**"
				case runs:
					cell += "*"
				}
			}
			cells = append(cells, cell)
		}
		cells = append(cells, strconv.Itoa(r.MatchCount))
		table.Append(toAny(cells)...)
	}
	table.Render()
	fmt.Fprintln(w, "* runs match   ** runs and wickets match")
}

// PrintDetails prints every raw field of the visible rows.
func PrintDetails(w io.Writer, v view.View, header []string) {
	if v.Len() == 0 {
		fmt.Fprintln(w, "No matches to show details for.")
		return
	}
	keys, rows := v.Details(header)
	table := newTable(w)
	table.Header(toAny(keys)...)
	for _, r := range rows {
		table.Append(toAny(r)...)
	}
	table.Render()
}

// PrintOptions lists the years and score ranges a result can be filtered by.
func PrintOptions(w io.Writer, years []int, ranges []score.Range) {
	ys := make([]string, len(years))
	for i, y := range years {
		ys[i] = strconv.Itoa(y)
	}
	rs := make([]string, len(ranges))
	for i, r := range ranges {
		rs[i] = r.String()
	}
	fmt.Fprintf(w, "Years:  %s\n", strings.Join(ys, " "))
	fmt.Fprintf(w, "Ranges: %s\n", strings.Join(rs, " "))
}

// PrintDatasets prints the stored datasets.
func PrintDatasets(w io.Writer, list []storage.DatasetInfo) {
	table := newTable(w)
	table.Header("NAME", "ROWS", "COLUMNS", "IMPORTED", "SOURCE")
	for _, d := range list {
		imported := "—"
		if !d.ImportedAt.IsZero() {
			imported = humanize.Time(d.ImportedAt)
		}
		table.Append(d.Name, humanize.Comma(int64(d.Rows)), strconv.Itoa(d.Columns), imported, d.Source)
	}
	table.Render()
}

// PrintOverview prints the per-season breakdown of a dataset.
func PrintOverview(w io.Writer, overview []storage.YearSummary) {
	table := newTable(w)
	table.Header("YEAR", "INNINGS", "CHASED", "DEFEND", "UNKNOWN", "CHASED%")
	var total storage.YearSummary
	for _, y := range overview {
		table.Append(
			strconv.Itoa(y.Year),
			humanize.Comma(int64(y.Innings)),
			strconv.Itoa(y.Chased),
			strconv.Itoa(y.Defend),
			strconv.Itoa(y.Unknown),
			chasedPct(y),
		)
		total.Innings += y.Innings
		total.Chased += y.Chased
		total.Defend += y.Defend
		total.Unknown += y.Unknown
	}
	table.Append(
		"ALL",
		humanize.Comma(int64(total.Innings)),
		strconv.Itoa(total.Chased),
		strconv.Itoa(total.Defend),
		strconv.Itoa(total.Unknown),
		chasedPct(total),
	)
	table.Render()
}

func chasedPct(y storage.YearSummary) string {
	known := y.Chased + y.Defend
	if known == 0 {
		return "—"
	}
	return fmt.Sprintf("%.2f%%", float64(y.Chased)/float64(known)*100)
}

// PrintRaw prints the result of a raw SQL query.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)
	table.Header(toAny(cols)...)
	for _, row := range rows {
		table.Append(toAny(row)...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}
