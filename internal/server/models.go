package server

import (
	"github.com/pable/cricanalyze/internal/analyzer"
	"github.com/pable/cricanalyze/internal/score"
	"github.com/pable/cricanalyze/internal/stats"
	"github.com/pable/cricanalyze/internal/view"
)

// ChaseRequest is the body of a chase query.
type ChaseRequest struct {
	Score  string `json:"score"`
	Over   int    `json:"over"`
	Range  string `json:"range,omitempty"`
	Target string `json:"target,omitempty"`
}

// MatchRequest is the body of a match query. Blank scores are left out.
type MatchRequest struct {
	Score6  string `json:"score_6"`
	Score10 string `json:"score_10"`
	Score15 string `json:"score_15"`
	Score20 string `json:"score_20"`
}

// ViewRequest is one filter or sort action on the latest result.
//
// Action is one of "years", "range", "result", "min" or "sort"; only the
// field it names is read.
type ViewRequest struct {
	Action string `json:"action"`
	Years  []int  `json:"years,omitempty"`
	Range  string `json:"range,omitempty"`
	Result string `json:"result,omitempty"`
	Min    int    `json:"min,omitempty"`
	Column string `json:"column,omitempty"`
}

// RowJSON is one visible result row.
type RowJSON struct {
	Cells            map[string]string `json:"cells"`
	MatchCount       int               `json:"match_count,omitempty"`
	MatchesAt        []string          `json:"matches_at,omitempty"`
	MatchesWicketsAt []string          `json:"matches_wickets_at,omitempty"`
	Highlighted      bool              `json:"highlighted,omitempty"`
}

// ResultResponse is a chase or match result as currently filtered.
type ResultResponse struct {
	Header  []string       `json:"header,omitempty"`
	Columns []string       `json:"columns"`
	Rows    []RowJSON      `json:"rows"`
	Total   int            `json:"total"`
	Visible int            `json:"visible"`
	Years   []int          `json:"years"`
	Ranges  []string       `json:"ranges"`
	Stats   stats.WinRate  `json:"stats"`
	Sort    view.SortState `json:"sort"`
}

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	ID string `json:"id"`
}

func rangeLabels(rs []score.Range) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return out
}

func rowsJSON(v view.View, highlight func(view.Row) bool) []RowJSON {
	out := make([]RowJSON, 0, v.Len())
	for _, r := range v.Rows() {
		cells := make(map[string]string, len(v.Columns()))
		for _, c := range v.Columns() {
			cells[c] = r.Cell(c)
		}
		out = append(out, RowJSON{
			Cells:            cells,
			MatchCount:       r.MatchCount,
			MatchesAt:        r.MatchesAt,
			MatchesWicketsAt: r.MatchesWicketsAt,
			Highlighted:      highlight != nil && highlight(r),
		})
	}
	return out
}

func chaseResponse(res *analyzer.ChaseResult, cross analyzer.CrossRef) ResultResponse {
	v := res.View
	return ResultResponse{
		Header:  res.Header(),
		Columns: v.Columns(),
		Rows:    rowsJSON(v, func(r view.Row) bool { return cross.Contains(r.Record) }),
		Total:   v.Total(),
		Visible: v.Len(),
		Years:   res.Years,
		Ranges:  rangeLabels(res.Buckets),
		Stats:   v.Stats(),
		Sort:    v.Sort(),
	}
}

func matchResponse(res *analyzer.MatchResult) ResultResponse {
	v := res.View
	return ResultResponse{
		Columns: v.Columns(),
		Rows:    rowsJSON(v, nil),
		Total:   v.Total(),
		Visible: v.Len(),
		Years:   res.Years,
		Ranges:  rangeLabels(res.Ranges),
		Stats:   v.Stats(),
		Sort:    v.Sort(),
	}
}
