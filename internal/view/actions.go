package view

import (
	"fmt"
	"strings"

	"github.com/pable/cricanalyze/internal/model"
	"github.com/pable/cricanalyze/internal/score"
)

// Action is a user interaction on a result table.
type Action interface {
	apply(View) View
}

// SelectYears replaces the year selection. An empty list clears it.
type SelectYears struct {
	Years []int
}

func (a SelectYears) apply(v View) View {
	v.filter.Years = append([]int(nil), a.Years...)
	return v
}

// SelectRange restricts rows to a 20-over bucket. A nil Range clears it.
type SelectRange struct {
	Range *score.Range
}

func (a SelectRange) apply(v View) View {
	if a.Range == nil {
		v.filter.Range = nil
		return v
	}
	r := *a.Range
	v.filter.Range = &r
	return v
}

// SelectResult restricts rows to one outcome label. Empty clears it.
type SelectResult struct {
	Result string
}

func (a SelectResult) apply(v View) View {
	v.filter.Result = strings.ToLower(strings.TrimSpace(a.Result))
	return v
}

// MinAgreement keeps rows with at least N agreeing signals. Zero clears it.
type MinAgreement struct {
	N int
}

func (a MinAgreement) apply(v View) View {
	v.filter.MinAgreement = a.N
	return v
}

// SortBy sorts on Column. Selecting the column already sorted ascending flips
// it to descending; any other selection starts ascending.
type SortBy struct {
	Column string
}

func (a SortBy) apply(v View) View {
	asc := !(v.sort.Column == a.Column && v.sort.Ascending)
	v.sort = SortState{Column: a.Column, Ascending: asc}
	return v
}

// ParseRangeAction builds a SelectRange from a label; "", "all" and "*"
// clear the selection.
func ParseRangeAction(label string) (SelectRange, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "all", "*":
		return SelectRange{}, nil
	}
	r, ok := score.ParseRange(label)
	if !ok {
		return SelectRange{}, fmt.Errorf("invalid score range %q (want e.g. 140-149 or 200+)", label)
	}
	return SelectRange{Range: &r}, nil
}

// ParseResultAction builds a SelectResult from a label; "", "all" and "*"
// clear the selection.
func ParseResultAction(label string) (SelectResult, error) {
	switch l := strings.ToLower(strings.TrimSpace(label)); l {
	case "", "all", "*":
		return SelectResult{}, nil
	case model.ResultChased, model.ResultDefend:
		return SelectResult{Result: l}, nil
	}
	return SelectResult{}, fmt.Errorf("invalid result %q (want chased, defend or all)", label)
}
