// Package view narrows and orders an analyzer's matched rows. A View keeps
// the full matched set and derives the visible rows from it, so filters can
// always be loosened again.
package view

import (
	"github.com/pable/cricanalyze/internal/model"
	"github.com/pable/cricanalyze/internal/score"
)

// Column names shared by the chase and match tables.
const (
	ColYear   = "Year"
	ColResult = "Result"
	Col20     = "20ov"
)

// Row is one matched historical innings plus its display cells.
type Row struct {
	Record model.Record
	Cells  map[string]string

	// Match engine only: number of agreeing signals, their names, and the
	// subset that also agreed on wickets.
	MatchCount       int
	MatchesAt        []string
	MatchesWicketsAt []string
}

// Cell returns the display value of column, or score.NA.
func (r Row) Cell(column string) string {
	if v, ok := r.Cells[column]; ok && v != "" {
		return v
	}
	return score.NA
}

// Result returns the row's outcome label.
func (r Row) Result() string {
	if v, ok := r.Cells[ColResult]; ok && v != "" {
		return v
	}
	return r.Record.Result()
}

// Agrees reports whether signal agreed on runs, and whether it also agreed on
// wickets.
func (r Row) Agrees(signal string) (runs, wickets bool) {
	for _, s := range r.MatchesAt {
		if s == signal {
			runs = true
			break
		}
	}
	if !runs {
		return false, false
	}
	for _, s := range r.MatchesWicketsAt {
		if s == signal {
			return true, true
		}
	}
	return true, false
}
