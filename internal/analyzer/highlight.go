package analyzer

import (
	"github.com/pable/cricanalyze/internal/model"
	"github.com/pable/cricanalyze/internal/score"
)

// CrossRef answers whether a chase row was also found by a match query.
type CrossRef struct {
	keys map[[4]score.Point]bool
}

// NewCrossRef indexes the full (unfiltered) rows of a match result by their
// four first-innings checkpoints. Rows missing any checkpoint are not indexed.
func NewCrossRef(m *MatchResult) CrossRef {
	cr := CrossRef{keys: make(map[[4]score.Point]bool)}
	if m == nil {
		return cr
	}
	for _, r := range m.View.Base() {
		if k, ok := checkpointKey(r.Record); ok {
			cr.keys[k] = true
		}
	}
	return cr
}

// Contains reports whether rec's 6, 10, 15 and 20 over scores all equal, in
// runs and wickets, those of some indexed match row.
func (c CrossRef) Contains(rec model.Record) bool {
	if len(c.keys) == 0 {
		return false
	}
	k, ok := checkpointKey(rec)
	return ok && c.keys[k]
}

func checkpointKey(rec model.Record) ([4]score.Point, bool) {
	var k [4]score.Point
	for i, over := range matchOvers {
		p, ok := rec.Score(over)
		if !ok {
			return k, false
		}
		k[i] = p
	}
	return k, true
}

// CrossRef returns the highlighter for the session's latest match result.
func (s *Session) CrossRef() CrossRef {
	return NewCrossRef(s.lastMatch)
}
