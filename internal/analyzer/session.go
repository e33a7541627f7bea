// Package analyzer matches a query against the historical innings dataset.
//
// A Session is one analysis session: it remembers the first-innings target
// captured by chase queries and the most recent result of each analyzer. A
// Session is not safe for concurrent use; each query replaces the previous
// result of its kind.
package analyzer

import (
	"errors"
	"fmt"

	"github.com/pable/cricanalyze/internal/dataset"
	"github.com/pable/cricanalyze/internal/model"
	"github.com/pable/cricanalyze/internal/score"
	"github.com/pable/cricanalyze/internal/view"
)

// ValidationError reports a query that cannot be run as given. No matching
// is performed and the session state is left untouched.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Source supplies the dataset snapshot. It returns dataset.ErrNotReady
// while the dataset is still loading.
type Source interface {
	Dataset() (*model.Dataset, error)
}

// Static is a Source over an already-loaded dataset.
type Static struct {
	Data *model.Dataset
}

// Dataset returns the wrapped dataset, or dataset.ErrNotReady when nil.
func (s Static) Dataset() (*model.Dataset, error) {
	if s.Data == nil {
		return nil, dataset.ErrNotReady
	}
	return s.Data, nil
}

// ChaseState is the first-innings context carried between chase queries.
type ChaseState struct {
	FirstInningsDone bool
	TargetRuns       int
	ScoreRange       *score.Range
}

// Session holds per-session analysis state.
type Session struct {
	src       Source
	chase     ChaseState
	lastChase *ChaseResult
	lastMatch *MatchResult
}

// NewSession returns a session with no captured target.
func NewSession(src Source) *Session {
	return &Session{src: src}
}

// ChaseState returns a copy of the remembered first-innings context.
func (s *Session) ChaseState() ChaseState {
	st := s.chase
	if st.ScoreRange != nil {
		r := *st.ScoreRange
		st.ScoreRange = &r
	}
	return st
}

// NeedsTarget reports whether a chase query at over must come with an
// explicit first-innings target.
func (s *Session) NeedsTarget(over int) bool {
	return over > model.FirstInningsOver && !s.chase.FirstInningsDone
}

// LastChase returns the most recent chase result, or nil.
func (s *Session) LastChase() *ChaseResult { return s.lastChase }

// LastMatch returns the most recent match result, or nil.
func (s *Session) LastMatch() *MatchResult { return s.lastMatch }

// ErrNoResult is returned when a view action arrives before any query.
var ErrNoResult = errors.New("no analysis has been run yet")

// ApplyChase applies a filter or sort action to the latest chase result.
func (s *Session) ApplyChase(a view.Action) (*ChaseResult, error) {
	if s.lastChase == nil {
		return nil, ErrNoResult
	}
	s.lastChase.View = s.lastChase.View.Dispatch(a)
	return s.lastChase, nil
}

// ApplyMatch applies a filter or sort action to the latest match result.
func (s *Session) ApplyMatch(a view.Action) (*MatchResult, error) {
	if s.lastMatch == nil {
		return nil, ErrNoResult
	}
	if _, ok := a.(view.SelectResult); ok {
		return nil, invalid("result filter is only available for chase analysis")
	}
	s.lastMatch.View = s.lastMatch.View.Dispatch(a)
	return s.lastMatch, nil
}

func (s *Session) dataset() (*model.Dataset, error) {
	if s.src == nil {
		return nil, dataset.ErrNotReady
	}
	return s.src.Dataset()
}

func (s *Session) captureTarget(runs int, explicit *score.Range) {
	s.chase.FirstInningsDone = true
	s.chase.TargetRuns = runs
	if explicit != nil {
		s.chase.ScoreRange = explicit
		return
	}
	b := score.BucketOf(runs)
	s.chase.ScoreRange = &b
}
