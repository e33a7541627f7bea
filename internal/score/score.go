// Package score parses "runs/wickets" checkpoint text and classifies run
// totals into the range buckets used by the analyzers.
package score

import (
	"fmt"
	"strconv"
	"strings"
)

// NA is the display value for a missing or uncomputable score.
const NA = "N/A"

// MaxWickets is the most wickets an innings can lose.
const MaxWickets = 10

// Point is a score at a checkpoint: runs scored and wickets fallen.
type Point struct {
	Runs    int
	Wickets int
}

func (p Point) String() string {
	return fmt.Sprintf("%d/%d", p.Runs, p.Wickets)
}

// Delta is the component-wise difference between two points. Either component
// may be negative when the underlying data is inconsistent.
type Delta struct {
	Runs    int
	Wickets int
}

func (d Delta) String() string {
	return fmt.Sprintf("%d/%d", d.Runs, d.Wickets)
}

// Parse reads "R/W" text. ok is false unless there are exactly two integer
// parts, runs is non-negative and wickets is within [0, MaxWickets].
func Parse(text string) (p Point, ok bool) {
	parts := strings.Split(strings.TrimSpace(text), "/")
	if len(parts) != 2 {
		return Point{}, false
	}
	runs, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || runs < 0 {
		return Point{}, false
	}
	wickets, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || wickets < 0 || wickets > MaxWickets {
		return Point{}, false
	}
	return Point{Runs: runs, Wickets: wickets}, true
}

// Sub returns later minus earlier.
func Sub(later, earlier Point) Delta {
	return Delta{Runs: later.Runs - earlier.Runs, Wickets: later.Wickets - earlier.Wickets}
}

// Difference formats later minus earlier as "Δruns/Δwickets", or NA when
// either side is blank or malformed.
func Difference(later, earlier string) string {
	l, ok := Parse(later)
	if !ok {
		return NA
	}
	e, ok := Parse(earlier)
	if !ok {
		return NA
	}
	return Sub(l, e).String()
}

// RunsOf returns the run component of display text such as "150/4" or a
// difference like "-3/1". Only the part before the first "/" is read.
func RunsOf(text string) (int, bool) {
	head, _, found := strings.Cut(strings.TrimSpace(text), "/")
	if !found {
		return 0, false
	}
	runs, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, false
	}
	return runs, true
}
