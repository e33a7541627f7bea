// Package model defines the historical innings record read from the dataset.
package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pable/cricanalyze/internal/score"
)

// Well-known record keys. Header keys are lower-cased when a table is parsed.
const (
	KeyYear   = "year"
	KeyResult = "result"
)

// Outcome labels, compared case-insensitively.
const (
	ResultChased  = "chased"
	ResultDefend  = "defend"
	ResultUnknown = "unknown"
)

// Checkpoints lists the overs at which the historical dataset records a score.
var Checkpoints = []int{6, 10, 15, 20, 26, 30, 35, 40}

// FirstInningsOver is the checkpoint holding the first-innings total.
const FirstInningsOver = 20

// MaxOver is the last selectable over.
const MaxOver = 40

// CheckpointKey returns the record key for an over, e.g. "20over".
func CheckpointKey(over int) string {
	return fmt.Sprintf("%dover", over)
}

// Record is one historical innings keyed by lower-case column header.
//
// Every field is optional. Year is integer text, checkpoint fields
// ("6over" ... "40over") hold "runs/wickets" and result holds a free-text
// outcome. Accessors report absence instead of assuming presence; records are
// never modified once loaded.
type Record map[string]string

// Get returns the trimmed value for key and whether it is non-blank.
func (r Record) Get(key string) (string, bool) {
	v := strings.TrimSpace(r[key])
	return v, v != ""
}

// Display returns the value for key, or score.NA when absent.
func (r Record) Display(key string) string {
	if v, ok := r.Get(key); ok {
		return v
	}
	return score.NA
}

// Checkpoint returns the raw score text recorded at over.
func (r Record) Checkpoint(over int) (string, bool) {
	return r.Get(CheckpointKey(over))
}

// Score parses the score at over. Malformed text is treated as missing.
func (r Record) Score(over int) (score.Point, bool) {
	text, ok := r.Checkpoint(over)
	if !ok {
		return score.Point{}, false
	}
	return score.Parse(text)
}

// Year returns the parsed season year.
func (r Record) Year() (int, bool) {
	v, ok := r.Get(KeyYear)
	if !ok {
		return 0, false
	}
	y, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return y, true
}

// Result returns the outcome label, or ResultUnknown when blank.
func (r Record) Result() string {
	if v, ok := r.Get(KeyResult); ok {
		return v
	}
	return ResultUnknown
}

// Keys returns the record's keys in the order given by header, followed by
// any keys not in header in sorted order.
func (r Record) Keys(header []string) []string {
	seen := make(map[string]bool, len(r))
	out := make([]string, 0, len(r))
	for _, k := range header {
		if _, ok := r[k]; ok && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	var rest []string
	for k := range r {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Dataset is an immutable snapshot of historical innings plus the header order
// they were read with.
type Dataset struct {
	Header  []string
	Records []Record
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Years returns the distinct parseable years in ascending order.
func (d *Dataset) Years() []int {
	if d == nil {
		return nil
	}
	return DistinctYears(d.Records)
}

// DistinctYears returns the distinct parseable years of records, ascending.
func DistinctYears(records []Record) []int {
	seen := make(map[int]bool)
	var out []int
	for _, r := range records {
		if y, ok := r.Year(); ok && !seen[y] {
			seen[y] = true
			out = append(out, y)
		}
	}
	sort.Ints(out)
	return out
}
