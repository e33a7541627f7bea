package score

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TopBucketStart is where the open-ended chase bucket begins.
const TopBucketStart = 200

// Range is an inclusive run range. An Unbounded range has no upper limit and
// High is ignored.
type Range struct {
	Low       int
	High      int
	Unbounded bool
}

// Contains reports whether runs falls inside r, inclusive at both ends.
func (r Range) Contains(runs int) bool {
	if runs < r.Low {
		return false
	}
	return r.Unbounded || runs <= r.High
}

// String returns the bucket label, e.g. "140-149" or "200+".
func (r Range) String() string {
	if r.Unbounded {
		return fmt.Sprintf("%d+", r.Low)
	}
	return fmt.Sprintf("%d-%d", r.Low, r.High)
}

// BucketOf returns the chase analyzer's decade bucket for a 20-over total.
func BucketOf(runs int) Range {
	if runs >= TopBucketStart {
		return Range{Low: TopBucketStart, Unbounded: true}
	}
	start := runs / 10 * 10
	return Range{Low: start, High: start + 9}
}

// MatchRanges is the fixed list of 20-over ranges offered by the match
// analyzer. The upper ranges overlap at their boundaries.
var MatchRanges = []Range{
	{Low: 120, High: 129},
	{Low: 130, High: 139},
	{Low: 140, High: 149},
	{Low: 150, High: 159},
	{Low: 160, High: 169},
	{Low: 170, High: 179},
	{Low: 180, High: 189},
	{Low: 190, High: 199},
	{Low: 200, High: 210},
	{Low: 210, High: 220},
	{Low: 220, High: 230},
	{Low: 230, High: 300},
}

// ParseRange parses a bucket label such as "140-149" or "200+".
func ParseRange(label string) (Range, bool) {
	label = strings.TrimSpace(label)
	if low, found := strings.CutSuffix(label, "+"); found {
		n, err := strconv.Atoi(low)
		if err != nil {
			return Range{}, false
		}
		return Range{Low: n, Unbounded: true}, true
	}
	lowStr, highStr, found := strings.Cut(label, "-")
	if !found {
		return Range{}, false
	}
	low, err := strconv.Atoi(strings.TrimSpace(lowStr))
	if err != nil {
		return Range{}, false
	}
	high, err := strconv.Atoi(strings.TrimSpace(highStr))
	if err != nil || high < low {
		return Range{}, false
	}
	return Range{Low: low, High: high}, true
}

// SortRanges orders ranges by their lower bound.
func SortRanges(rs []Range) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Low < rs[j].Low })
}
