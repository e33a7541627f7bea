// Package stats computes chase/defend frequencies over a result set.
package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/pable/cricanalyze/internal/model"
)

// Labeled is anything carrying an outcome label.
type Labeled interface {
	Result() string
}

// WinRate holds chased and defended percentages over the rows whose outcome
// is known. Both are zero when no row has a known outcome.
type WinRate struct {
	Chased float64 `json:"chased_pct"`
	Defend float64 `json:"defend_pct"`
	Valid  int     `json:"valid"`
}

func (w WinRate) String() string {
	return fmt.Sprintf("Chased: %.2f%% | Defended: %.2f%%", w.Chased, w.Defend)
}

// Compute partitions rows by case-insensitive outcome label. Labels other
// than chased/defend are left out of the denominator. Percentages are rounded
// to two decimals and Defend is taken as the complement so the pair always
// sums to 100.00 when Valid > 0.
func Compute[T Labeled](rows []T) WinRate {
	var chased, defend int
	for _, r := range rows {
		switch strings.ToLower(strings.TrimSpace(r.Result())) {
		case model.ResultChased:
			chased++
		case model.ResultDefend:
			defend++
		}
	}
	total := chased + defend
	if total == 0 {
		return WinRate{}
	}
	c := round2(float64(chased) / float64(total) * 100)
	return WinRate{Chased: c, Defend: round2(100 - c), Valid: total}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
