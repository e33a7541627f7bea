package model

import (
	"reflect"
	"testing"

	"github.com/pable/cricanalyze/internal/score"
)

func TestRecordAccessors(t *testing.T) {
	r := Record{"year": " 2021 ", "20over": "150/3", "6over": "  ", "10over": "bad", "result": ""}

	if y, ok := r.Year(); !ok || y != 2021 {
		t.Errorf("Year() = %d, %v; want 2021, true", y, ok)
	}
	if p, ok := r.Score(20); !ok || p != (score.Point{Runs: 150, Wickets: 3}) {
		t.Errorf("Score(20) = %v, %v", p, ok)
	}
	if _, ok := r.Score(6); ok {
		t.Error("blank checkpoint should be missing")
	}
	if _, ok := r.Score(10); ok {
		t.Error("malformed checkpoint should be missing")
	}
	if got := r.Display("6over"); got != score.NA {
		t.Errorf("Display(6over) = %q, want N/A", got)
	}
	if got := r.Result(); got != ResultUnknown {
		t.Errorf("Result() = %q, want unknown", got)
	}
	if _, ok := (Record{"year": "twenty"}).Year(); ok {
		t.Error("non-numeric year should not parse")
	}
}

func TestRecordKeys(t *testing.T) {
	r := Record{"result": "chased", "year": "2021", "zeta": "1", "alpha": "2"}
	got := r.Keys([]string{"year", "20over", "result"})
	want := []string{"year", "result", "alpha", "zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestDistinctYears(t *testing.T) {
	records := []Record{{"year": "2022"}, {"year": "2020"}, {"year": "2022"}, {"year": ""}, {}}
	got := DistinctYears(records)
	if !reflect.DeepEqual(got, []int{2020, 2022}) {
		t.Errorf("DistinctYears() = %v", got)
	}

	var nilDS *Dataset
	if nilDS.Len() != 0 || nilDS.Years() != nil {
		t.Error("nil dataset should be empty")
	}
}

func TestCheckpointKey(t *testing.T) {
	if got := CheckpointKey(26); got != "26over" {
		t.Errorf("CheckpointKey(26) = %q", got)
	}
}
