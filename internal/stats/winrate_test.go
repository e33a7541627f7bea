package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pable/cricanalyze/internal/model"
)

func records(results ...string) []model.Record {
	out := make([]model.Record, len(results))
	for i, r := range results {
		out[i] = model.Record{model.KeyResult: r}
	}
	return out
}

func TestComputeNoValidResults(t *testing.T) {
	assert.Equal(t, WinRate{}, Compute(records()))
	got := Compute(records("", "tie", "no result"))
	assert.Equal(t, 0.0, got.Chased)
	assert.Equal(t, 0.0, got.Defend)
	assert.Equal(t, 0, got.Valid)
	assert.Equal(t, "Chased: 0.00% | Defended: 0.00%", got.String())
}

func TestComputeIgnoresUnknownAndCase(t *testing.T) {
	got := Compute(records("Chased", "DEFEND", "defend", "abandoned", " chased "))
	assert.Equal(t, 4, got.Valid)
	assert.Equal(t, 50.0, got.Chased)
	assert.Equal(t, 50.0, got.Defend)
}

func TestComputeSumsToHundred(t *testing.T) {
	tests := []struct {
		chased, defend int
	}{
		{1, 2}, {1, 5}, {2, 5}, {5, 6}, {7, 0}, {0, 3}, {13, 17}, {1, 8},
	}
	for _, tt := range tests {
		var labels []string
		for i := 0; i < tt.chased; i++ {
			labels = append(labels, "chased")
		}
		for i := 0; i < tt.defend; i++ {
			labels = append(labels, "defend")
		}
		got := Compute(records(labels...))
		assert.InDelta(t, 100.0, got.Chased+got.Defend, 1e-9, "%d/%d", tt.chased, tt.defend)
	}
}

func TestComputeRounding(t *testing.T) {
	got := Compute(records("chased", "defend", "defend"))
	assert.Equal(t, 33.33, got.Chased)
	assert.Equal(t, 66.67, got.Defend)
	assert.Equal(t, "Chased: 33.33% | Defended: 66.67%", got.String())
}
