package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/cricanalyze/internal/model"
	"github.com/pable/cricanalyze/internal/score"
)

func makeRow(year, s20, result string, count int) Row {
	rec := model.Record{"year": year, "20over": s20, "result": result}
	return Row{
		Record: rec,
		Cells: map[string]string{
			ColYear:   year,
			Col20:     rec.Display("20over"),
			ColResult: result,
			"Team":    "team-" + year,
		},
		MatchCount: count,
	}
}

func fixture() View {
	return New([]string{ColYear, Col20, ColResult}, []Row{
		makeRow("2021", "150/3", "chased", 1),
		makeRow("2020", "162/5", "defend", 3),
		makeRow("2022", "", "Chased", 2),
		makeRow("2020", "98/9", "tie", 1),
		makeRow("2023", "205/2", "defend", 4),
	})
}

func years(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Cell(ColYear)
	}
	return out
}

func TestEmptyYearSelectionIsUnrestricted(t *testing.T) {
	v := fixture().Dispatch(SelectYears{Years: []int{2020}})
	require.Equal(t, 2, v.Len())

	v = v.Dispatch(SelectYears{})
	assert.Equal(t, v.Total(), v.Len())
}

func TestYearSelectionExcludingAllYears(t *testing.T) {
	v := fixture().Dispatch(SelectYears{Years: []int{1999}})
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 5, v.Total())
	st := v.Stats()
	assert.Equal(t, 0.0, st.Chased)
	assert.Equal(t, 0.0, st.Defend)
}

func TestFiltersStartFromBaseSet(t *testing.T) {
	v := fixture().Dispatch(SelectYears{Years: []int{2021}})
	require.Equal(t, 1, v.Len())

	// Loosening the selection brings rows back rather than filtering the
	// already-narrowed set.
	v = v.Dispatch(SelectYears{Years: []int{2020, 2023}})
	assert.Equal(t, []string{"2020", "2020", "2023"}, years(v.Rows()))
}

func TestRangeFilter(t *testing.T) {
	r, _ := score.ParseRange("150-169")
	v := fixture().Dispatch(SelectRange{Range: &r})
	assert.Equal(t, []string{"2021", "2020"}, years(v.Rows()))

	top, _ := score.ParseRange("200+")
	v = v.Dispatch(SelectRange{Range: &top})
	assert.Equal(t, []string{"2023"}, years(v.Rows()))

	v = v.Dispatch(SelectRange{})
	assert.Equal(t, 5, v.Len())
}

func TestRangeFilterSkipsMissingTotals(t *testing.T) {
	r, _ := score.ParseRange("0-300")
	v := fixture().Dispatch(SelectRange{Range: &r})
	assert.Equal(t, 4, v.Len(), "row with no 20-over score must be excluded")
}

func TestResultAndAgreementFilters(t *testing.T) {
	v := fixture().Dispatch(SelectResult{Result: "CHASED"})
	assert.Equal(t, []string{"2021", "2022"}, years(v.Rows()))
	assert.Equal(t, 100.0, v.Stats().Chased)

	v = fixture().Dispatch(MinAgreement{N: 3})
	assert.Equal(t, []string{"2020", "2023"}, years(v.Rows()))

	v = v.Dispatch(MinAgreement{})
	assert.Equal(t, 5, v.Len())
}

func TestSortToggle(t *testing.T) {
	v := fixture().Dispatch(SortBy{Column: ColYear})
	assert.Equal(t, SortState{Column: ColYear, Ascending: true}, v.Sort())
	assert.Equal(t, []string{"2020", "2020", "2021", "2022", "2023"}, years(v.Rows()))

	v = v.Dispatch(SortBy{Column: ColYear})
	assert.False(t, v.Sort().Ascending)
	assert.Equal(t, []string{"2023", "2022", "2021", "2020", "2020"}, years(v.Rows()))

	v = v.Dispatch(SortBy{Column: ColYear})
	assert.True(t, v.Sort().Ascending)
}

func TestSortDifferentColumnResetsToggle(t *testing.T) {
	v := fixture().Dispatch(SortBy{Column: ColYear})
	v = v.Dispatch(SortBy{Column: Col20})
	assert.Equal(t, SortState{Column: Col20, Ascending: true}, v.Sort())

	v = v.Dispatch(SortBy{Column: ColYear})
	assert.Equal(t, SortState{Column: ColYear, Ascending: true}, v.Sort())
}

func TestSortScoreColumnByRuns(t *testing.T) {
	v := fixture().Dispatch(SortBy{Column: Col20})
	got := make([]string, 0, v.Len())
	for _, r := range v.Rows() {
		got = append(got, r.Cell(Col20))
	}
	assert.Equal(t, []string{"98/9", "150/3", "162/5", "205/2", score.NA}, got)

	v = v.Dispatch(SortBy{Column: Col20})
	got = got[:0]
	for _, r := range v.Rows() {
		got = append(got, r.Cell(Col20))
	}
	assert.Equal(t, []string{"205/2", "162/5", "150/3", "98/9", score.NA}, got,
		"unreadable scores stay last when descending")
}

func TestSortLexicalFallback(t *testing.T) {
	v := fixture().Dispatch(SortBy{Column: ColResult})
	got := make([]string, 0, v.Len())
	for _, r := range v.Rows() {
		got = append(got, r.Cell(ColResult))
	}
	assert.Equal(t, []string{"chased", "Chased", "defend", "defend", "tie"}, got)
}

func TestSortSurvivesFilterChanges(t *testing.T) {
	v := fixture().Dispatch(SortBy{Column: ColYear}).Dispatch(SortBy{Column: ColYear})
	v = v.Dispatch(SelectResult{Result: "defend"})
	assert.Equal(t, []string{"2023", "2020"}, years(v.Rows()))
}

func TestDispatchDoesNotMutatePrevious(t *testing.T) {
	v0 := fixture()
	v1 := v0.Dispatch(SelectYears{Years: []int{2020}}).Dispatch(SortBy{Column: ColYear})
	assert.Equal(t, 5, v0.Len())
	assert.Equal(t, []string{"2021", "2020", "2022", "2020", "2023"}, years(v0.Rows()))
	assert.Equal(t, 2, v1.Len())
}

func TestDetails(t *testing.T) {
	base := []Row{
		{Record: model.Record{"year": "2020", "6over": "50/1", "result": "chased"}},
		{Record: model.Record{"year": "2021", "venue": "Delhi", "result": ""}},
	}
	keys, rows := New(nil, base).Details([]string{"year", "6over", "result"})
	assert.Equal(t, []string{"year", "6over", "result", "venue"}, keys)
	assert.Equal(t, [][]string{
		{"2020", "50/1", "chased", score.NA},
		{"2021", score.NA, score.NA, "Delhi"},
	}, rows)
}

func TestParseActions(t *testing.T) {
	a, err := ParseRangeAction("all")
	require.NoError(t, err)
	assert.Nil(t, a.Range)

	a, err = ParseRangeAction("140-149")
	require.NoError(t, err)
	assert.Equal(t, "140-149", a.Range.String())

	_, err = ParseRangeAction("lots")
	assert.Error(t, err)

	r, err := ParseResultAction("Defend")
	require.NoError(t, err)
	assert.Equal(t, "defend", r.Result)

	_, err = ParseResultAction("draw")
	assert.Error(t, err)
}

func TestRowAgrees(t *testing.T) {
	r := Row{MatchesAt: []string{"20over", "10-6"}, MatchesWicketsAt: []string{"10-6"}}
	runs, wk := r.Agrees("20over")
	assert.True(t, runs)
	assert.False(t, wk)
	runs, wk = r.Agrees("10-6")
	assert.True(t, runs)
	assert.True(t, wk)
	runs, _ = r.Agrees("6over")
	assert.False(t, runs)
}
