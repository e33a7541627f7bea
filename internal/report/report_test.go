package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pable/cricanalyze/internal/analyzer"
	"github.com/pable/cricanalyze/internal/model"
	"github.com/pable/cricanalyze/internal/storage"
	"github.com/pable/cricanalyze/internal/view"
)

func session() *analyzer.Session {
	return analyzer.NewSession(analyzer.Static{Data: &model.Dataset{
		Header: []string{"year", "6over", "10over", "15over", "20over", "result"},
		Records: []model.Record{
			{"year": "2021", "6over": "40/1", "10over": "70/2", "15over": "110/3", "20over": "150/3", "result": "chased"},
			{"year": "2022", "6over": "40/2", "10over": "65/2", "15over": "100/3", "20over": "150/4", "result": "defend"},
		},
	}})
}

func TestPrintChaseResult_MarksCrossReferencedRows(t *testing.T) {
	s := session()
	if _, err := s.Match(analyzer.MatchQuery{Score6: "40/1", Score10: "70/2", Score15: "110/3", Score20: "150/3"}); err != nil {
		t.Fatalf("Match: %v", err)
	}
	res, err := s.Chase(analyzer.ChaseQuery{Score: "150/3", Over: 20})
	if err != nil {
		t.Fatalf("Chase: %v", err)
	}

	var buf bytes.Buffer
	PrintChaseResult(&buf, res, s.CrossRef())
	out := buf.String()

	for _, want := range []string{
		"Analysis for 150/3 after Over 20",
		"Total matches: 1",
		"Win Probability: Chased: 100.00% | Defended: 0.00%",
		">",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintChaseResult_Empty(t *testing.T) {
	s := session()
	res, err := s.Chase(analyzer.ChaseQuery{Score: "1/0", Over: 6})
	if err != nil {
		t.Fatalf("Chase: %v", err)
	}
	var buf bytes.Buffer
	PrintChaseResult(&buf, res, s.CrossRef())
	out := buf.String()
	if !strings.Contains(out, "No matches found with exact score 1/0 after Over 6.") {
		t.Errorf("expected no-match line:\n%s", out)
	}
	if !strings.Contains(out, "Chased: 0.00% | Defended: 0.00%") {
		t.Errorf("expected zero stats:\n%s", out)
	}
}

func TestPrintMatchResult_AgreementMarks(t *testing.T) {
	s := session()
	res, err := s.Match(analyzer.MatchQuery{Score20: "150/4"})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	var buf bytes.Buffer
	PrintMatchResult(&buf, res)
	out := buf.String()
	if !strings.Contains(out, "150/4**") {
		t.Errorf("expected wicket agreement mark:\n%s", out)
	}
	if !strings.Contains(out, "150/3*") || strings.Contains(out, "150/3**") {
		t.Errorf("expected runs-only mark on 150/3:\n%s", out)
	}
}

func TestPrintFilter(t *testing.T) {
	s := session()
	res, _ := s.Match(analyzer.MatchQuery{Score20: "150/4"})
	v := res.View.Dispatch(view.SelectYears{Years: []int{2022}}).Dispatch(view.SortBy{Column: view.ColYear})

	var buf bytes.Buffer
	PrintFilter(&buf, v)
	got := strings.TrimSpace(buf.String())
	want := "Showing 1 of 2  |  years: 2022  |  sort: Year asc"
	if got != want {
		t.Errorf("PrintFilter = %q, want %q", got, want)
	}
}

func TestPrintDetails_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintDetails(&buf, view.New(nil, nil), nil)
	if !strings.Contains(buf.String(), "No matches to show details for.") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestPrintDatasets(t *testing.T) {
	var buf bytes.Buffer
	PrintDatasets(&buf, []storage.DatasetInfo{
		{Name: "ipl", Source: "a.csv", Rows: 12345, Columns: 10, ImportedAt: time.Now().Add(-2 * time.Hour)},
	})
	out := buf.String()
	if !strings.Contains(out, "12,345") {
		t.Errorf("expected humanized row count:\n%s", out)
	}
	if !strings.Contains(out, "2 hours ago") {
		t.Errorf("expected relative import time:\n%s", out)
	}
}
