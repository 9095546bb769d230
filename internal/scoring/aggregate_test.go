package scoring_test

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/AndrewDilley/TenderEvaluation/internal/criteria"
	"github.com/AndrewDilley/TenderEvaluation/internal/scoring"
)

func f(v float64) *float64 { return &v }

func approx(t *testing.T, label string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = nil, want %v", label, want)
		return
	}
	if math.Abs(*got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", label, *got, want)
	}
}

func rubric(t *testing.T) *criteria.Model {
	t.Helper()
	m, err := criteria.Parse([][]string{
		{"Price", "30"},
		{"Compliant", "Yes/No"},
		{"Quality", "70"},
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return m
}

func TestAggregateTotals(t *testing.T) {
	records := []scoring.Record{
		{Criterion: "Price", Document: "Acme.pdf", Score: f(8)},
		{Criterion: "Price", Document: "Beta_redacted.txt", Score: f(5)},
	}

	s := scoring.Aggregate(records, rubric(t))

	if !slices.Equal(s.Documents, []string{"Acme", "Beta"}) {
		t.Fatalf("documents = %v", s.Documents)
	}
	if len(s.Scored) != 2 {
		t.Fatalf("scored rows = %d, want Price and Total", len(s.Scored))
	}

	price := s.Scored[0]
	approx(t, "price weighting", price.Weighting, 30)
	approx(t, "price weighted acme", price.Weighted[0], 2.4)
	approx(t, "price weighted beta", price.Weighted[1], 1.5)

	total, ok := s.Totals()
	if !ok || total.Criterion != scoring.TotalLabel {
		t.Fatalf("Totals() = %+v, %v", total, ok)
	}
	if total.Weighting != nil {
		t.Errorf("total weighting = %v, want blank", *total.Weighting)
	}
	approx(t, "total acme", total.Scores[0], 8)
	approx(t, "total beta", total.Scores[1], 5)
	approx(t, "total weighted acme", total.Weighted[0], 2.4)
	approx(t, "total weighted beta", total.Weighted[1], 1.5)
}

func TestAggregateOrderingAndPartition(t *testing.T) {
	records := []scoring.Record{
		{Criterion: "Extra", Document: "Acme", Score: f(3)},
		{Criterion: "Quality", Document: "Acme", Score: f(7)},
		{Criterion: "Compliant", Document: "Acme", Answer: scoring.AnswerYes},
		{Criterion: "Price", Document: "Acme", Score: f(9)},
		{Criterion: "Compliant", Document: "Beta", Answer: scoring.AnswerNo},
		{Criterion: "Price", Document: "Beta", Score: f(4)},
	}

	s := scoring.Aggregate(records, rubric(t))

	var scored []string
	for _, row := range s.Scored {
		scored = append(scored, row.Criterion)
	}
	if want := []string{"Price", "Quality", "Extra", scoring.TotalLabel}; !slices.Equal(scored, want) {
		t.Errorf("scored order = %v, want %v", scored, want)
	}

	if len(s.YesNo) != 1 || s.YesNo[0].Criterion != "Compliant" {
		t.Fatalf("yes/no rows = %+v", s.YesNo)
	}
	if !slices.Equal(s.YesNo[0].Answers, []string{"Yes", "No"}) {
		t.Errorf("answers = %v", s.YesNo[0].Answers)
	}

	quality := s.Scored[1]
	if quality.Scores[1] != nil {
		t.Errorf("Beta quality = %v, want missing", *quality.Scores[1])
	}
	extra := s.Scored[2]
	if extra.Weighting != nil || extra.Weighted[0] != nil {
		t.Errorf("criterion outside the rubric got a weighting: %+v", extra)
	}

	total, _ := s.Totals()
	approx(t, "acme total", total.Scores[0], 19)
	approx(t, "beta total", total.Scores[1], 4)
	approx(t, "acme weighted", total.Weighted[0], 9*0.3+7*0.7)
}

func TestAggregateFirstRecordWins(t *testing.T) {
	records := []scoring.Record{
		{Criterion: "Price", Document: "Acme", Score: f(6)},
		{Criterion: "Price", Document: "Acme.pdf", Score: f(1)},
	}

	s := scoring.Aggregate(records, rubric(t))
	approx(t, "price", s.Scored[0].Scores[0], 6)
}

func TestAggregateEmpty(t *testing.T) {
	s := scoring.Aggregate(nil, rubric(t))

	if len(s.Scored) != 0 || len(s.YesNo) != 0 || len(s.Documents) != 0 {
		t.Errorf("summary = %+v, want empty tables", s)
	}
	if _, ok := s.Totals(); ok {
		t.Error("empty summary has a Total row")
	}
}

func TestDocumentLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Acme.pdf", "Acme"},
		{"uploads/Acme_redacted.txt", "Acme"},
		{"Acme.PDF_redacted.txt", "Acme"},
		{"Acme Pty Ltd", "Acme Pty Ltd"},
		{"v1.2 response.docx", "v1.2 response"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := scoring.DocumentLabel(tt.in); got != tt.want {
				t.Errorf("DocumentLabel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestReconcile(t *testing.T) {
	records := []scoring.Record{
		{Criterion: "Price", Document: "Acme", Score: f(8)},
		{Criterion: "price (30%)", Document: "Acme", Score: f(8)},
		{Criterion: "Qualty", Document: "Acme", Score: f(6)},
		{Criterion: "Compliant", Document: "Acme", Answer: "Yes"},
		{Criterion: "Environmental Management", Document: "Acme", Score: f(2)},
	}

	out, warnings := scoring.Reconcile(records, rubric(t))

	want := []string{"Price", "Price", "Quality", "Compliant", "Environmental Management"}
	for i, w := range want {
		if out[i].Criterion != w {
			t.Errorf("out[%d].Criterion = %q, want %q", i, out[i].Criterion, w)
		}
	}

	approx(t, "price weighting", out[1].Weighting, 30)
	approx(t, "quality weighting", out[2].Weighting, 70)
	if out[3].Weighting != nil {
		t.Errorf("yes/no criterion weighting = %v", *out[3].Weighting)
	}

	if len(warnings) != 1 || !strings.Contains(warnings[0], "Environmental Management") {
		t.Errorf("warnings = %q", warnings)
	}
	if records[1].Criterion != "price (30%)" {
		t.Error("Reconcile mutated its input")
	}
}
