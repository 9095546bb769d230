package scoring_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/AndrewDilley/TenderEvaluation/internal/scoring"
)

const validResponse = `

<h2><b>Price (30%)</b></h2> ⭐ Score: 8/10



<h2><b>Compliant</b></h2> ✅ Answer: Yes


### JSON Output:
Here is the data:
[
  {"Criterion": "Price", "Weighting": 30, "Acme Score": 8, "Justification": "Competitive [see p.2]"},
  {"Criterion": "Methodology", "Acme Score": "6/10",
   "Sub-Criteria": [{"name": "Program", "score": 5, "comments": "Tight timeline"}]},
  {"Criterion": "Compliant", "Acme Yes/No": "yes"}
]
Thanks!`

func TestParseResponse(t *testing.T) {
	report, records, err := scoring.ParseResponse(validResponse, "Acme")
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}

	wantReport := "<h2><b>Price (30%)</b></h2> ⭐ Score: 8/10\n\n<h2><b>Compliant</b></h2> ✅ Answer: Yes"
	if report != wantReport {
		t.Errorf("report = %q, want %q", report, wantReport)
	}

	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}

	price := records[0]
	if price.Criterion != "Price" || price.Document != "Acme" || price.Score == nil || *price.Score != 8 {
		t.Errorf("price = %+v", price)
	}
	if price.Justification != "Competitive [see p.2]" {
		t.Errorf("justification = %q", price.Justification)
	}

	method := records[1]
	if method.Score == nil || *method.Score != 6 {
		t.Errorf("methodology score = %v", method.Score)
	}
	if len(method.SubCriteria) != 1 || !slices.Equal(method.SubCriteria[0].Comments, []string{"Tight timeline"}) {
		t.Errorf("sub-criteria = %+v", method.SubCriteria)
	}

	if records[2].Answer != scoring.AnswerYes || records[2].Score != nil {
		t.Errorf("compliant = %+v", records[2])
	}
}

func TestParseResponseWithoutDelimiter(t *testing.T) {
	raw := "\n\nJust a report.\n\n\n\nSecond paragraph.\n"

	report, records, err := scoring.ParseResponse(raw, "Acme")
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if report != "Just a report.\n\nSecond paragraph." {
		t.Errorf("report = %q", report)
	}
	if len(records) != 0 {
		t.Errorf("records = %+v, want none", records)
	}
}

func TestParseResponseMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no array", "report\n### JSON Output:\nnothing here"},
		{"unbalanced", "report\n### JSON Output:\n[{\"Criterion\": \"Price\""},
		{"invalid json", "report\n### JSON Output:\n[{Criterion: Price}]"},
		{"missing criterion", "report\n### JSON Output:\n[{\"Acme Score\": 7}]"},
		{"empty criterion", "report\n### JSON Output:\n[{\"Criterion\": \"\"}]"},
		{"not an object", "report\n### JSON Output:\n[\"Price\"]"},
		{"score out of range", "report\n### JSON Output:\n[{\"Criterion\": \"Price\", \"Acme Score\": 12}]"},
		{"score not numeric", "report\n### JSON Output:\n[{\"Criterion\": \"Price\", \"Acme Score\": \"high\"}]"},
		{"answer not yes/no", "report\n### JSON Output:\n[{\"Criterion\": \"Compliant\", \"Acme Yes/No\": \"Partly\"}]"},
		{"answer partial", "report\n### JSON Output:\n[{\"Criterion\": \"Compliant\", \"Acme Yes/No\": \"Partial\"}]"},
		{"answer word starting with no", "report\n### JSON Output:\n[{\"Criterion\": \"Compliant\", \"Acme Yes/No\": \"Nothing provided\"}]"},
		{"bad comments", "report\n### JSON Output:\n[{\"Criterion\": \"P\", \"Sub-Criteria\": [{\"name\": \"a\", \"comments\": 4}]}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := scoring.ParseResponse(tt.raw, "Acme")
			if !errors.Is(err, scoring.ErrMalformedResponse) {
				t.Fatalf("error = %v, want ErrMalformedResponse", err)
			}

			var re *scoring.ResponseError
			if !errors.As(err, &re) {
				t.Fatalf("error %T is not *ResponseError", err)
			}
			if re.Raw != tt.raw || re.Document != "Acme" {
				t.Errorf("ResponseError = %+v", re)
			}
		})
	}
}

func TestParseResponseAnswers(t *testing.T) {
	tests := []struct {
		answer string
		want   string
	}{
		{"Yes", scoring.AnswerYes},
		{"y", scoring.AnswerYes},
		{"Yes.", scoring.AnswerYes},
		{"TRUE", scoring.AnswerYes},
		{"No", scoring.AnswerNo},
		{"No - see p.3", scoring.AnswerNo},
		{"n", scoring.AnswerNo},
		{"false", scoring.AnswerNo},
		{"N/A", ""},
		{"na", ""},
		{"-", ""},
		{"Not applicable", ""},
		{"Not stated", ""},
		{"None", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			raw := "r\n### JSON Output:\n[{\"Criterion\": \"Compliant\", \"Acme Yes/No\": \"" + tt.answer + "\"}]"

			_, records, err := scoring.ParseResponse(raw, "Acme")
			if err != nil {
				t.Fatalf("ParseResponse() error = %v", err)
			}
			if records[0].Answer != tt.want {
				t.Errorf("answer = %q, want %q", records[0].Answer, tt.want)
			}
		})
	}
}

func TestParseResponseIgnoresAggregateScores(t *testing.T) {
	raw := "r\n### JSON Output:\n[{\"Criterion\": \"Price\", \"Overall Score\": 9, \"Weighted Score\": 2.7}, {\"Criterion\": \"Quality\", \"Overall Score\": 9, \"Acme Pty Score\": 6}]"

	_, records, err := scoring.ParseResponse(raw, "Acme")
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if records[0].Score != nil {
		t.Errorf("price score = %v, want nil", *records[0].Score)
	}
	if records[1].Score == nil || *records[1].Score != 6 {
		t.Errorf("quality score = %v, want 6", records[1].Score)
	}
}

func TestParseResponseKeyFallback(t *testing.T) {
	raw := "r\n### JSON Output:\n```json\n[{\"Criterion\": \"Price\", \"Acme.pdf Score\": 7.5}, {\"Criterion\": \"Compliant\", \"Yes/No\": false}]\n```"

	_, records, err := scoring.ParseResponse(raw, "Acme")
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if records[0].Score == nil || *records[0].Score != 7.5 {
		t.Errorf("score = %v, want 7.5", records[0].Score)
	}
	if records[1].Answer != scoring.AnswerNo {
		t.Errorf("answer = %q, want No", records[1].Answer)
	}
}

func TestParseResponseSkipsBracketedProse(t *testing.T) {
	raw := "r\n### JSON Output:\n[note] the results follow\n[{\"Criterion\": \"Price\", \"Acme Score\": 4}]"

	_, records, err := scoring.ParseResponse(raw, "Acme")
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if len(records) != 1 || records[0].Criterion != "Price" {
		t.Errorf("records = %+v", records)
	}
}

func TestCleanReport(t *testing.T) {
	got := scoring.CleanReport("\r\n  \nline one\r\n\r\n\r\n\r\nline two\n \n\t\nline three\n\n")
	want := "line one\n\nline two\n\nline three"
	if got != want {
		t.Errorf("CleanReport() = %q, want %q", got, want)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Error("blank line run not collapsed")
	}
}
