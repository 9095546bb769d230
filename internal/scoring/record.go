// Package scoring turns a language model's evaluation responses into
// normalized records and aggregates them into weighted summary tables.
package scoring

import "fmt"

// Delimiter separates the human-readable report from the JSON block in a
// scoring response.
const Delimiter = "### JSON Output:"

// Yes/no answers after normalization.
const (
	AnswerYes = "Yes"
	AnswerNo  = "No"
)

// ScoreKey returns the JSON key a response uses for a document's score.
func ScoreKey(document string) string {
	return fmt.Sprintf("%s Score", document)
}

// AnswerKey returns the JSON key a response uses for a document's yes/no answer.
func AnswerKey(document string) string {
	return fmt.Sprintf("%s Yes/No", document)
}

// SubScore is the evaluation of one sub-criterion.
type SubScore struct {
	Name     string   `json:"name"`
	Score    *float64 `json:"score,omitempty"`
	Comments []string `json:"comments,omitempty"`
}

// Record is one parsed result for a (document, criterion) pair.
type Record struct {
	Criterion     string     `json:"criterion"`
	Document      string     `json:"document"`
	Score         *float64   `json:"score,omitempty"`
	Answer        string     `json:"answer,omitempty"`
	Weighting     *float64   `json:"weighting,omitempty"`
	Justification string     `json:"justification,omitempty"`
	SubCriteria   []SubScore `json:"sub_criteria,omitempty"`
}

// Scored reports whether the record carries a numeric score.
func (r Record) Scored() bool {
	return r.Score != nil
}

// Answered reports whether the record carries a yes/no answer.
func (r Record) Answered() bool {
	return r.Answer != ""
}
