// Package report renders evaluation results as an HTML page, a markdown
// document, or an xlsx workbook. All three share one table layout.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/AndrewDilley/TenderEvaluation/internal/scoring"
	"github.com/AndrewDilley/TenderEvaluation/internal/workflow"
)

// DefaultTitle heads every rendered report.
const DefaultTitle = "Tender Evaluation Report"

const missing = "-"

// Table is a rendered summary table. Cells carry both display text and,
// where numeric, the underlying value.
type Table struct {
	Title   string
	Headers []string
	Rows    []TableRow
}

// TableRow is one criterion row.
type TableRow struct {
	Cells []Cell
	Total bool
}

// Cell is a single table value.
type Cell struct {
	Text  string
	Value *float64
}

// Tables builds the scored and yes/no tables for summary. The scored table
// interleaves raw and weighted score columns for each document.
func Tables(summary *scoring.Summary) (scored, yesNo Table) {
	scored = Table{Title: "Scored criteria", Headers: []string{"Criterion", "Weighting (%)"}}
	yesNo = Table{Title: "Yes/No criteria", Headers: []string{"Criterion"}}

	if summary == nil {
		return scored, yesNo
	}

	for _, doc := range summary.Documents {
		scored.Headers = append(scored.Headers, scoring.ScoreKey(doc), doc+" Weighted")
		yesNo.Headers = append(yesNo.Headers, scoring.AnswerKey(doc))
	}

	for _, row := range summary.Scored {
		cells := []Cell{text(row.Criterion), number(row.Weighting, -1)}
		for i := range summary.Documents {
			cells = append(cells, number(at(row.Scores, i), -1), number(at(row.Weighted, i), 2))
		}
		scored.Rows = append(scored.Rows, TableRow{Cells: cells, Total: row.Total})
	}

	for _, row := range summary.YesNo {
		cells := []Cell{text(row.Criterion)}
		for i := range summary.Documents {
			answer := missing
			if i < len(row.Answers) && row.Answers[i] != "" {
				answer = row.Answers[i]
			}
			cells = append(cells, text(answer))
		}
		yesNo.Rows = append(yesNo.Rows, TableRow{Cells: cells})
	}

	return scored, yesNo
}

// Meta is the header information shared by every format.
type Meta struct {
	Title       string
	SessionID   string
	CompletedAt time.Time
	Documents   int
}

func metaOf(res *workflow.Result) Meta {
	return Meta{
		Title:       DefaultTitle,
		SessionID:   res.SessionID.String(),
		CompletedAt: res.CompletedAt,
		Documents:   len(res.Reports),
	}
}

func (m Meta) line() string {
	return fmt.Sprintf("Session %s, %d document(s), completed %s",
		m.SessionID, m.Documents, m.CompletedAt.Format(time.RFC1123))
}

func text(s string) Cell {
	return Cell{Text: s}
}

func number(v *float64, precision int) Cell {
	if v == nil {
		return Cell{Text: missing}
	}
	return Cell{Text: strconv.FormatFloat(*v, 'f', precision, 64), Value: v}
}

func at(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}
