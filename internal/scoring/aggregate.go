package scoring

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"github.com/AndrewDilley/TenderEvaluation/internal/criteria"
)

// TotalLabel names the synthetic row summing each scored column.
const TotalLabel = "Total"

var documentExtensions = []string{".pdf", ".docx", ".doc", ".txt"}

// Row is one criterion across every document. Scores, Weighted and Answers
// are aligned with Summary.Documents; a nil entry means the document has no
// value for the criterion.
type Row struct {
	Criterion string     `json:"criterion"`
	Weighting *float64   `json:"weighting,omitempty"`
	Scores    []*float64 `json:"scores,omitempty"`
	Weighted  []*float64 `json:"weighted,omitempty"`
	Answers   []string   `json:"answers,omitempty"`
	Total     bool       `json:"total,omitempty"`
}

// Summary holds the scored and yes/no tables for an evaluation batch.
type Summary struct {
	Documents []string `json:"documents"`
	Scored    []Row    `json:"scored"`
	YesNo     []Row    `json:"yes_no"`
}

// Totals returns the Total row of the scored table.
func (s *Summary) Totals() (Row, bool) {
	if n := len(s.Scored); n > 0 && s.Scored[n-1].Total {
		return s.Scored[n-1], true
	}
	return Row{}, false
}

// DocumentLabel strips directories, document extensions and the
// "_redacted" suffix so every response for one document shares a column.
func DocumentLabel(name string) string {
	label := filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))

	for {
		prev := label
		if ext := filepath.Ext(label); slices.Contains(documentExtensions, strings.ToLower(ext)) {
			label = strings.TrimSuffix(label, ext)
		}
		label = strings.TrimSuffix(label, "_redacted")
		if label == prev {
			return label
		}
	}
}

type cellKey struct {
	criterion string
	document  string
}

// Aggregate builds the summary tables from the records of every document.
// The first record per (criterion, document) wins. Rows follow the rubric
// order, criteria unknown to the rubric follow in order of appearance, and
// the scored table ends with a Total row whose weighting is blank.
func Aggregate(records []Record, model *criteria.Model) *Summary {
	summary := &Summary{
		Documents: []string{},
		Scored:    []Row{},
		YesNo:     []Row{},
	}

	cells := make(map[cellKey]Record)
	var names []string
	docIndex := make(map[string]int)

	for _, rec := range records {
		doc := DocumentLabel(rec.Document)
		if _, ok := docIndex[doc]; !ok {
			docIndex[doc] = len(summary.Documents)
			summary.Documents = append(summary.Documents, doc)
		}

		key := cellKey{criterion: rec.Criterion, document: doc}
		if _, seen := cells[key]; seen {
			continue
		}
		if !slices.Contains(names, rec.Criterion) {
			names = append(names, rec.Criterion)
		}
		cells[key] = rec
	}

	sortByRubric(names, model)
	n := len(summary.Documents)

	for _, name := range names {
		scored := Row{Criterion: name, Scores: make([]*float64, n), Weighted: make([]*float64, n)}
		answered := Row{Criterion: name, Answers: make([]string, n)}
		hasScore, hasAnswer := false, false

		if model != nil {
			if w, ok := model.Weightings[name]; ok {
				scored.Weighting = &w
			}
		}

		for doc, i := range docIndex {
			rec, ok := cells[cellKey{criterion: name, document: doc}]
			if !ok {
				continue
			}
			if rec.Score != nil {
				hasScore = true
				scored.Scores[i] = ptr(*rec.Score)
				if scored.Weighting != nil {
					scored.Weighted[i] = ptr(*rec.Score * *scored.Weighting / 100)
				}
			}
			if rec.Answer != "" {
				hasAnswer = true
				answered.Answers[i] = rec.Answer
			}
		}

		if hasScore {
			summary.Scored = append(summary.Scored, scored)
		}
		if hasAnswer {
			summary.YesNo = append(summary.YesNo, answered)
		}
	}

	if len(summary.Scored) > 0 {
		summary.Scored = append(summary.Scored, totalRow(summary.Scored, n))
	}

	return summary
}

func totalRow(rows []Row, n int) Row {
	total := Row{
		Criterion: TotalLabel,
		Scores:    make([]*float64, n),
		Weighted:  make([]*float64, n),
		Total:     true,
	}

	for _, row := range rows {
		for i := range n {
			total.Scores[i] = addTo(total.Scores[i], row.Scores[i])
			total.Weighted[i] = addTo(total.Weighted[i], row.Weighted[i])
		}
	}
	return total
}

func sortByRubric(names []string, model *criteria.Model) {
	rank := func(name string) (int, int) {
		if model != nil {
			if order, ok := model.OrderMapping[name]; ok {
				return 0, order
			}
		}
		return 1, 0
	}

	slices.SortStableFunc(names, func(a, b string) int {
		ga, oa := rank(a)
		gb, ob := rank(b)
		if c := cmp.Compare(ga, gb); c != 0 {
			return c
		}
		return cmp.Compare(oa, ob)
	})
}

func addTo(sum, v *float64) *float64 {
	if v == nil {
		return sum
	}
	if sum == nil {
		return ptr(*v)
	}
	return ptr(*sum + *v)
}

func ptr(v float64) *float64 {
	return &v
}
