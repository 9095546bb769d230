// Package criteria parses a semi-structured rubric table into a weighted
// criteria model.
package criteria

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

var summaryMarkers = []string{"total score", "summary", "overall score"}

var yesNoValues = []string{"y", "n", "yes", "no", "y/n", "yes/no"}

// Parse builds a Model from rubric rows in file order. The first three
// cells of a row are read as name, classifier and comments.
//
// A row with a name and a classifier starts a new criterion. A row with a
// name but no classifier adds a sub-criterion to the current criterion, and
// a row with only comments appends them to it. Blank rows and rows naming a
// summary total are skipped.
func Parse(rows [][]string) (*Model, error) {
	m := newModel()
	var current *Criterion

	for i, row := range rows {
		name, classifier, comments := cell(row, 0), cell(row, 1), cell(row, 2)

		if name == "" && classifier == "" && comments == "" {
			continue
		}
		if isSummary(name) {
			continue
		}

		switch {
		case name != "" && classifier != "":
			if existing, ok := m.Criteria[name]; ok {
				m.warn("row %d: duplicate criterion %q ignored", i+1, name)
				current = existing
				continue
			}
			current = newCriterion(name, classifier, i)
			current.Comments = append(current.Comments, splitLines(comments)...)
			m.add(current)

		case name != "":
			if current == nil {
				m.warn("row %d: sub-criterion %q has no parent criterion", i+1, name)
				continue
			}
			current.SubCriteria = append(current.SubCriteria, SubCriterion{
				Name:     name,
				Comments: splitLines(comments),
			})

		case comments != "":
			if current == nil {
				m.warn("row %d: comments have no parent criterion", i+1)
				continue
			}
			current.Comments = append(current.Comments, splitLines(comments)...)

		default:
			m.warn("row %d: classifier %q has no criterion name", i+1, classifier)
		}
	}

	if len(m.Criteria) == 0 {
		return nil, fmt.Errorf("%w: no criteria with a name and classifier found", ErrMalformedRubric)
	}

	if len(m.Weightings) > 0 {
		if total := m.TotalWeighting(); math.Abs(total-100) > 0.01 {
			m.warn("weightings sum to %s, not 100", strconv.FormatFloat(total, 'f', -1, 64))
		}
	}

	return m, nil
}

// Classify returns the kind and, for scored criteria, the weighting
// encoded by a classifier cell.
func Classify(value string) (Kind, *float64) {
	v := strings.TrimSpace(value)

	if w, ok := parseWeighting(v); ok {
		return KindScored, &w
	}

	normalized := strings.ToLower(strings.Join(strings.Fields(v), ""))
	if slices.Contains(yesNoValues, normalized) {
		return KindYesNo, nil
	}

	return KindUnknown, nil
}

func newCriterion(name, classifier string, order int) *Criterion {
	kind, weighting := Classify(classifier)
	return &Criterion{
		Name:       name,
		Kind:       kind,
		Classifier: classifier,
		Weighting:  weighting,
		Order:      order,
	}
}

func (m *Model) add(c *Criterion) {
	m.Criteria[c.Name] = c
	m.OrderMapping[c.Name] = c.Order

	switch c.Kind {
	case KindScored:
		m.Weightings[c.Name] = *c.Weighting
	case KindUnknown:
		m.warn("criterion %q has unrecognized classifier %q", c.Name, c.Classifier)
	}
}

func (m *Model) warn(format string, args ...any) {
	m.Warnings = append(m.Warnings, fmt.Sprintf(format, args...))
}

func parseWeighting(v string) (float64, bool) {
	v = strings.TrimSpace(strings.TrimSuffix(v, "%"))
	if v == "" {
		return 0, false
	}
	w, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
		return 0, false
	}
	return w, true
}

func isSummary(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range summaryMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for line := range strings.Lines(strings.ReplaceAll(s, "\r\n", "\n")) {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
