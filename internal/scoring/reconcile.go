package scoring

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/AndrewDilley/TenderEvaluation/internal/criteria"
)

var weightingSuffix = regexp.MustCompile(`\s*\(\s*\d+(?:\.\d+)?\s*%?\s*\)\s*$`)

// Reconcile maps each record's criterion name onto the rubric name it
// refers to and copies the rubric weighting onto scored records. Names are
// matched exactly, then case-insensitively with any echoed "(30%)" suffix
// removed, then by nearest edit distance within a small threshold.
// Records that match nothing keep their name and produce a warning.
func Reconcile(records []Record, model *criteria.Model) ([]Record, []string) {
	if model == nil {
		return records, nil
	}

	names := model.Names()
	normalized := make([]string, len(names))
	for i, n := range names {
		normalized[i] = normalizeName(n)
	}

	var warnings []string
	out := make([]Record, len(records))

	for i, rec := range records {
		name, ok := resolve(rec.Criterion, names, normalized)
		if !ok {
			warnings = append(warnings, fmt.Sprintf(
				"%s: criterion %q does not match the rubric", rec.Document, rec.Criterion,
			))
		} else {
			rec.Criterion = name
		}

		rec.Weighting = nil
		if w, ok := model.Weightings[rec.Criterion]; ok {
			rec.Weighting = &w
		}

		out[i] = rec
	}

	return out, warnings
}

func resolve(name string, names, normalized []string) (string, bool) {
	for _, n := range names {
		if n == name {
			return n, true
		}
	}

	target := normalizeName(name)
	for i, n := range normalized {
		if n == target {
			return names[i], true
		}
	}

	best, bestDist := -1, 0
	for i, n := range normalized {
		d := levenshtein.DistanceForStrings([]rune(target), []rune(n), levenshtein.DefaultOptions)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}

	if best >= 0 && bestDist <= threshold(normalized[best]) {
		return names[best], true
	}
	return "", false
}

// threshold allows roughly one edit per eight characters, at least one.
// Substitutions cost two under the default options.
func threshold(name string) int {
	return max(2, utf8.RuneCountInString(name)/4)
}

func normalizeName(s string) string {
	s = weightingSuffix.ReplaceAllString(s, "")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
