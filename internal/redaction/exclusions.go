package redaction

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"
)

// ExclusionSet holds literal names that must survive name redaction.
// Matching is exact and case-sensitive.
type ExclusionSet []string

// NewExclusionSet returns a set of the non-blank, trimmed entries with
// duplicates removed. Entry order is preserved.
func NewExclusionSet(entries ...string) ExclusionSet {
	set := make(ExclusionSet, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" || slices.Contains(set, e) {
			continue
		}
		set = append(set, e)
	}
	return set
}

// Contains reports whether s exactly equals an entry.
func (s ExclusionSet) Contains(v string) bool {
	return slices.Contains(s, v)
}

// With returns a new set containing the entries of s followed by extra.
func (s ExclusionSet) With(extra ...string) ExclusionSet {
	return NewExclusionSet(append(slices.Clone(s), extra...)...)
}

// sorted returns entries longest first so overlapping names lock the
// widest span.
func (s ExclusionSet) sorted() []string {
	out := slices.Clone(s)
	slices.SortStableFunc(out, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	return out
}

// CompanyName derives the company name from a document filename by
// dropping the directory, the extension, and any "_redacted" suffix.
func CompanyName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.TrimSuffix(stem, "_redacted")
	return strings.TrimSpace(stem)
}
