// Package redaction removes personally identifiable and commercially
// sensitive spans from extracted document text using an ordered list of
// pattern rules. Redacted spans and page markers are locked as soon as they
// are produced, so no later rule can re-match or split them.
package redaction

import (
	"regexp"
	"strings"
)

// Finding counts the spans replaced by one category.
type Finding struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Count    int      `json:"count"`
}

// Result is the redacted text together with per-category tracking.
type Result struct {
	Text        string    `json:"text"`
	Findings    []Finding `json:"findings"`
	PageMarkers int       `json:"page_markers"`
}

// Total returns the number of replaced spans across all categories.
func (r Result) Total() int {
	n := 0
	for _, f := range r.Findings {
		n += f.Count
	}
	return n
}

// Redactor applies the builtin rules, any configured custom rules, and the
// name rule in a fixed order. A Redactor is immutable and safe for
// concurrent use.
type Redactor struct {
	custom     []Rule
	exclusions ExclusionSet
}

// New creates a Redactor. Custom rules run after the company rule and
// before exclusion protection; base exclusions apply to every call.
func New(custom []Rule, exclusions ExclusionSet) *Redactor {
	return &Redactor{
		custom:     custom,
		exclusions: exclusions,
	}
}

var defaultRedactor = New(nil, nil)

// Redact returns text with every sensitive span replaced by its category
// label. It never fails; text with no matches is returned unchanged.
func Redact(text, filename string, exclusions ExclusionSet) string {
	return defaultRedactor.Apply(text, filename, exclusions).Text
}

// Rules returns the full ordered rule list for one document.
func (r *Redactor) Rules(filename string, exclusions ExclusionSet) []Rule {
	set := r.exclusions.With(exclusions...)

	rules := Builtin()
	if company, ok := CompanyRule(filename); ok {
		rules = append(rules, company)
	}
	rules = append(rules, r.custom...)
	if protect, ok := ExclusionRule(set); ok {
		rules = append(rules, protect)
	}
	return append(rules, NameRule(set))
}

// Apply redacts text for the document named filename.
func (r *Redactor) Apply(text, filename string, exclusions ExclusionSet) Result {
	if text == "" {
		return Result{}
	}

	d := newDocument(text)
	markers := d.lock(pageMarkerPattern)

	counts := make(map[Category]int)
	labels := make(map[Category]string)
	var order []Category

	for _, rule := range r.Rules(filename, exclusions) {
		n := d.apply(rule)
		if n == 0 || rule.Preserve {
			continue
		}
		if _, seen := counts[rule.Category]; !seen {
			order = append(order, rule.Category)
			labels[rule.Category] = rule.Label
		}
		counts[rule.Category] += n
	}

	findings := make([]Finding, 0, len(order))
	for _, c := range order {
		findings = append(findings, Finding{
			Category: c,
			Label:    labels[c],
			Count:    counts[c],
		})
	}

	return Result{
		Text:        d.String(),
		Findings:    findings,
		PageMarkers: markers,
	}
}

type segment struct {
	text   string
	locked bool
}

type document struct {
	segments []segment
}

func newDocument(text string) *document {
	return &document{segments: []segment{{text: text}}}
}

func (d *document) lock(p *regexp.Regexp) int {
	return d.apply(Rule{Pattern: p, Preserve: true})
}

// apply runs rule over every unlocked segment and returns the number of
// matches it handled.
func (d *document) apply(rule Rule) int {
	if rule.Pattern == nil {
		return 0
	}

	out := make([]segment, 0, len(d.segments))
	count := 0

	for _, seg := range d.segments {
		if seg.locked || seg.text == "" {
			out = append(out, seg)
			continue
		}

		last := 0
		for _, loc := range rule.Pattern.FindAllStringIndex(seg.text, -1) {
			if loc[0] == loc[1] {
				continue
			}
			match := seg.text[loc[0]:loc[1]]
			if rule.Keep != nil && rule.Keep(match) {
				continue
			}
			if loc[0] > last {
				out = append(out, segment{text: seg.text[last:loc[0]]})
			}
			if rule.Preserve {
				out = append(out, segment{text: match, locked: true})
			} else {
				out = append(out, segment{text: rule.Label, locked: true})
			}
			last = loc[1]
			count++
		}
		if last < len(seg.text) {
			out = append(out, segment{text: seg.text[last:]})
		}
	}

	d.segments = out
	return count
}

func (d *document) String() string {
	var sb strings.Builder
	for _, seg := range d.segments {
		sb.WriteString(seg.text)
	}
	return sb.String()
}
