package redaction

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRules indicates a custom rules file could not be used.
var ErrInvalidRules = errors.New("invalid redaction rules")

// RuleSpec is one custom rule as written in a rules file. Exactly one of
// Pattern or Terms must be set; Terms are matched literally, ignoring case.
type RuleSpec struct {
	Category string   `yaml:"category"`
	Label    string   `yaml:"label"`
	Pattern  string   `yaml:"pattern"`
	Terms    []string `yaml:"terms"`
}

// RulesFile is the document shape of a custom rules file.
type RulesFile struct {
	Rules      []RuleSpec `yaml:"rules"`
	Exclusions []string   `yaml:"exclusions"`
}

// LoadRules reads and compiles a YAML rules file.
func LoadRules(path string) ([]Rule, ExclusionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	return ParseRules(data)
}

// ParseRules compiles custom rules and exclusions from YAML.
func ParseRules(data []byte) ([]Rule, ExclusionSet, error) {
	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}

	rules := make([]Rule, 0, len(file.Rules))
	for i, spec := range file.Rules {
		rule, err := spec.compile()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: rule %d: %w", ErrInvalidRules, i, err)
		}
		rules = append(rules, rule)
	}

	return rules, NewExclusionSet(file.Exclusions...), nil
}

func (s RuleSpec) compile() (Rule, error) {
	if s.Category == "" {
		return Rule{}, fmt.Errorf("category required")
	}

	label := s.Label
	if label == "" {
		label = "[REDACTED " + strings.ToUpper(strings.ReplaceAll(s.Category, "_", " ")) + "]"
	}

	var expr string
	switch {
	case s.Pattern != "" && len(s.Terms) > 0:
		return Rule{}, fmt.Errorf("pattern and terms are mutually exclusive")
	case s.Pattern != "":
		expr = s.Pattern
	case len(s.Terms) > 0:
		alts := make([]string, 0, len(s.Terms))
		for _, t := range NewExclusionSet(s.Terms...).sorted() {
			alts = append(alts, boundary(t, true)+regexp.QuoteMeta(t)+boundary(t, false))
		}
		if len(alts) == 0 {
			return Rule{}, fmt.Errorf("terms are blank")
		}
		expr = `(?i)(?:` + strings.Join(alts, "|") + `)`
	default:
		return Rule{}, fmt.Errorf("pattern or terms required")
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, fmt.Errorf("compile pattern: %w", err)
	}

	return Rule{
		Category: Category(s.Category),
		Label:    label,
		Pattern:  re,
	}, nil
}
