package criteria

import (
	"cmp"
	"slices"
)

// Kind classifies how a criterion is evaluated.
type Kind string

const (
	KindScored  Kind = "scored"
	KindYesNo   Kind = "yes_no"
	KindUnknown Kind = "unknown"
)

// SubCriterion is a named aspect of a parent criterion.
type SubCriterion struct {
	Name     string   `json:"name"`
	Comments []string `json:"comments,omitempty"`
}

// Criterion is one evaluation dimension from the rubric.
// Weighting is set only when Kind is KindScored.
type Criterion struct {
	Name        string         `json:"name"`
	Kind        Kind           `json:"kind"`
	Classifier  string         `json:"classifier"`
	Weighting   *float64       `json:"weighting,omitempty"`
	Order       int            `json:"order"`
	SubCriteria []SubCriterion `json:"sub_criteria,omitempty"`
	Comments    []string       `json:"comments,omitempty"`
}

// Model is the parsed rubric. It is built once per evaluation session and
// treated as read-only afterwards.
type Model struct {
	Criteria     map[string]*Criterion `json:"criteria"`
	Weightings   map[string]float64    `json:"weightings"`
	OrderMapping map[string]int        `json:"order_mapping"`
	Warnings     []string              `json:"warnings,omitempty"`
}

func newModel() *Model {
	return &Model{
		Criteria:     make(map[string]*Criterion),
		Weightings:   make(map[string]float64),
		OrderMapping: make(map[string]int),
	}
}

// Lookup returns the criterion with the given name.
func (m *Model) Lookup(name string) (*Criterion, bool) {
	c, ok := m.Criteria[name]
	return c, ok
}

// Ordered returns all criteria in rubric order.
func (m *Model) Ordered() []*Criterion {
	out := make([]*Criterion, 0, len(m.Criteria))
	for _, c := range m.Criteria {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *Criterion) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return out
}

// Scored returns the scored criteria in rubric order.
func (m *Model) Scored() []*Criterion {
	return m.ofKind(KindScored)
}

// YesNo returns the yes/no criteria in rubric order.
func (m *Model) YesNo() []*Criterion {
	return m.ofKind(KindYesNo)
}

// Names returns every criterion name in rubric order.
func (m *Model) Names() []string {
	ordered := m.Ordered()
	names := make([]string, len(ordered))
	for i, c := range ordered {
		names[i] = c.Name
	}
	return names
}

// TotalWeighting sums the weightings of all scored criteria.
func (m *Model) TotalWeighting() float64 {
	var total float64
	for _, w := range m.Weightings {
		total += w
	}
	return total
}

func (m *Model) ofKind(k Kind) []*Criterion {
	var out []*Criterion
	for _, c := range m.Ordered() {
		if c.Kind == k {
			out = append(out, c)
		}
	}
	return out
}
