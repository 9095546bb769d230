package redaction_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/AndrewDilley/TenderEvaluation/internal/redaction"
)

func TestRedactStructuredPatterns(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		label   string
		removed string
	}{
		{"id number", "ref 123-45-6789 on file", redaction.LabelIDNumber, "123-45-6789"},
		{"ip address", "host 192.168.1.10 responded", redaction.LabelIPAddress, "192.168.1.10"},
		{"card contiguous", "card 4111111111111111 charged", redaction.LabelCreditCard, "4111111111111111"},
		{"card grouped", "card 4111 1111 1111 1111 charged", redaction.LabelCreditCard, "4111 1111 1111 1111"},
		{"email", "write to jane.doe@example.com today", redaction.LabelEmail, "jane.doe@example.com"},
		{"amount", "priced at $1,250.00 per unit", redaction.LabelAmount, "$1,250.00"},
		{"phone", "call 0412 345 678 now", redaction.LabelPhone, "345 678"},
		{"phone international", "call +61 3 5559 4800 now", redaction.LabelPhone, "+"},
		{"address", "based at 12 Main Street, Warrnambool VIC 3280 since", redaction.LabelAddress, "Warrnambool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redaction.Redact(tt.text, "", nil)
			if !strings.Contains(got, tt.label) {
				t.Errorf("Redact(%q) = %q, want label %s", tt.text, got, tt.label)
			}
			if strings.Contains(got, tt.removed) {
				t.Errorf("Redact(%q) = %q, still contains %q", tt.text, got, tt.removed)
			}
		})
	}
}

func TestRedactEmailBeforeName(t *testing.T) {
	got := redaction.Redact("Email: John.Smith@example.com", "", nil)

	if !strings.Contains(got, redaction.LabelEmail) {
		t.Errorf("got %q, want %s", got, redaction.LabelEmail)
	}
	if strings.Contains(got, "John") || strings.Contains(got, "example.com") {
		t.Errorf("got %q, address fragments remain", got)
	}
}

func TestRedactCompanyVariants(t *testing.T) {
	text := "Acme Corp, Acme_Corp, AcmeCorp and acme corp all refer to one bidder."

	for _, filename := range []string{"Acme Corp.pdf", "Acme_Corp.docx", "uploads/Acme_Corp_redacted.txt"} {
		t.Run(filename, func(t *testing.T) {
			got := redaction.Redact(text, filename, nil)

			if n := strings.Count(got, redaction.LabelCompany); n != 4 {
				t.Errorf("company labels = %d, want 4 in %q", n, got)
			}
			if strings.Contains(strings.ToLower(got), "acme") {
				t.Errorf("got %q, company name remains", got)
			}
		})
	}
}

func TestRedactCompanyFirstSegment(t *testing.T) {
	text := "Acme has delivered similar works. Acme Tender Response attached."

	got := redaction.Redact(text, "Acme_Tender_Response.pdf", nil)

	if n := strings.Count(got, redaction.LabelCompany); n != 2 {
		t.Errorf("company labels = %d, want 2 in %q", n, got)
	}
	if strings.Contains(got, "Acme") || strings.Contains(got, "Tender Response") {
		t.Errorf("got %q, company name remains", got)
	}
}

func TestRedactExclusions(t *testing.T) {
	exclusions := redaction.NewExclusionSet("Wannon Water", "Alice Smith")

	tests := []struct {
		name    string
		text    string
		want    []string
		missing []string
	}{
		{
			name: "exact match survives",
			text: "Wannon Water",
			want: []string{"Wannon Water"},
		},
		{
			name:    "embedded in longer capitalized run",
			text:    "Met Alice Smith at the depot.",
			want:    []string{"Alice Smith", redaction.LabelName},
			missing: []string{"Met"},
		},
		{
			name:    "other names still redacted",
			text:    "prepared for Wannon Water by John Citizen",
			want:    []string{"Wannon Water", redaction.LabelName},
			missing: []string{"John", "Citizen"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redaction.Redact(tt.text, "", exclusions)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("got %q, want it to contain %q", got, w)
				}
			}
			for _, m := range tt.missing {
				if strings.Contains(got, m) {
					t.Errorf("got %q, want %q removed", got, m)
				}
			}
		})
	}
}

func TestRedactPreservesPageMarkers(t *testing.T) {
	r := redaction.New(nil, nil)
	res := r.Apply("(Page 1)\nJohn Smith wrote this.\n(Page 2)\nmore text.", "", nil)

	if !strings.Contains(res.Text, "(Page 1)") || !strings.Contains(res.Text, "(Page 2)") {
		t.Errorf("page markers lost: %q", res.Text)
	}
	if res.PageMarkers != 2 {
		t.Errorf("PageMarkers = %d, want 2", res.PageMarkers)
	}
	if strings.Contains(res.Text, "John") {
		t.Errorf("name not redacted: %q", res.Text)
	}
}

func TestRedactUnchanged(t *testing.T) {
	for _, text := range []string{"", "all lowercase prose with no identifiers."} {
		if got := redaction.Redact(text, "", nil); got != text {
			t.Errorf("Redact(%q) = %q, want unchanged", text, got)
		}
	}
}

func TestRedactIdempotent(t *testing.T) {
	text := "Contact Jane Doe at jane@example.com or 0412 345 678 regarding $5,000."

	once := redaction.Redact(text, "Acme.pdf", nil)
	twice := redaction.Redact(once, "Acme.pdf", nil)

	if once != twice {
		t.Errorf("second pass changed text:\n once: %q\ntwice: %q", once, twice)
	}
}

func TestApplyFindings(t *testing.T) {
	r := redaction.New(nil, nil)
	res := r.Apply("a@example.com and b@example.org", "", nil)

	if len(res.Findings) != 1 {
		t.Fatalf("findings = %+v, want one category", res.Findings)
	}
	f := res.Findings[0]
	if f.Category != redaction.CategoryEmail || f.Count != 2 || f.Label != redaction.LabelEmail {
		t.Errorf("finding = %+v, want 2 emails", f)
	}
	if res.Total() != 2 {
		t.Errorf("Total() = %d, want 2", res.Total())
	}
}

func TestRuleOrder(t *testing.T) {
	rules := redaction.New(nil, nil).Rules("Acme.pdf", redaction.NewExclusionSet("Wannon Water"))

	want := []redaction.Category{
		redaction.CategoryIDNumber,
		redaction.CategoryIPAddress,
		redaction.CategoryCreditCard,
		redaction.CategoryCreditCard,
		redaction.CategoryEmail,
		redaction.CategoryAmount,
		redaction.CategoryPhone,
		redaction.CategoryAddress,
		redaction.CategoryCompany,
		redaction.CategoryExclusion,
		redaction.CategoryName,
	}

	if len(rules) != len(want) {
		t.Fatalf("len(rules) = %d, want %d", len(rules), len(want))
	}
	for i, c := range want {
		if rules[i].Category != c {
			t.Errorf("rules[%d] = %s, want %s", i, rules[i].Category, c)
		}
	}
}

func TestCompanyName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"Acme Corp.pdf", "Acme Corp"},
		{"docs/Acme_Corp_redacted.txt", "Acme_Corp"},
		{`C:\uploads\Beta Pty.docx`, "Beta Pty"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := redaction.CompanyName(tt.filename); got != tt.want {
				t.Errorf("CompanyName(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestParseRules(t *testing.T) {
	data := []byte(`
rules:
  - category: project
    label: "[REDACTED PROJECT]"
    terms: ["Project Falcon"]
  - category: staff_id
    pattern: 'EMP-\d{5}'
exclusions:
  - Wannon Water
`)

	rules, exclusions, err := redaction.ParseRules(data)
	if err != nil {
		t.Fatalf("ParseRules() error = %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("len(rules) = %d, want 2", len(rules))
	}
	if rules[1].Label != "[REDACTED STAFF ID]" {
		t.Errorf("default label = %q", rules[1].Label)
	}
	if !exclusions.Contains("Wannon Water") {
		t.Errorf("exclusions = %v", exclusions)
	}

	got := redaction.New(rules, exclusions).Apply("the project falcon bid from emp-00000 and EMP-12345", "", nil).Text
	if !strings.Contains(got, "the [REDACTED PROJECT] bid") {
		t.Errorf("terms rule not applied: %q", got)
	}
	if !strings.Contains(got, "[REDACTED STAFF ID]") || strings.Contains(got, "EMP-12345") {
		t.Errorf("pattern rule not applied: %q", got)
	}
}

func TestParseRulesInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "rules: [unclosed"},
		{"missing category", "rules:\n  - pattern: 'x'"},
		{"pattern and terms", "rules:\n  - category: a\n    pattern: 'x'\n    terms: [y]"},
		{"neither", "rules:\n  - category: a"},
		{"bad regex", "rules:\n  - category: a\n    pattern: '(['"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := redaction.ParseRules([]byte(tt.data))
			if !errors.Is(err, redaction.ErrInvalidRules) {
				t.Errorf("error = %v, want ErrInvalidRules", err)
			}
		})
	}
}
