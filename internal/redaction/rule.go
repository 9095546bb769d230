package redaction

import (
	"regexp"
	"strings"
)

// Category identifies the kind of sensitive span a Rule detects.
type Category string

const (
	CategoryIDNumber   Category = "id_number"
	CategoryIPAddress  Category = "ip_address"
	CategoryCreditCard Category = "credit_card"
	CategoryEmail      Category = "email"
	CategoryAmount     Category = "amount"
	CategoryPhone      Category = "phone"
	CategoryAddress    Category = "address"
	CategoryCompany    Category = "company"
	CategoryExclusion  Category = "exclusion"
	CategoryName       Category = "name"
)

// Replacement labels written in place of redacted spans.
const (
	LabelIDNumber   = "[REDACTED ID NUMBER]"
	LabelIPAddress  = "[REDACTED IP ADDRESS]"
	LabelCreditCard = "[REDACTED CREDIT CARD]"
	LabelEmail      = "[REDACTED EMAIL]"
	LabelAmount     = "[REDACTED AMOUNT]"
	LabelPhone      = "[REDACTED PHONE]"
	LabelAddress    = "[REDACTED ADDRESS]"
	LabelCompany    = "[REDACTED COMPANY]"
	LabelName       = "[REDACTED NAME]"
)

// Rule is a single ordered detector in the redaction pipeline.
// Matches are replaced with Label unless Preserve is set, in which case
// they are locked in place so no later rule can touch them.
type Rule struct {
	Category Category
	Label    string
	Pattern  *regexp.Regexp
	Preserve bool

	// Keep, when set, leaves individual matches untouched.
	Keep func(match string) bool
}

var streetTypes = []string{
	"Street", "St", "Drive", "Dve", "Dv", "Lane", "Ln", "Road", "Rd",
	"Court", "Ct", "Crescent", "Cres", "Cr", "Highway", "HWY", "Hwy",
	"Avenue", "Ave", "Boulevard", "Way",
}

var stateNames = []string{
	"Australian Capital Territory", "New South Wales", "Northern Territory",
	"Western Australia", "South Australia", "Queensland", "Tasmania", "Victoria",
}

var stateCodes = []string{"ACT", "NSW", "NT", "QLD", "SA", "TAS", "VIC", "WA"}

var (
	pageMarkerPattern = regexp.MustCompile(`\(Page \d+\)`)

	idNumberPattern     = regexp.MustCompile(`\b\d{3}[-.]?\d{2}[-.]?\d{4}\b`)
	ipAddressPattern    = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
	cardPattern         = regexp.MustCompile(`\b\d{16}\b`)
	groupedCardPattern  = regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`)
	emailPattern        = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	amountPattern       = regexp.MustCompile(`\$(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{2})?\b`)
	phonePattern        = regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?|\b(?:\d{1,3}[-.\s]?)?)(?:\(?\d{1,4}\)?[-.\s]?)?\d{3,4}[-.\s]?\d{3,4}\b`)
	addressPattern      = regexp.MustCompile(addressExpr())
	namePattern         = regexp.MustCompile(`\b(?:[A-Z][a-z]+(?:[ \t][A-Z][a-z]+)*|[A-Z](?:\.|[a-z]+)?(?:[ \t][A-Z](?:\.|[a-z]+)?)*[ \t][A-Z][a-z]+)\b`)
	separatorPattern    = regexp.MustCompile(`[ _]+`)
	exclusionWordPrefix = regexp.MustCompile(`^\w`)
	exclusionWordSuffix = regexp.MustCompile(`\w$`)
)

// addressExpr builds a street address matcher: a street number, one to four
// words, a street type, then an optional suburb that only counts when a state
// or postcode follows it. State codes stay case-sensitive so words like "wa"
// or "sa" inside prose do not extend a match.
func addressExpr() string {
	state := `(?:(?-i:` + strings.Join(stateCodes, "|") + `)|` + strings.Join(stateNames, "|") + `)`
	locality := `(?:,?[ \t]+(?:[A-Za-z]+(?:[ \t]+[A-Za-z]+){0,2},?[ \t]+)?(?:` + state + `(?:,?[ \t]+\d{4})?|\d{4}))?`

	return `(?i)\b(?:\d{1,5}/)?\d{1,5}[A-Za-z]?(?:[ \t]+[A-Za-z'-]+){1,4}?[ \t]+(?:` +
		strings.Join(streetTypes, "|") + `)\b\.?` + locality + `\b`
}

// Builtin returns the fixed structured-pattern rules in application order.
// Higher-specificity patterns run first so later, broader ones never see
// the spans they have already claimed.
func Builtin() []Rule {
	return []Rule{
		{Category: CategoryIDNumber, Label: LabelIDNumber, Pattern: idNumberPattern},
		{Category: CategoryIPAddress, Label: LabelIPAddress, Pattern: ipAddressPattern},
		{Category: CategoryCreditCard, Label: LabelCreditCard, Pattern: cardPattern},
		{Category: CategoryCreditCard, Label: LabelCreditCard, Pattern: groupedCardPattern},
		{Category: CategoryEmail, Label: LabelEmail, Pattern: emailPattern},
		{Category: CategoryAmount, Label: LabelAmount, Pattern: amountPattern},
		{Category: CategoryPhone, Label: LabelPhone, Pattern: phonePattern},
		{Category: CategoryAddress, Label: LabelAddress, Pattern: addressPattern},
	}
}

// CompanyRule returns a rule matching the company name derived from filename
// in any separator variant (spaces, underscores, or none). When the filename
// stem is underscore separated, its first segment also matches on its own,
// so "Acme_Tender_Response.pdf" redacts a bare "Acme". It returns false when
// the filename yields no usable name.
func CompanyRule(filename string) (Rule, bool) {
	name := CompanyName(filename)
	if len(name) < 2 {
		return Rule{}, false
	}

	full, ok := variantExpr(name)
	if !ok {
		return Rule{}, false
	}

	alts := []string{full}
	if first, _, cut := strings.Cut(name, "_"); cut {
		first = strings.TrimSpace(first)
		if len(first) >= 2 && first != name {
			if expr, ok := variantExpr(first); ok {
				alts = append(alts, expr)
			}
		}
	}

	return Rule{
		Category: CategoryCompany,
		Label:    LabelCompany,
		Pattern:  regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)`),
	}, true
}

func variantExpr(name string) (string, bool) {
	parts := separatorPattern.Split(name, -1)
	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			quoted = append(quoted, regexp.QuoteMeta(p))
		}
	}
	if len(quoted) == 0 {
		return "", false
	}
	return boundary(quoted[0], true) + strings.Join(quoted, `[\s_]*`) + boundary(quoted[len(quoted)-1], false), true
}

// ExclusionRule locks every exact, case-sensitive occurrence of an
// exclusion entry so the name rule cannot absorb it into a longer match.
func ExclusionRule(exclusions ExclusionSet) (Rule, bool) {
	entries := exclusions.sorted()
	if len(entries) == 0 {
		return Rule{}, false
	}

	alts := make([]string, 0, len(entries))
	for _, e := range entries {
		q := regexp.QuoteMeta(e)
		alts = append(alts, boundary(e, true)+q+boundary(e, false))
	}

	return Rule{
		Category: CategoryExclusion,
		Pattern:  regexp.MustCompile(strings.Join(alts, "|")),
		Preserve: true,
	}, true
}

// NameRule returns the broad proper-noun rule. Matches equal to an
// exclusion entry are left in place.
func NameRule(exclusions ExclusionSet) Rule {
	return Rule{
		Category: CategoryName,
		Label:    LabelName,
		Pattern:  namePattern,
		Keep:     exclusions.Contains,
	}
}

func boundary(s string, leading bool) string {
	if leading && exclusionWordPrefix.MatchString(s) {
		return `\b`
	}
	if !leading && exclusionWordSuffix.MatchString(s) {
		return `\b`
	}
	return ""
}
