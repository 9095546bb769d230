// Package prompts composes the scoring request sent to the language model
// from the criteria model, the redacted document, and the output contract.
package prompts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AndrewDilley/TenderEvaluation/internal/criteria"
	"github.com/AndrewDilley/TenderEvaluation/internal/scoring"
)

// Compose builds the user prompt for one document. document is the label
// the response must use in its score and answer keys.
func Compose(instructions string, model *criteria.Model, document, text string) string {
	if instructions == "" {
		instructions = evaluateInstructions
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	writeCriteria(&sb, model)
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Document: %s\n\n", document))
	sb.WriteString(text)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf(outputSpec, document, scoring.Delimiter))

	return sb.String()
}

// Criteria renders the criteria model as the text block embedded in the prompt.
func Criteria(model *criteria.Model) string {
	var sb strings.Builder
	writeCriteria(&sb, model)
	return sb.String()
}

func writeCriteria(sb *strings.Builder, model *criteria.Model) {
	if model == nil {
		return
	}

	if scored := model.Scored(); len(scored) > 0 {
		sb.WriteString("Scored criteria (weighting %):\n")
		for _, c := range scored {
			fmt.Fprintf(sb, "- %s (%s%%)\n", c.Name, strconv.FormatFloat(*c.Weighting, 'f', -1, 64))
			writeDetail(sb, c)
		}
		sb.WriteString("\n")
	}

	if yesNo := model.YesNo(); len(yesNo) > 0 {
		sb.WriteString("Yes/No criteria:\n")
		for _, c := range yesNo {
			fmt.Fprintf(sb, "- %s\n", c.Name)
			writeDetail(sb, c)
		}
		sb.WriteString("\n")
	}

	var other []*criteria.Criterion
	for _, c := range model.Ordered() {
		if c.Kind == criteria.KindUnknown {
			other = append(other, c)
		}
	}
	if len(other) > 0 {
		sb.WriteString("Other considerations (not scored):\n")
		for _, c := range other {
			fmt.Fprintf(sb, "- %s: %s\n", c.Name, c.Classifier)
			writeDetail(sb, c)
		}
		sb.WriteString("\n")
	}
}

func writeDetail(sb *strings.Builder, c *criteria.Criterion) {
	for _, comment := range c.Comments {
		fmt.Fprintf(sb, "  Note: %s\n", comment)
	}
	if len(c.SubCriteria) == 0 {
		return
	}
	sb.WriteString("  Sub-criteria:\n")
	for _, sub := range c.SubCriteria {
		if len(sub.Comments) == 0 {
			fmt.Fprintf(sb, "  - %s\n", sub.Name)
			continue
		}
		fmt.Fprintf(sb, "  - %s: %s\n", sub.Name, strings.Join(sub.Comments, "; "))
	}
}
