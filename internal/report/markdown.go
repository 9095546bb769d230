package report

import (
	"fmt"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"

	"github.com/AndrewDilley/TenderEvaluation/internal/workflow"
)

func newConverter() *md.Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return converter
}

// Markdown writes res as a GitHub-flavored markdown document. HTML report
// fragments are converted to markdown.
func Markdown(w io.Writer, res *workflow.Result) error {
	meta := metaOf(res)
	scored, yesNo := Tables(res.Summary)
	converter := newConverter()

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n%s\n", meta.Title, meta.line())

	if len(res.Warnings) > 0 {
		sb.WriteString("\n## Warnings\n\n")
		for _, warning := range res.Warnings {
			fmt.Fprintf(&sb, "- %s\n", warning)
		}
	}

	for _, t := range []Table{scored, yesNo} {
		if len(t.Rows) > 0 {
			writeMarkdownTable(&sb, t)
		}
	}

	for _, r := range res.Reports {
		body, err := FragmentMarkdown(converter, r.Fragment)
		if err != nil {
			return fmt.Errorf("render report for %s: %w", r.Document, err)
		}
		fmt.Fprintf(&sb, "\n## %s\n\n%s\n", r.Document, body)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// FragmentMarkdown converts an HTML fragment to markdown and returns any
// other fragment unchanged.
func FragmentMarkdown(converter *md.Converter, fragment string) (string, error) {
	if !IsHTML(fragment) {
		return strings.TrimSpace(fragment), nil
	}
	if converter == nil {
		converter = newConverter()
	}
	out, err := converter.ConvertString(Sanitize(fragment))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func writeMarkdownTable(sb *strings.Builder, t Table) {
	fmt.Fprintf(sb, "\n## %s\n\n", t.Title)

	sb.WriteString("|")
	for _, h := range t.Headers {
		sb.WriteString(" " + escapeCell(h) + " |")
	}
	sb.WriteString("\n|")
	for i := range t.Headers {
		if i == 0 {
			sb.WriteString(" --- |")
		} else {
			sb.WriteString(" ---: |")
		}
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		sb.WriteString("|")
		for _, c := range row.Cells {
			v := escapeCell(c.Text)
			if row.Total {
				v = "**" + v + "**"
			}
			sb.WriteString(" " + v + " |")
		}
		sb.WriteString("\n")
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
