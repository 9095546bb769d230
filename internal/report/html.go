package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/AndrewDilley/TenderEvaluation/internal/workflow"
)

//go:embed templates/report.html
var templateFS embed.FS

var page = template.Must(template.ParseFS(templateFS, "templates/report.html"))

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

type htmlReport struct {
	Document string
	Body     template.HTML
}

type htmlPage struct {
	Meta     Meta
	MetaLine string
	Warnings []string
	Tables   []Table
	Reports  []htmlReport
}

// HTML writes res as a standalone HTML page. HTML report fragments are
// sanitized; any other fragment is rendered as markdown.
func HTML(w io.Writer, res *workflow.Result) error {
	meta := metaOf(res)
	scored, yesNo := Tables(res.Summary)

	data := htmlPage{
		Meta:     meta,
		MetaLine: meta.line(),
		Warnings: res.Warnings,
		Tables:   []Table{scored, yesNo},
	}

	for _, r := range res.Reports {
		body, err := FragmentHTML(r.Fragment)
		if err != nil {
			return fmt.Errorf("render report for %s: %w", r.Document, err)
		}
		data.Reports = append(data.Reports, htmlReport{Document: r.Document, Body: body})
	}

	return page.Execute(w, data)
}

// FragmentHTML converts one model report fragment into safe HTML.
func FragmentHTML(fragment string) (template.HTML, error) {
	if IsHTML(fragment) {
		return template.HTML(Sanitize(fragment)), nil
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(fragment), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
