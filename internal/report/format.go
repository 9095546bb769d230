package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AndrewDilley/TenderEvaluation/internal/workflow"
)

// ErrUnknownFormat indicates a requested output format that has no renderer.
var ErrUnknownFormat = errors.New("unknown report format")

// Format selects how a Result is rendered.
type Format string

const (
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatXLSX     Format = "xlsx"
)

// ParseFormat resolves a user supplied format name. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case "md":
		return FormatMarkdown, nil
	case FormatJSON, FormatHTML, FormatMarkdown, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json"
}

func (f Format) Extension() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return "." + string(f)
}

// Render writes res to w in format f.
func Render(w io.Writer, f Format, res *workflow.Result) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case FormatHTML:
		return HTML(w, res)
	case FormatMarkdown:
		return Markdown(w, res)
	case FormatXLSX:
		return Workbook(w, res)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
