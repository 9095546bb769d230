package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/AndrewDilley/TenderEvaluation/internal/extraction"
	"github.com/AndrewDilley/TenderEvaluation/internal/redaction"
	"github.com/AndrewDilley/TenderEvaluation/internal/scoring"
)

// Upload is a named file received from a caller.
type Upload struct {
	Filename string
	Data     []byte
}

// Prepared is one document after extraction and redaction.
type Prepared struct {
	Document    string              `json:"document"`
	Filename    string              `json:"filename"`
	Pages       int                 `json:"pages,omitempty"`
	Text        string              `json:"text"`
	Findings    []redaction.Finding `json:"findings"`
	RedactedKey string              `json:"redacted_key,omitempty"`
}

// Prepare extracts and redacts each upload in order, staging the redacted
// text under the session when storage is configured. It fails on the first
// unsupported or unreadable upload. A staging failure is logged and leaves
// RedactedKey empty.
func Prepare(ctx context.Context, rt *Runtime, session *Session, uploads []Upload) ([]Prepared, error) {
	if len(uploads) == 0 {
		return nil, ErrEmptyBatch
	}
	if rt.MaxDocuments > 0 && len(uploads) > rt.MaxDocuments {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyDocuments, len(uploads), rt.MaxDocuments)
	}

	seen := make(map[string]string, len(uploads))
	prepared := make([]Prepared, 0, len(uploads))

	for _, u := range uploads {
		label := scoring.DocumentLabel(u.Filename)
		if prev, ok := seen[strings.ToLower(label)]; ok {
			return nil, fmt.Errorf("%w: %s and %s", ErrDuplicateDocument, prev, u.Filename)
		}
		seen[strings.ToLower(label)] = u.Filename

		doc, err := extraction.Extract(u.Filename, u.Data)
		if err != nil {
			return nil, err
		}

		result := rt.redactor().Apply(doc.Text, u.Filename, session.Exclusions)
		for _, f := range result.Findings {
			rt.Metrics.Redacted(string(f.Category), f.Count)
		}

		p := Prepared{
			Document: label,
			Filename: u.Filename,
			Pages:    doc.Pages,
			Text:     result.Text,
			Findings: result.Findings,
		}
		p.RedactedKey = stage(ctx, rt, session, p)

		rt.logger().InfoContext(
			ctx, "document redacted",
			"session", session.ID,
			"document", label,
			"redactions", result.Total(),
			"page_markers", result.PageMarkers,
		)

		prepared = append(prepared, p)
	}

	return prepared, nil
}

func stage(ctx context.Context, rt *Runtime, session *Session, p Prepared) string {
	if rt.Storage == nil {
		return ""
	}

	key := session.Key(p.Filename)
	if err := rt.Storage.Upload(ctx, key, strings.NewReader(p.Text), "text/plain; charset=utf-8"); err != nil {
		rt.logger().WarnContext(
			ctx, "stage redacted text failed",
			"session", session.ID,
			"document", p.Document,
			"error", err,
		)
		return ""
	}
	return key
}
