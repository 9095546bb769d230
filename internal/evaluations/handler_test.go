package evaluations_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AndrewDilley/TenderEvaluation/internal/agent"
	"github.com/AndrewDilley/TenderEvaluation/internal/criteria"
	"github.com/AndrewDilley/TenderEvaluation/internal/evaluations"
	"github.com/AndrewDilley/TenderEvaluation/internal/extraction"
	"github.com/AndrewDilley/TenderEvaluation/internal/redaction"
	"github.com/AndrewDilley/TenderEvaluation/internal/scoring"
	"github.com/AndrewDilley/TenderEvaluation/internal/workflow"
	"github.com/AndrewDilley/TenderEvaluation/pkg/handlers"
	"github.com/AndrewDilley/TenderEvaluation/pkg/routes"
)

const rubricCSV = "Criteria,Weighting,Comments\nPrice,40,\nQuality,60,\nCompliant,Yes/No,\n"

func response(doc string) string {
	return fmt.Sprintf(`<p>%[1]s meets most requirements.</p>

### JSON Output:
[
  {"Criterion": "Price", "%[1]s Score": 7},
  {"Criterion": "Quality", "%[1]s Score": 8},
  {"Criterion": "Compliant", "%[1]s Yes/No": "Yes"}
]`, doc)
}

func scriptedAgent(replies map[string]string) agent.Client {
	return agent.ClientFunc(func(ctx context.Context, req agent.Request) (*agent.Response, error) {
		for doc, body := range replies {
			if strings.Contains(req.Prompt, "Document: "+doc+"\n") {
				return &agent.Response{Content: body, Model: "fake"}, nil
			}
		}
		return nil, errors.New("unexpected document")
	})
}

func newServer(t *testing.T, client agent.Client) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rt := &workflow.Runtime{
		Agent:    client,
		Redactor: redaction.New(nil, redaction.NewExclusionSet("Wannon Water")),
		Logger:   logger,
		Workers:  2,
	}

	sys := evaluations.New(rt, logger)
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(10<<20).Routes())

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type part struct {
	field    string
	filename string
	content  string
}

func post(t *testing.T, url string, parts ...part) *http.Response {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, p := range parts {
		if p.filename == "" {
			if err := w.WriteField(p.field, p.content); err != nil {
				t.Fatalf("write field: %v", err)
			}
			continue
		}
		f, err := w.CreateFormFile(p.field, p.filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		f.Write([]byte(p.content))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	resp, err := http.Post(url, w.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) handlers.ErrorResponse {
	t.Helper()
	var body handlers.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func batch(extra ...part) []part {
	return append([]part{
		{field: evaluations.FieldRubric, filename: "rubric.csv", content: rubricCSV},
		{field: "documents[]", filename: "Acme.txt", content: "Acme Pty Ltd proposes a fixed price."},
		{field: "documents[]", filename: "Beta.txt", content: "Contact jane@beta.com for detail."},
	}, extra...)
}

func TestEvaluateJSON(t *testing.T) {
	srv := newServer(t, scriptedAgent(map[string]string{
		"Acme": response("Acme"),
		"Beta": response("Beta"),
	}))

	resp := post(t, srv.URL+"/evaluations", batch()...)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %+v", resp.StatusCode, decodeError(t, resp))
	}

	var result struct {
		SessionID string           `json:"session_id"`
		Summary   *scoring.Summary `json:"summary"`
		Reports   []workflow.Report
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if result.SessionID == "" {
		t.Error("missing session id")
	}
	if len(result.Summary.Documents) != 2 {
		t.Errorf("documents = %v", result.Summary.Documents)
	}
	totals, ok := result.Summary.Totals()
	if !ok {
		t.Fatal("missing totals row")
	}
	if len(totals.Weighted) != 2 || totals.Weighted[0] == nil {
		t.Errorf("totals = %+v", totals)
	}
}

func TestEvaluateFormats(t *testing.T) {
	srv := newServer(t, scriptedAgent(map[string]string{
		"Acme": response("Acme"),
		"Beta": response("Beta"),
	}))

	tests := []struct {
		format      string
		contentType string
		attachment  bool
	}{
		{"html", "text/html; charset=utf-8", false},
		{"markdown", "text/markdown; charset=utf-8", true},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := post(t, srv.URL+"/evaluations", batch(part{field: evaluations.FieldFormat, content: tt.format})...)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("content type = %q", got)
			}
			disposition := resp.Header.Get("Content-Disposition")
			if tt.attachment != strings.HasPrefix(disposition, "attachment;") {
				t.Errorf("content disposition = %q", disposition)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	srv := newServer(t, scriptedAgent(map[string]string{
		"Acme": response("Acme"),
		"Beta": "Summary only.\n\n### JSON Output:\nnot json at all",
	}))

	tests := []struct {
		name   string
		parts  []part
		status int
	}{
		{
			name: "missing rubric",
			parts: []part{
				{field: "documents", filename: "Acme.txt", content: "text"},
			},
			status: http.StatusBadRequest,
		},
		{
			name: "no documents",
			parts: []part{
				{field: evaluations.FieldRubric, filename: "rubric.csv", content: rubricCSV},
			},
			status: http.StatusBadRequest,
		},
		{
			name: "unsupported document",
			parts: []part{
				{field: evaluations.FieldRubric, filename: "rubric.csv", content: rubricCSV},
				{field: "documents", filename: "Acme.rtf", content: "{\\rtf1}"},
			},
			status: http.StatusBadRequest,
		},
		{
			name: "unknown format",
			parts: []part{
				{field: evaluations.FieldFormat, content: "pdf"},
			},
			status: http.StatusBadRequest,
		},
		{
			name:   "malformed model response",
			parts:  batch(),
			status: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/evaluations", tt.parts...)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if body := decodeError(t, resp); body.Error == "" {
				t.Error("missing error message")
			}
		})
	}
}

func TestEvaluateMalformedDetail(t *testing.T) {
	srv := newServer(t, scriptedAgent(map[string]string{
		"Acme": "the model rambled\n\n### JSON Output:\n[{\"Score\": 5}]",
		"Beta": response("Beta"),
	}))

	resp := post(t, srv.URL+"/evaluations", batch()...)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	body := decodeError(t, resp)
	if !strings.Contains(body.Detail, "rambled") {
		t.Errorf("detail = %q, want raw excerpt", body.Detail)
	}
}

func TestEvaluateWithoutAgent(t *testing.T) {
	srv := newServer(t, nil)

	resp := post(t, srv.URL+"/evaluations", batch()...)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestEvaluateNotMultipart(t *testing.T) {
	srv := newServer(t, nil)

	resp, err := http.Post(srv.URL+"/evaluations", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRedact(t *testing.T) {
	srv := newServer(t, nil)

	resp := post(t, srv.URL+"/redactions",
		part{field: "documents", filename: "Beta.txt", content: "Email jane@beta.com about Wannon Water or Acme Water."},
		part{field: evaluations.FieldExclusions, content: "Acme Water"},
	)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body evaluations.Redaction
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Documents) != 1 {
		t.Fatalf("documents = %d", len(body.Documents))
	}

	text := body.Documents[0].Text
	if strings.Contains(text, "jane@beta.com") || !strings.Contains(text, redaction.LabelEmail) {
		t.Errorf("email not redacted: %q", text)
	}
	for _, keep := range []string{"Wannon Water", "Acme Water"} {
		if !strings.Contains(text, keep) {
			t.Errorf("%q redacted: %q", keep, text)
		}
	}
}

func TestCriteria(t *testing.T) {
	srv := newServer(t, nil)

	resp := post(t, srv.URL+"/criteria",
		part{field: evaluations.FieldRubric, filename: "rubric.csv", content: rubricCSV},
	)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var model criteria.Model
	if err := json.NewDecoder(resp.Body).Decode(&model); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(model.Criteria) != 3 || model.Weightings["Quality"] != 60 {
		t.Errorf("model = %+v", model)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{evaluations.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{evaluations.ErrAgentUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("wrap: %w", scoring.ErrMalformedResponse), http.StatusBadGateway},
		{workflow.ErrScoringFailed, http.StatusBadGateway},
		{extraction.ErrUnreadable, http.StatusBadRequest},
		{criteria.ErrMalformedRubric, http.StatusBadRequest},
		{workflow.ErrDuplicateDocument, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := evaluations.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
