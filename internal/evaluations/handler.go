package evaluations

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/AndrewDilley/TenderEvaluation/internal/report"
	"github.com/AndrewDilley/TenderEvaluation/internal/scoring"
	"github.com/AndrewDilley/TenderEvaluation/internal/workflow"
	"github.com/AndrewDilley/TenderEvaluation/pkg/formatting"
	"github.com/AndrewDilley/TenderEvaluation/pkg/handlers"
	"github.com/AndrewDilley/TenderEvaluation/pkg/routes"
)

// Multipart form field names.
const (
	FieldDocuments    = "documents"
	FieldRubric       = "evaluation_criteria"
	FieldExclusions   = "exclusions"
	FieldInstructions = "instructions"
	FieldFormat       = "format"
)

const rawExcerptLength = 500

// Handler provides HTTP endpoints for evaluation operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "evaluations"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for evaluation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags: []string{"Evaluations"},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/evaluations", Handler: h.Evaluate, MaxBytes: h.maxUploadSize, OpenAPI: Spec.Evaluate},
			{Method: "POST", Pattern: "/redactions", Handler: h.Redact, MaxBytes: h.maxUploadSize, OpenAPI: Spec.Redact},
			{Method: "POST", Pattern: "/criteria", Handler: h.Criteria, MaxBytes: h.maxUploadSize, OpenAPI: Spec.Criteria},
		},
	}
}

// Evaluate scores every uploaded document against the uploaded rubric and
// returns the result as JSON, an HTML page, markdown, or an xlsx workbook.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(r); err != nil {
		h.respondError(w, err)
		return
	}

	format, err := report.ParseFormat(formValue(r, FieldFormat))
	if err != nil {
		h.respondError(w, err)
		return
	}

	rubric, err := formFile(r, FieldRubric)
	if err != nil {
		h.respondError(w, err)
		return
	}

	docs, err := formFiles(r, FieldDocuments)
	if err != nil {
		h.respondError(w, err)
		return
	}

	result, err := h.sys.Evaluate(r.Context(), workflow.Batch{
		Rubric:       rubric,
		Documents:    docs,
		Exclusions:   exclusions(r),
		Instructions: formValue(r, FieldInstructions),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	if format == report.FormatJSON {
		handlers.RespondJSON(w, http.StatusOK, result)
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, format, result); err != nil {
		h.respondError(w, err)
		return
	}

	if format == report.FormatHTML {
		w.Header().Set("Content-Type", format.ContentType())
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
		return
	}

	filename := fmt.Sprintf("evaluation_%s%s", result.CompletedAt.Format("20060102_150405"), format.Extension())
	handlers.RespondAttachment(w, format.ContentType(), filename, buf.Bytes())
}

// Redact returns the redacted text and findings of each uploaded document.
func (h *Handler) Redact(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(r); err != nil {
		h.respondError(w, err)
		return
	}

	docs, err := formFiles(r, FieldDocuments)
	if err != nil {
		h.respondError(w, err)
		return
	}

	result, err := h.sys.Redact(r.Context(), exclusions(r), docs)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Criteria parses the uploaded rubric and returns the criteria model.
func (h *Handler) Criteria(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(r); err != nil {
		h.respondError(w, err)
		return
	}

	rubric, err := formFile(r, FieldRubric)
	if err != nil {
		h.respondError(w, err)
		return
	}

	model, err := h.sys.Criteria(rubric)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, model)
}

func (h *Handler) parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(h.maxUploadSize)
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit %s", ErrFileTooLarge, formatting.FormatBytes(tooLarge.Limit, 0))
	}
	return fmt.Errorf("%w: %w", ErrInvalidForm, err)
}

// respondError attaches an excerpt of the raw model output when a
// response could not be parsed.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := MapHTTPStatus(err)

	var malformed *scoring.ResponseError
	if errors.As(err, &malformed) {
		handlers.RespondErrorDetail(w, h.logger, status, err, formatting.Truncate(malformed.Raw, rawExcerptLength))
		return
	}
	handlers.RespondError(w, h.logger, status, err)
}

func formValue(r *http.Request, field string) string {
	return strings.TrimSpace(r.FormValue(field))
}

// exclusions accepts repeated fields, comma-separated values, or both.
func exclusions(r *http.Request) []string {
	var out []string
	for _, v := range r.MultipartForm.Value[FieldExclusions] {
		for item := range strings.SplitSeq(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func formFile(r *http.Request, field string) (workflow.Upload, error) {
	headers := fileHeaders(r, field)
	if len(headers) == 0 {
		return workflow.Upload{}, ErrMissingRubric
	}
	return readUpload(headers[0])
}

// formFiles reads every file posted under field or field[].
func formFiles(r *http.Request, field string) ([]workflow.Upload, error) {
	headers := fileHeaders(r, field)
	if len(headers) == 0 {
		return nil, workflow.ErrEmptyBatch
	}

	uploads := make([]workflow.Upload, 0, len(headers))
	for _, fh := range headers {
		u, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}

func fileHeaders(r *http.Request, field string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return append(r.MultipartForm.File[field], r.MultipartForm.File[field+"[]"]...)
}

func readUpload(fh *multipart.FileHeader) (workflow.Upload, error) {
	file, err := fh.Open()
	if err != nil {
		return workflow.Upload{}, fmt.Errorf("%w: open %s: %w", ErrInvalidForm, fh.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return workflow.Upload{}, fmt.Errorf("%w: read %s: %w", ErrInvalidForm, fh.Filename, err)
	}
	return workflow.Upload{Filename: fh.Filename, Data: data}, nil
}
