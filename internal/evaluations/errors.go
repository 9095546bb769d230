package evaluations

import (
	"errors"
	"net/http"

	"github.com/AndrewDilley/TenderEvaluation/internal/criteria"
	"github.com/AndrewDilley/TenderEvaluation/internal/extraction"
	"github.com/AndrewDilley/TenderEvaluation/internal/report"
	"github.com/AndrewDilley/TenderEvaluation/internal/scoring"
	"github.com/AndrewDilley/TenderEvaluation/internal/workflow"
)

// Domain errors for evaluation requests.
var (
	ErrAgentUnavailable = errors.New("language model is not configured")
	ErrFileTooLarge     = errors.New("upload exceeds maximum size")
	ErrInvalidForm      = errors.New("invalid multipart form")
	ErrMissingRubric    = errors.New("evaluation_criteria file is required")
)

// MapHTTPStatus maps evaluation errors, including those surfaced from the
// workflow, to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrAgentUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, scoring.ErrMalformedResponse),
		errors.Is(err, workflow.ErrScoringFailed):
		return http.StatusBadGateway
	case errors.Is(err, ErrInvalidForm),
		errors.Is(err, ErrMissingRubric),
		errors.Is(err, extraction.ErrUnsupportedInput),
		errors.Is(err, extraction.ErrUnreadable),
		errors.Is(err, criteria.ErrUnsupportedFormat),
		errors.Is(err, criteria.ErrMalformedRubric),
		errors.Is(err, report.ErrUnknownFormat),
		errors.Is(err, workflow.ErrEmptyBatch),
		errors.Is(err, workflow.ErrTooManyDocuments),
		errors.Is(err, workflow.ErrDuplicateDocument):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
