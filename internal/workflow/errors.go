package workflow

import "errors"

// Sentinel errors for workflow operations.
var (
	ErrEmptyBatch        = errors.New("evaluation batch contains no documents")
	ErrTooManyDocuments  = errors.New("evaluation batch exceeds the document limit")
	ErrDuplicateDocument = errors.New("documents share the same name")
	ErrScoringFailed     = errors.New("document scoring failed")
)
