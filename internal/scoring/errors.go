package scoring

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse indicates a scoring response whose JSON block is
// missing, invalid, or does not follow the expected record shape.
var ErrMalformedResponse = errors.New("malformed scoring response")

// ResponseError describes why one document's response was rejected and
// carries the raw response text for diagnosis.
type ResponseError struct {
	Document string
	Reason   string
	Raw      string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s for %s: %s", ErrMalformedResponse, e.Document, e.Reason)
}

func (e *ResponseError) Unwrap() error {
	return ErrMalformedResponse
}

func malformed(document, raw, format string, args ...any) error {
	return &ResponseError{
		Document: document,
		Reason:   fmt.Sprintf(format, args...),
		Raw:      raw,
	}
}
