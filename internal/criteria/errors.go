package criteria

import "errors"

var (
	// ErrMalformedRubric indicates the rubric produced no criteria.
	ErrMalformedRubric = errors.New("malformed rubric")
	// ErrUnsupportedFormat indicates the rubric file type cannot be read.
	ErrUnsupportedFormat = errors.New("unsupported rubric format")
)
