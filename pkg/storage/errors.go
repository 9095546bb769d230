package storage

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates no object is stored under the requested key.
	ErrNotFound = errors.New("stored object not found")
	// ErrEmptyKey indicates an empty storage key was provided.
	ErrEmptyKey = errors.New("storage key must not be empty")
	// ErrInvalidKey indicates a key that could escape the storage root:
	// a ".." segment or a leading slash or backslash.
	ErrInvalidKey = errors.New("storage key contains invalid path segment")
)

// MapHTTPStatus maps storage errors to HTTP status codes for the storage
// browse and download endpoints.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyKey), errors.Is(err, ErrInvalidKey):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
