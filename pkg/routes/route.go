package routes

import (
	"net/http"

	"github.com/AndrewDilley/TenderEvaluation/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler.
// MaxBytes, when positive, caps the request body size.
// OpenAPI, when set, is published in the API description.
type Route struct {
	Method   string
	Pattern  string
	Handler  http.HandlerFunc
	MaxBytes int64
	OpenAPI  *openapi.Operation
}

func (r Route) handler() http.HandlerFunc {
	if r.MaxBytes <= 0 {
		return r.Handler
	}
	return func(w http.ResponseWriter, req *http.Request) {
		req.Body = http.MaxBytesReader(w, req.Body, r.MaxBytes)
		r.Handler(w, req)
	}
}
