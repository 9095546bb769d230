package web

import "net/http"

// Router wraps http.ServeMux with a handler for unmatched routes, such as
// a rendered not-found page.
type Router struct {
	mux      *http.ServeMux
	notFound http.Handler
}

// NewRouter creates a Router. A nil notFound falls back to the ServeMux
// default response.
func NewRouter(notFound http.Handler) *Router {
	return &Router{mux: http.NewServeMux(), notFound: notFound}
}

// Handle registers a handler for the given pattern.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if _, pattern := r.mux.Handler(req); pattern == "" && r.notFound != nil {
		r.notFound.ServeHTTP(w, req)
		return
	}
	r.mux.ServeHTTP(w, req)
}
