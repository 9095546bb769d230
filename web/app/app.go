// Package app serves the browser front end: an evaluation upload form and
// a redaction preview form, both posting to the API module.
package app

import (
	"embed"
	"net/http"

	"github.com/AndrewDilley/TenderEvaluation/pkg/module"
	"github.com/AndrewDilley/TenderEvaluation/pkg/web"
)

//go:embed templates static
var content embed.FS

const layout = "layout.html"

var (
	evaluateView = web.View{Pattern: "GET /{$}", Template: "templates/views/evaluate.html", Title: "Evaluate Tenders"}
	redactView   = web.View{Pattern: "GET /redact", Template: "templates/views/redact.html", Title: "Redaction Preview"}
	notFoundView = web.View{Template: "templates/views/not-found.html", Title: "Not Found"}
)

// PageData is available to every page as .Data.
type PageData struct {
	APIBase string
}

// NewModule creates the front end module mounted at basePath. Forms post to
// the API module mounted at apiBase.
func NewModule(basePath, apiBase string) (*module.Module, error) {
	views := []web.View{evaluateView, redactView, notFoundView}

	set, err := web.NewTemplateSet(content, "templates/"+layout, layout, basePath, PageData{APIBase: apiBase}, views...)
	if err != nil {
		return nil, err
	}

	assets, err := web.Assets(content, "static", "/static/")
	if err != nil {
		return nil, err
	}

	router := web.NewRouter(set.Handler(notFoundView, http.StatusNotFound))
	router.Handle("GET /static/", assets)
	for _, v := range views[:2] {
		router.Handle(v.Pattern, set.Handler(v, http.StatusOK))
	}

	return module.New(basePath, router), nil
}
