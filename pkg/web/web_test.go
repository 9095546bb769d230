package web_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/AndrewDilley/TenderEvaluation/pkg/web"
)

var testFS = fstest.MapFS{
	"templates/layout.html":  {Data: []byte(`<title>{{ .Title }}</title><base href="{{ .BasePath }}">{{ template "content" . }}`)},
	"templates/home.html":    {Data: []byte(`{{ define "content" }}home {{ .Data }}{{ end }}`)},
	"templates/missing.html": {Data: []byte(`{{ define "content" }}gone{{ end }}`)},
	"static/app.js":          {Data: []byte("console.log(1)")},
	"templates/broken.html":  {Data: []byte(`{{ define "content" }}{{ .Unclosed {{ end }}`)},
}

var (
	home    = web.View{Pattern: "GET /{$}", Template: "templates/home.html", Title: "Home"}
	missing = web.View{Template: "templates/missing.html", Title: "Missing"}
)

func TestTemplateSetRender(t *testing.T) {
	set, err := web.NewTemplateSet(testFS, "templates/layout.html", "layout.html", "/app", "data", home, missing)
	if err != nil {
		t.Fatalf("NewTemplateSet() error = %v", err)
	}

	var buf bytes.Buffer
	if err := set.Render(&buf, home); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := `<title>Home</title><base href="/app">home data`
	if buf.String() != want {
		t.Errorf("Render() = %q, want %q", buf.String(), want)
	}

	if err := set.Render(&buf, web.View{Template: "templates/other.html"}); err == nil {
		t.Error("Render() of unknown view should fail")
	}
}

func TestTemplateSetBrokenView(t *testing.T) {
	broken := web.View{Template: "templates/broken.html"}
	if _, err := web.NewTemplateSet(testFS, "templates/layout.html", "layout.html", "/", nil, broken); err == nil {
		t.Error("NewTemplateSet() should fail on a broken template")
	}
}

func TestRouter(t *testing.T) {
	set, err := web.NewTemplateSet(testFS, "templates/layout.html", "layout.html", "/app", nil, home, missing)
	if err != nil {
		t.Fatalf("NewTemplateSet() error = %v", err)
	}
	assets, err := web.Assets(testFS, "static", "/static/")
	if err != nil {
		t.Fatalf("Assets() error = %v", err)
	}

	router := web.NewRouter(set.Handler(missing, http.StatusNotFound))
	router.Handle(home.Pattern, set.Handler(home, http.StatusOK))
	router.Handle("GET /static/", assets)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/", http.StatusOK, "home"},
		{"/static/app.js", http.StatusOK, "console.log(1)"},
		{"/nowhere", http.StatusNotFound, "gone"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			body, _ := io.ReadAll(rec.Body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if !strings.Contains(string(body), tt.body) {
				t.Errorf("body = %q, want %q", body, tt.body)
			}
		})
	}
}
