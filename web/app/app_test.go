package app_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AndrewDilley/TenderEvaluation/pkg/module"
	"github.com/AndrewDilley/TenderEvaluation/web/app"
)

func TestModule(t *testing.T) {
	m, err := app.NewModule("/app", "/api")
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	router := module.NewRouter()
	router.Mount(m)

	tests := []struct {
		path   string
		status int
		want   []string
	}{
		{"/app", http.StatusOK, []string{`data-api-base="/api"`, `name="evaluation_criteria"`, `/app/static/app.js`}},
		{"/app/redact", http.StatusOK, []string{"Redaction Preview", `data-endpoint="/redactions"`}},
		{"/app/static/app.js", http.StatusOK, []string{"FormData"}},
		{"/app/missing", http.StatusNotFound, []string{"Not Found"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			body, _ := io.ReadAll(rec.Body)
			for _, want := range tt.want {
				if !strings.Contains(string(body), want) {
					t.Errorf("body missing %q", want)
				}
			}
		})
	}
}
