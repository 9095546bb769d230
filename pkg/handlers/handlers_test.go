package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AndrewDilley/TenderEvaluation/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name   string
		status int
		data   any
	}{
		{"200 with map", http.StatusOK, map[string]string{"key": "value"}},
		{"201 with struct", http.StatusCreated, struct{ ID int }{ID: 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondJSON(rec, tt.status, tt.data)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.status {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.status)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %s", ct)
			}

			body, _ := io.ReadAll(res.Body)
			var parsed map[string]any
			if err := json.Unmarshal(body, &parsed); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()

	handlers.RespondError(rec, logger, http.StatusBadRequest, errors.New("invalid input"))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", res.StatusCode)
	}

	var parsed handlers.ErrorResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if parsed.Error != "invalid input" || parsed.Detail != "" {
		t.Errorf("body: got %+v", parsed)
	}
}

func TestRespondErrorDetail(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()

	handlers.RespondErrorDetail(rec, logger, http.StatusBadGateway, errors.New("bad upstream"), "raw text")

	var parsed handlers.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if rec.Code != http.StatusBadGateway || parsed.Detail != "raw text" {
		t.Errorf("got %d %+v", rec.Code, parsed)
	}
}

func TestRespondAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondAttachment(rec, "text/html; charset=utf-8", "report.html", []byte("<p>ok</p>"))

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="report.html"` {
		t.Errorf("content-disposition: got %s", got)
	}
	if got := rec.Header().Get("Content-Length"); got != "9" {
		t.Errorf("content-length: got %s", got)
	}
	if rec.Body.String() != "<p>ok</p>" {
		t.Errorf("body: got %s", rec.Body.String())
	}
}
