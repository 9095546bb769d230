package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AndrewDilley/TenderEvaluation/internal/config"
	"github.com/AndrewDilley/TenderEvaluation/internal/infrastructure"
	"github.com/AndrewDilley/TenderEvaluation/pkg/lifecycle"
)

func newInfra(t *testing.T) *infrastructure.Infrastructure {
	t.Helper()
	t.Setenv(config.EnvTenderEnv, "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("TENDER_AGENT_API_KEY", "")
	t.Setenv("TENDER_STORAGE_ROOT_DIR", t.TempDir())

	cfg, err := config.LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure: %v", err)
	}
	return infra
}

func TestHealthEndpoints(t *testing.T) {
	infra := newInfra(t)
	router := buildRouter(infra)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}

	if err := infra.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	infra.Lifecycle.WaitForStartup()

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz status = %d, want 503 without an agent", rec.Code)
	}

	var status lifecycle.Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !status.Checks["storage"] || status.Checks["agent"] {
		t.Errorf("checks = %v", status.Checks)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	infra := newInfra(t)
	infra.Metrics.Evaluated("success")
	router := buildRouter(infra)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `tender_evaluations_total{outcome="success"} 1`) {
		t.Error("missing evaluation counter")
	}
}
