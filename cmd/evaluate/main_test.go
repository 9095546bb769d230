package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndrewDilley/TenderEvaluation/internal/agent"
	"github.com/AndrewDilley/TenderEvaluation/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv(config.EnvTenderEnv, "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("TENDER_AGENT_API_KEY", "")
	t.Setenv("TENDER_STORAGE_ROOT_DIR", t.TempDir())
	return t.TempDir()
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCriteriaCommand(t *testing.T) {
	dir := isolate(t)
	rubric := writeFile(t, dir, "rubric.csv", "Criteria,Weighting\nPrice,40\nCompliant,Yes/No\n")

	out, err := execute(t, "criteria", rubric)
	if err != nil {
		t.Fatalf("criteria error = %v", err)
	}

	for _, want := range []string{"CRITERION", "Price", "40", "Compliant", "yes_no"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRedactCommand(t *testing.T) {
	dir := isolate(t)
	doc := writeFile(t, dir, "Acme.txt", "Send the invoice to accounts@acme.com.au today.")
	outDir := filepath.Join(dir, "redacted")

	out, err := execute(t, "--config-dir", dir, "redact", "--out-dir", outDir, doc)
	if err != nil {
		t.Fatalf("redact error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "Acme_redacted.txt"))
	if err != nil {
		t.Fatalf("read redacted: %v", err)
	}
	if strings.Contains(string(data), "accounts@acme.com.au") {
		t.Errorf("email not redacted: %q", data)
	}
	if !strings.Contains(out, "email") {
		t.Errorf("output missing findings:\n%s", out)
	}
}

func TestRunRequiresAgent(t *testing.T) {
	dir := isolate(t)
	rubric := writeFile(t, dir, "rubric.csv", "Price,100\n")
	doc := writeFile(t, dir, "Acme.txt", "text")

	_, err := execute(t, "--config-dir", dir, "run", "--criteria", rubric, doc)
	if !errors.Is(err, agent.ErrMissingAPIKey) {
		t.Errorf("run error = %v, want ErrMissingAPIKey", err)
	}
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	dir := isolate(t)
	rubric := writeFile(t, dir, "rubric.csv", "Price,100\n")
	doc := writeFile(t, dir, "Acme.txt", "text")

	if _, err := execute(t, "run", "--criteria", rubric, "--format", "pdf", doc); err == nil {
		t.Error("expected unknown format error")
	}
}
