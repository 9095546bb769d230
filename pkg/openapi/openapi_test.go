package openapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AndrewDilley/TenderEvaluation/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Test API" || spec.Info.Version != "1.0.0" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if spec.Components == nil || spec.Paths == nil {
		t.Fatal("components and paths should not be nil")
	}
}

func TestAddOperation(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	spec.AddOperation("POST", "/evaluations", &openapi.Operation{Summary: "Evaluate"})
	spec.AddOperation("GET", "/storage/download/{key...}", &openapi.Operation{Summary: "Download"})
	spec.AddOperation("GET", "/evaluations", &openapi.Operation{Summary: "Other"})

	item := spec.Paths["/evaluations"]
	if item.Post == nil || item.Get == nil {
		t.Errorf("both methods should share a path item: %+v", item)
	}
	if _, ok := spec.Paths["/storage/download/{key}"]; !ok {
		t.Errorf("wildcard not normalized: %v", spec.Paths)
	}
}

func TestRefs(t *testing.T) {
	if got := openapi.SchemaRef("Evaluation").Ref; got != "#/components/schemas/Evaluation" {
		t.Errorf("schema ref: got %s", got)
	}
	if got := openapi.ResponseRef("NotFound").Ref; got != "#/components/responses/NotFound" {
		t.Errorf("response ref: got %s", got)
	}
}

func TestRequestBodyMultipart(t *testing.T) {
	rb := openapi.RequestBodyMultipart(map[string]*openapi.Schema{
		"documents":           openapi.FilesField("Supplier submissions"),
		"evaluation_criteria": openapi.FileField("Rubric"),
	}, "documents", "evaluation_criteria")

	mt, ok := rb.Content["multipart/form-data"]
	if !ok {
		t.Fatal("missing multipart/form-data content type")
	}
	if len(mt.Schema.Required) != 2 {
		t.Errorf("required: got %v", mt.Schema.Required)
	}
	if mt.Schema.Properties["documents"].Items.Format != "binary" {
		t.Error("documents should be an array of binary files")
	}
}

func TestResponseBinary(t *testing.T) {
	resp := openapi.ResponseBinary("Report", "text/markdown", "text/html")

	if len(resp.Content) != 2 {
		t.Fatalf("content types: got %d", len(resp.Content))
	}
	if resp.Content["text/html"].Schema.Format != "binary" {
		t.Error("schema should be binary")
	}
}

func TestParams(t *testing.T) {
	p := openapi.PathParam("key", "Blob key")
	if p.In != "path" || !p.Required || p.Schema.Type != "string" {
		t.Errorf("path param: got %+v", p)
	}

	q := openapi.QueryParam("prefix", "string", "Key prefix", false)
	if q.In != "query" || q.Required {
		t.Errorf("query param: got %+v", q)
	}
}

func TestNewComponentsDefaults(t *testing.T) {
	c := openapi.NewComponents()

	if _, ok := c.Schemas["Error"]; !ok {
		t.Error("missing Error schema")
	}
	for _, name := range []string{"BadRequest", "NotFound", "PayloadTooLarge", "BadGateway", "ServiceUnavailable"} {
		if _, ok := c.Responses[name]; !ok {
			t.Errorf("missing default response: %s", name)
		}
	}

	c.AddSchemas(map[string]*openapi.Schema{"Evaluation": {Type: "object"}})
	if _, ok := c.Schemas["Evaluation"]; !ok {
		t.Error("Evaluation schema not added")
	}
	if _, ok := c.Schemas["Error"]; !ok {
		t.Error("default Error schema should still exist")
	}
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data).ServeHTTP(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if parsed["openapi"] != "3.1.0" {
		t.Errorf("openapi: got %v", parsed["openapi"])
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_OPENAPI_TITLE", "Custom")

	cfg := &openapi.Config{}
	if err := cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE"}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.Title != "Custom" {
		t.Errorf("title: got %s", cfg.Title)
	}
	if cfg.Description == "" {
		t.Error("description default not applied")
	}
}
