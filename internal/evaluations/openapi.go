package evaluations

import "github.com/AndrewDilley/TenderEvaluation/pkg/openapi"

type spec struct {
	Evaluate *openapi.Operation
	Redact   *openapi.Operation
	Criteria *openapi.Operation
	Schemas  map[string]*openapi.Schema
}

var documentsField = openapi.FilesField("Supplier submissions (.pdf, .docx, .txt). The file stem is the document label.")
var rubricField = openapi.FileField("Evaluation criteria workbook (.csv or .xlsx)")
var exclusionsField = &openapi.Schema{
	Type:        "array",
	Description: "Names that are never redacted, in addition to the configured exclusions",
	Items:       &openapi.Schema{Type: "string"},
}

// Spec describes the evaluation endpoints for the published API description.
var Spec = spec{
	Evaluate: &openapi.Operation{
		Summary:     "Evaluate tenders",
		Description: "Redacts each submission, scores it against every criterion, and aggregates the results.",
		RequestBody: openapi.RequestBodyMultipart(map[string]*openapi.Schema{
			FieldDocuments:    documentsField,
			FieldRubric:       rubricField,
			FieldExclusions:   exclusionsField,
			FieldInstructions: {Type: "string", Description: "Replaces the default scoring instructions"},
			FieldFormat: {
				Type:        "string",
				Description: "Report format",
				Default:     "json",
				Enum:        []any{"json", "html", "markdown", "xlsx"},
			},
		}, FieldDocuments, FieldRubric),
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Evaluation report",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: openapi.SchemaRef("Evaluation")},
					"text/html":        {Schema: &openapi.Schema{Type: "string"}},
					"text/markdown":    {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
					"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {
						Schema: &openapi.Schema{Type: "string", Format: "binary"},
					},
				},
			},
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
			502: openapi.ResponseRef("BadGateway"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	Redact: &openapi.Operation{
		Summary:     "Redact tenders",
		Description: "Returns the redacted text and the redaction findings of each submission without scoring.",
		RequestBody: openapi.RequestBodyMultipart(map[string]*openapi.Schema{
			FieldDocuments:  documentsField,
			FieldExclusions: exclusionsField,
		}, FieldDocuments),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Redacted documents", "Redaction"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
		},
	},
	Criteria: &openapi.Operation{
		Summary: "Parse evaluation criteria",
		RequestBody: openapi.RequestBodyMultipart(map[string]*openapi.Schema{
			FieldRubric: rubricField,
		}, FieldRubric),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Criteria model", "Criteria"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Criteria": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"criteria":      {Type: "object", Description: "Criteria keyed by name"},
				"weightings":    {Type: "object", Description: "Weighting percentages keyed by criterion"},
				"order_mapping": {Type: "object", Description: "Display order keyed by criterion"},
				"warnings":      {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"Redaction": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"session_id": {Type: "string", Format: "uuid"},
				"documents":  {Type: "array", Items: &openapi.Schema{Type: "object"}},
			},
		},
		"Evaluation": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"session_id":   {Type: "string", Format: "uuid"},
				"criteria":     openapi.SchemaRef("Criteria"),
				"summary":      {Type: "object", Description: "Scored and yes/no tables across all documents"},
				"reports":      {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"warnings":     {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"started_at":   {Type: "string", Format: "date-time"},
				"completed_at": {Type: "string", Format: "date-time"},
			},
		},
	},
}
