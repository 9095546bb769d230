package openapi

import "maps"

// NewComponents creates Components with the shared error schema and the
// error responses every endpoint can return.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type: "object",
				Properties: map[string]*Schema{
					"error":  {Type: "string", Description: "Error message"},
					"detail": {Type: "string", Description: "Additional context, such as an excerpt of a malformed model response"},
				},
				Required: []string{"error"},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":         errorResponse("Invalid request"),
			"NotFound":           errorResponse("Resource not found"),
			"PayloadTooLarge":    errorResponse("Upload exceeds the configured size limit"),
			"BadGateway":         errorResponse("Language model returned an unusable response"),
			"ServiceUnavailable": errorResponse("Language model is not configured"),
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}
