package routes

import (
	"net/http"
	"slices"

	"github.com/AndrewDilley/TenderEvaluation/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags.
type Group struct {
	Prefix   string
	Tags     []string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux and returns the
// registered patterns in registration order.
func Register(mux *http.ServeMux, groups ...Group) []string {
	var patterns []string
	for _, group := range groups {
		patterns = registerGroup(mux, "", group, patterns)
	}
	return patterns
}

// Describe adds every route carrying an OpenAPI operation to spec. Group tags
// are appended to operations that declare none of their own.
func Describe(spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		describeGroup(spec, "", nil, group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, group Group, patterns []string) []string {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		pattern := route.Method + " " + fullPrefix + route.Pattern
		mux.HandleFunc(pattern, route.handler())
		patterns = append(patterns, pattern)
	}
	for _, child := range group.Children {
		patterns = registerGroup(mux, fullPrefix, child, patterns)
	}
	return patterns
}

func describeGroup(spec *openapi.Spec, parentPrefix string, parentTags []string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	tags := append(slices.Clone(parentTags), group.Tags...)

	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}
		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}
		spec.AddOperation(route.Method, fullPrefix+route.Pattern, &op)
	}
	for _, child := range group.Children {
		describeGroup(spec, fullPrefix, tags, child)
	}
}
