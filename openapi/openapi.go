// Package openapi exports compiled model schemas as OpenAPI 3 component
// schemas using kin-openapi.
package openapi

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	js "github.com/reoring/modelkit/jsonschema"
	"github.com/reoring/modelkit/model"
)

// DefaultVersion is the OpenAPI version stamped on documents.
const DefaultVersion = "3.0.3"

// RefPrefix is the local reference prefix of component schemas.
const RefPrefix = "#/components/schemas/"

// Info describes a generated document.
type Info struct {
	Title   string
	Version string
}

// Schema converts s into an OpenAPI schema. Optional properties are
// nullable.
func Schema(s *model.Schema) *openapi3.Schema {
	return FromJSONSchema(s.JSONSchema())
}

// FromJSONSchema converts a JSON Schema document of this module.
func FromJSONSchema(src *js.Schema) *openapi3.Schema {
	return convert(src, nil)
}

// Components converts schemas into a component map keyed by schema name.
// Embedded models that are part of the set are linked by reference.
func Components(schemas ...*model.Schema) openapi3.Schemas {
	known := make(map[string]struct{}, len(schemas))
	for _, s := range schemas {
		known[s.Name()] = struct{}{}
	}
	out := make(openapi3.Schemas, len(schemas))
	for _, s := range schemas {
		out[s.Name()] = openapi3.NewSchemaRef("", convert(s.JSONSchema(), known))
	}
	return out
}

// Document wraps the components of schemas in an OpenAPI document without
// paths.
func Document(info Info, schemas ...*model.Schema) *openapi3.T {
	version := info.Version
	if version == "" {
		version = "0.0.0"
	}
	return &openapi3.T{
		OpenAPI: DefaultVersion,
		Info:    &openapi3.Info{Title: info.Title, Version: version},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: Components(schemas...),
		},
	}
}

func convert(src *js.Schema, known map[string]struct{}) *openapi3.Schema {
	if src == nil {
		return openapi3.NewSchema()
	}
	dst := &openapi3.Schema{
		Title:       src.Title,
		Description: src.Description,
		Format:      src.Format,
		Default:     src.Default,
		Pattern:     src.Pattern,
	}
	if src.Type != "" {
		dst.Type = &openapi3.Types{src.Type}
	}
	if len(src.Enum) > 0 {
		dst.Enum = append([]any(nil), src.Enum...)
	}
	if src.MinLength != nil {
		dst.MinLength = uint64(*src.MinLength)
	}
	if src.MaxLength != nil {
		v := uint64(*src.MaxLength)
		dst.MaxLength = &v
	}
	if src.Minimum != nil {
		v := *src.Minimum
		dst.Min = &v
	}
	if src.Maximum != nil {
		v := *src.Maximum
		dst.Max = &v
	}
	if src.Items != nil {
		dst.Items = link(src.Items, known)
	}
	if src.MinItems != nil {
		dst.MinItems = uint64(*src.MinItems)
	}
	if src.MaxItems != nil {
		v := uint64(*src.MaxItems)
		dst.MaxItems = &v
	}

	switch ap := src.AdditionalProperties.(type) {
	case bool:
		dst.AdditionalProperties = openapi3.AdditionalProperties{Has: &ap}
	case *js.Schema:
		dst.AdditionalProperties = openapi3.AdditionalProperties{Schema: link(ap, known)}
	}

	if len(src.Properties) > 0 {
		required := make(map[string]struct{}, len(src.Required))
		for _, r := range src.Required {
			required[r] = struct{}{}
		}
		names := make([]string, 0, len(src.Properties))
		for n := range src.Properties {
			names = append(names, n)
		}
		sort.Strings(names)
		dst.Properties = make(openapi3.Schemas, len(names))
		for _, n := range names {
			ref := link(src.Properties[n], known)
			if _, ok := required[n]; !ok {
				ref.Value.Nullable = true
			}
			dst.Properties[n] = ref
		}
	}
	if len(src.Required) > 0 {
		dst.Required = append([]string(nil), src.Required...)
	}
	return dst
}

// link references a known component by title and inlines everything else.
// The referenced value is kept so that the schema validates without a loader.
func link(src *js.Schema, known map[string]struct{}) *openapi3.SchemaRef {
	value := convert(src, known)
	if src != nil && src.Type == "object" && src.Title != "" {
		if _, ok := known[src.Title]; ok {
			return openapi3.NewSchemaRef(RefPrefix+src.Title, value)
		}
	}
	return openapi3.NewSchemaRef("", value)
}
