package model

import (
	js "github.com/reoring/modelkit/jsonschema"
)

// JSONSchema describes the serialized form of the schema. Properties are keyed
// by wire name; serializables appear only when they declare a Type.
func (s *Schema) JSONSchema() *js.Schema {
	out := &js.Schema{
		Schema:               js.Draft,
		Title:                s.name,
		Type:                 "object",
		Properties:           make(map[string]*js.Schema, len(s.order)),
		AdditionalProperties: false,
	}
	for _, name := range s.order {
		t := s.fields[name]
		wire := t.Spec().WireName()
		out.Properties[wire] = t.JSONSchema()
		if t.Spec().Required {
			out.Required = append(out.Required, wire)
		}
	}
	for _, name := range s.serialOrder {
		sz := s.serializables[name]
		if sz.Type == nil {
			continue
		}
		out.Properties[sz.WireName()] = sz.Type.JSONSchema()
	}
	return out
}
