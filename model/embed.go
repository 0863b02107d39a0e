package model

import (
	"context"

	modelkit "github.com/reoring/modelkit"
	"github.com/reoring/modelkit/field"
	js "github.com/reoring/modelkit/jsonschema"
)

var embedMessages = map[string]string{
	field.MsgModel: "Please use a mapping for this field or %s instance instead of %T.",
}

// EmbeddedType holds an instance of another schema.
type EmbeddedType struct {
	field.Base
	schema *Schema
}

// Embed returns a field holding instances of s. The last spec wins.
func Embed(s *Schema, specs ...field.Spec) *EmbeddedType {
	var spec field.Spec
	if n := len(specs); n > 0 {
		spec = specs[n-1]
	}
	return &EmbeddedType{Base: field.NewBase(spec, embedMessages), schema: s}
}

// Model returns the embedded schema.
func (t *EmbeddedType) Model() *Schema { return t.schema }

// Convert accepts an instance of the schema (or a derived one), which is
// revalidated, or a map, which is fully loaded.
func (t *EmbeddedType) Convert(ctx context.Context, v any) (any, error) {
	switch x := v.(type) {
	case *Instance:
		if x != nil && x.schema.Is(t.schema) {
			if err := x.Validate(ctx); err != nil {
				return nil, err
			}
			return x, nil
		}
	case map[string]any:
		inst, err := t.schema.Load(ctx, x)
		if err != nil {
			return nil, err
		}
		return inst, nil
	}
	return nil, modelkit.NewConversionError(t.Message(ctx, field.MsgModel, t.schema.name, v))
}

func (t *EmbeddedType) Validate(ctx context.Context, v any) error { return t.Check(ctx, v) }

func (t *EmbeddedType) Project(v any, role string, mode field.Mode) (any, error) {
	inst, ok := v.(*Instance)
	if !ok {
		c, err := t.Convert(context.Background(), v)
		if err != nil {
			return nil, err
		}
		inst = c.(*Instance)
	}
	return inst.export(role, mode, true, false)
}

func (t *EmbeddedType) ToPrimitive(v any) any {
	out, err := t.Project(v, "", field.Primitive)
	if err != nil {
		return v
	}
	return out
}

func (t *EmbeddedType) Clone() field.Type {
	c := *t
	c.Base = t.CloneBase()
	return &c
}

func (t *EmbeddedType) JSONSchema() *js.Schema {
	s := t.schema.JSONSchema()
	s.Schema = ""
	s.Description = t.Spec().Description
	return s
}
