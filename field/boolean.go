package field

import (
	"context"

	modelkit "github.com/reoring/modelkit"
	js "github.com/reoring/modelkit/jsonschema"
)

// BooleanType is a bool field. Besides bools it accepts the texts "True",
// "true", "1", "False", "false" and "0".
type BooleanType struct {
	Base
}

// Boolean returns a boolean field. The last spec wins.
func Boolean(specs ...Spec) *BooleanType {
	var spec Spec
	if n := len(specs); n > 0 {
		spec = specs[n-1]
	}
	return &BooleanType{Base: NewBase(spec, booleanMessages)}
}

func (t *BooleanType) Convert(ctx context.Context, v any) (any, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		switch x {
		case "True", "true", "1":
			return true, nil
		case "False", "false", "0":
			return false, nil
		}
	}
	return nil, modelkit.NewConversionError(t.Message(ctx, MsgBoolean))
}

func (t *BooleanType) Validate(ctx context.Context, v any) error { return t.Check(ctx, v) }

func (t *BooleanType) ToPrimitive(v any) any { return v }

func (t *BooleanType) Clone() Type {
	c := *t
	c.Base = t.CloneBase()
	return &c
}

func (t *BooleanType) JSONSchema() *js.Schema {
	return t.Annotate(&js.Schema{Type: "boolean"}, t.ToPrimitive)
}
