package field

import (
	"context"

	"github.com/google/uuid"

	modelkit "github.com/reoring/modelkit"
	js "github.com/reoring/modelkit/jsonschema"
)

// UUIDType stores a uuid.UUID and renders the canonical text form.
type UUIDType struct {
	Base
}

// UUID returns a UUID field. The last spec wins.
func UUID(specs ...Spec) *UUIDType {
	var spec Spec
	if n := len(specs); n > 0 {
		spec = specs[n-1]
	}
	return &UUIDType{Base: NewBase(spec, uuidMessages)}
}

func (t *UUIDType) Convert(ctx context.Context, v any) (any, error) {
	switch x := v.(type) {
	case uuid.UUID:
		return x, nil
	case [16]byte:
		return uuid.UUID(x), nil
	case []byte:
		if id, err := uuid.FromBytes(x); err == nil {
			return id, nil
		}
		if id, err := uuid.ParseBytes(x); err == nil {
			return id, nil
		}
	case string:
		if id, err := uuid.Parse(x); err == nil {
			return id, nil
		}
	}
	return nil, modelkit.NewConversionError(t.Message(ctx, MsgConvert))
}

func (t *UUIDType) Validate(ctx context.Context, v any) error { return t.Check(ctx, v) }

func (t *UUIDType) ToPrimitive(v any) any {
	if id, ok := v.(uuid.UUID); ok {
		return id.String()
	}
	return v
}

func (t *UUIDType) Clone() Type {
	c := *t
	c.Base = t.CloneBase()
	return &c
}

func (t *UUIDType) JSONSchema() *js.Schema {
	return t.Annotate(&js.Schema{Type: "string", Format: "uuid"}, t.ToPrimitive)
}
