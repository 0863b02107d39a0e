package field

import (
	"context"
	"reflect"
	"sort"

	modelkit "github.com/reoring/modelkit"
	js "github.com/reoring/modelkit/jsonschema"
)

// Point is the native value of GeoPoint fields: latitude then longitude.
type Point [2]float64

var pointKeys = [][2]string{
	{"lat", "lng"},
	{"lat", "lon"},
	{"latitude", "longitude"},
	{"x", "y"},
}

// GeoPointType holds a two-dimensional point. It accepts two-element
// sequences and two-entry maps; maps with unknown keys are read in key order.
type GeoPointType struct {
	Base
}

// GeoPoint returns a geo point field. The last spec wins.
func GeoPoint(specs ...Spec) *GeoPointType {
	var spec Spec
	if n := len(specs); n > 0 {
		spec = specs[n-1]
	}
	return &GeoPointType{Base: NewBase(spec, geoMessages)}
}

func (t *GeoPointType) Convert(ctx context.Context, v any) (any, error) {
	if p, ok := v.(Point); ok {
		return p, nil
	}
	var parts []any
	switch x := v.(type) {
	case map[string]any:
		if len(x) != 2 {
			return nil, modelkit.NewConversionError(t.Message(ctx, MsgPointShape))
		}
		parts = pointFromMap(x)
	default:
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return nil, modelkit.NewConversionError(t.Message(ctx, MsgPointType))
		}
		if rv.Len() != 2 {
			return nil, modelkit.NewConversionError(t.Message(ctx, MsgPointShape))
		}
		parts = []any{rv.Index(0).Interface(), rv.Index(1).Interface()}
	}

	var p Point
	for i, part := range parts {
		if _, isString := part.(string); isString {
			return nil, modelkit.NewConversionError(t.Message(ctx, MsgPointNumeric))
		}
		f, ok := toFloat(part)
		if !ok {
			return nil, modelkit.NewConversionError(t.Message(ctx, MsgPointNumeric))
		}
		p[i] = f
	}
	return p, nil
}

func pointFromMap(m map[string]any) []any {
	for _, pair := range pointKeys {
		a, okA := m[pair[0]]
		b, okB := m[pair[1]]
		if okA && okB {
			return []any{a, b}
		}
	}
	keys := make([]string, 0, 2)
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return []any{m[keys[0]], m[keys[1]]}
}

func (t *GeoPointType) Validate(ctx context.Context, v any) error { return t.Check(ctx, v) }

func (t *GeoPointType) ToPrimitive(v any) any {
	if p, ok := v.(Point); ok {
		return []any{p[0], p[1]}
	}
	return v
}

func (t *GeoPointType) Clone() Type {
	c := *t
	c.Base = t.CloneBase()
	return &c
}

func (t *GeoPointType) JSONSchema() *js.Schema {
	return t.Annotate(&js.Schema{
		Type:     "array",
		Items:    &js.Schema{Type: "number"},
		MinItems: Ptr(2),
		MaxItems: Ptr(2),
	}, t.ToPrimitive)
}
