package field

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	modelkit "github.com/reoring/modelkit"
	js "github.com/reoring/modelkit/jsonschema"
)

// EmptyList and EmptyMap are the text markers accepted for empty containers.
// Flatten uses the same markers.
const (
	EmptyList = "[]"
	EmptyMap  = "{}"
)

// ListConfig configures List. A positive MinSize makes the field required.
type ListConfig struct {
	Spec
	MinSize *int
	MaxSize *int
}

// ListType is an ordered sequence of elements of one field type. Element
// errors are keyed by index.
type ListType struct {
	Base
	elem    Type
	minSize *int
	maxSize *int
}

// List returns a list field of elem. The last config wins.
func List(elem Type, cfgs ...ListConfig) *ListType {
	var cfg ListConfig
	if n := len(cfgs); n > 0 {
		cfg = cfgs[n-1]
	}
	if cfg.MinSize != nil && *cfg.MinSize > 0 {
		cfg.Spec.Required = true
	}
	return &ListType{Base: NewBase(cfg.Spec, listMessages), elem: elem, minSize: cfg.MinSize, maxSize: cfg.MaxSize}
}

// Elem returns the element type.
func (t *ListType) Elem() Type { return t.elem }

func (t *ListType) Convert(ctx context.Context, v any) (any, error) {
	items := forceList(v)
	out := make([]any, len(items))
	errs := modelkit.NewModelValidationError()
	for i, it := range items {
		if it == nil {
			continue
		}
		c, err := t.elem.Convert(ctx, it)
		if err != nil {
			errs.Record(strconv.Itoa(i), err)
			continue
		}
		out[i] = c
	}
	if !errs.Empty() {
		return nil, errs
	}
	return out, nil
}

// forceList reads nil and "[]" as empty, maps with integer keys in key order,
// sequences as they are and anything else as a one-element list.
func forceList(v any) []any {
	switch x := v.(type) {
	case nil:
		return []any{}
	case []any:
		return x
	case string:
		if x == EmptyList {
			return []any{}
		}
		return []any{x}
	case map[string]any:
		if items, ok := indexedItems(x); ok {
			return items
		}
		return []any{x}
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return []any{v}
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{v}
}

func indexedItems(m map[string]any) ([]any, bool) {
	idx := make([]int, 0, len(m))
	byIdx := make(map[int]any, len(m))
	for k, v := range m {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, false
		}
		idx = append(idx, n)
		byIdx[n] = v
	}
	sort.Ints(idx)
	out := make([]any, len(idx))
	for i, n := range idx {
		out[i] = byIdx[n]
	}
	return out, true
}

func (t *ListType) Validate(ctx context.Context, v any) error {
	own := t.Check(ctx, v, t.checkSize)
	items, _ := v.([]any)
	errs := modelkit.NewModelValidationError()
	for i, it := range items {
		key := strconv.Itoa(i)
		if it == nil {
			if t.elem.Spec().Required {
				errs.Add(key, Message(ctx, t.elem, MsgRequired))
			}
			continue
		}
		errs.Record(key, t.elem.Validate(ctx, it))
	}
	if errs.Empty() {
		return own
	}
	return errors.Join(own, errs)
}

func (t *ListType) checkSize(ctx context.Context, v any) error {
	items, _ := v.([]any)
	n := len(items)
	if t.minSize != nil && n < *t.minSize {
		key := MsgMinSize
		if *t.minSize == 1 {
			key = MsgMinSizeOne
		}
		return modelkit.NewValidationError(t.Message(ctx, key, *t.minSize))
	}
	if t.maxSize != nil && n > *t.maxSize {
		key := MsgMaxSize
		if *t.maxSize == 1 {
			key = MsgMaxSizeOne
		}
		return modelkit.NewValidationError(t.Message(ctx, key, *t.maxSize))
	}
	return nil
}

func (t *ListType) Project(v any, role string, mode Mode) (any, error) {
	items, ok := v.([]any)
	if !ok {
		return v, nil
	}
	out := make([]any, len(items))
	for i, it := range items {
		e, err := Export(t.elem, it, role, mode)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}

func (t *ListType) ToPrimitive(v any) any {
	out, err := t.Project(v, "", Primitive)
	if err != nil {
		return v
	}
	return out
}

func (t *ListType) Clone() Type {
	c := *t
	c.Base = t.CloneBase()
	c.elem = t.elem.Clone()
	return &c
}

func (t *ListType) JSONSchema() *js.Schema {
	return t.Annotate(&js.Schema{
		Type:     "array",
		Items:    t.elem.JSONSchema(),
		MinItems: t.minSize,
		MaxItems: t.maxSize,
	}, t.ToPrimitive)
}

// DictType maps string keys to elements of one field type. Entry errors are
// keyed by map key.
type DictType struct {
	Base
	elem Type
}

// Dict returns a dict field of elem. The last spec wins.
func Dict(elem Type, specs ...Spec) *DictType {
	var spec Spec
	if n := len(specs); n > 0 {
		spec = specs[n-1]
	}
	return &DictType{Base: NewBase(spec, dictMessages), elem: elem}
}

// Elem returns the value type.
func (t *DictType) Elem() Type { return t.elem }

func (t *DictType) Convert(ctx context.Context, v any) (any, error) {
	entries, ok := forceMap(v)
	if !ok {
		return nil, modelkit.NewConversionError(t.Message(ctx, MsgConvert))
	}
	out := make(map[string]any, len(entries))
	errs := modelkit.NewModelValidationError()
	for k, it := range entries {
		if it == nil {
			out[k] = nil
			continue
		}
		c, err := t.elem.Convert(ctx, it)
		if err != nil {
			errs.Record(k, err)
			continue
		}
		out[k] = c
	}
	if !errs.Empty() {
		return nil, errs
	}
	return out, nil
}

func forceMap(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case nil:
		return map[string]any{}, true
	case string:
		if x == EmptyMap || x == "" {
			return map[string]any{}, true
		}
		return nil, false
	case map[string]any:
		return x, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
	}
	return out, true
}

func (t *DictType) Validate(ctx context.Context, v any) error {
	own := t.Check(ctx, v)
	entries, _ := v.(map[string]any)
	errs := modelkit.NewModelValidationError()
	for k, it := range entries {
		if it == nil {
			if t.elem.Spec().Required {
				errs.Add(k, Message(ctx, t.elem, MsgRequired))
			}
			continue
		}
		errs.Record(k, t.elem.Validate(ctx, it))
	}
	if errs.Empty() {
		return own
	}
	return errors.Join(own, errs)
}

func (t *DictType) Project(v any, role string, mode Mode) (any, error) {
	entries, ok := v.(map[string]any)
	if !ok {
		return v, nil
	}
	out := make(map[string]any, len(entries))
	for k, it := range entries {
		e, err := Export(t.elem, it, role, mode)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = e
	}
	return out, nil
}

func (t *DictType) ToPrimitive(v any) any {
	out, err := t.Project(v, "", Primitive)
	if err != nil {
		return v
	}
	return out
}

func (t *DictType) Clone() Type {
	c := *t
	c.Base = t.CloneBase()
	c.elem = t.elem.Clone()
	return &c
}

func (t *DictType) JSONSchema() *js.Schema {
	return t.Annotate(&js.Schema{Type: "object", AdditionalProperties: t.elem.JSONSchema()}, t.ToPrimitive)
}
