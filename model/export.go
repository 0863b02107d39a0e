package model

import (
	"context"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/modelkit/field"
	"github.com/reoring/modelkit/flatten"
)

// Serialize renders the instance in primitive form keyed by wire name,
// including serializables. An empty role emits every field.
func (i *Instance) Serialize(role string) (map[string]any, error) {
	return i.export(role, field.Primitive, true, true)
}

// ToNative is Serialize without primitive rendering.
func (i *Instance) ToNative(role string) (map[string]any, error) {
	return i.export(role, field.Native, true, true)
}

// Flatten renders the serialized fields, without serializables, as a dotted
// path map.
func (i *Instance) Flatten(role string, opts ...flatten.Options) (map[string]any, error) {
	out, err := i.export(role, field.Primitive, false, true)
	if err != nil {
		return nil, err
	}
	return flatten.Flatten(out, opts...), nil
}

// MarshalJSON encodes Serialize("").
func (i *Instance) MarshalJSON() ([]byte, error) {
	out, err := i.Serialize("")
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// roleFilter resolves role. Only the top-level schema must define it;
// embedded schemas without it emit every field.
func (s *Schema) roleFilter(role string, top bool) (Role, error) {
	if role == "" {
		return Wholelist(), nil
	}
	r, ok := s.opts.roles[role]
	if ok {
		return r, nil
	}
	if top {
		return Role{}, fmt.Errorf("%w: %q on %s", ErrUnknownRole, role, s.name)
	}
	return Wholelist(), nil
}

func (i *Instance) export(role string, mode field.Mode, withSerializables, top bool) (map[string]any, error) {
	s := i.schema
	filter, err := s.roleFilter(role, top)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(s.order)+len(s.serialOrder))
	for _, name := range s.order {
		if !filter.Allows(name) {
			continue
		}
		t := s.fields[name]
		wire := t.Spec().WireName()
		v := i.value(name)
		if v == nil {
			if s.whenNone(t.Spec().SerializeWhenNone) {
				out[wire] = nil
			}
			continue
		}
		e, err := field.Export(t, v, role, mode)
		if err != nil {
			return nil, fmt.Errorf("model: export %s.%s: %w", s.name, name, err)
		}
		out[wire] = e
	}
	if !withSerializables {
		return out, nil
	}
	for _, name := range s.serialOrder {
		if !filter.Allows(name) {
			continue
		}
		sz := s.serializables[name]
		v := sz.Get(i)
		if v == nil {
			if s.whenNone(sz.SerializeWhenNone) {
				out[sz.WireName()] = nil
			}
			continue
		}
		if sz.Type != nil {
			e, err := field.Export(sz.Type, v, role, mode)
			if err != nil {
				return nil, fmt.Errorf("model: export %s.%s: %w", s.name, name, err)
			}
			v = e
		}
		out[sz.WireName()] = v
	}
	return out, nil
}

// FromFlat strips prefix from the keys of flat, expands the rest and loads
// the result. Keys without the prefix are ignored.
func (s *Schema) FromFlat(ctx context.Context, flat map[string]any, prefix string, opts ...ValidateOpt) (*Instance, error) {
	if prefix != "" {
		stripped := make(map[string]any, len(flat))
		for k, v := range flat {
			if rest, ok := strings.CutPrefix(k, prefix+"."); ok {
				stripped[rest] = v
			}
		}
		flat = stripped
	}
	return s.Load(ctx, flatten.Expand(flat), opts...)
}
