package model

import (
	"context"
	"errors"
	"fmt"

	modelkit "github.com/reoring/modelkit"
	"github.com/reoring/modelkit/field"
)

var (
	// ErrUnknownField is returned when a name is neither a field nor a
	// serializable of the schema.
	ErrUnknownField = errors.New("model: unknown field")
	// ErrReadOnly is returned when setting a serializable without a setter.
	ErrReadOnly = errors.New("model: read-only serializable")
	// ErrUnknownRole is returned when serializing under a role the schema
	// does not define.
	ErrUnknownRole = errors.New("model: unknown role")
)

// Instance holds the values of one record. Raw holds input not yet confirmed
// valid, keyed as it was given; data holds validated values keyed by declared
// name. An Instance is not safe for concurrent mutation.
type Instance struct {
	schema *Schema
	raw    map[string]any
	data   map[string]any
	errs   *modelkit.ModelValidationError
}

// New returns an empty instance of s.
func (s *Schema) New() *Instance {
	return &Instance{schema: s, raw: map[string]any{}, data: map[string]any{}}
}

// Load creates an instance and imports raw. The instance is returned even
// when validation fails.
func (s *Schema) Load(ctx context.Context, raw map[string]any, opts ...ValidateOpt) (*Instance, error) {
	inst := s.New()
	err := inst.Import(ctx, raw, opts...)
	return inst, err
}

// LoadFrom decodes src and loads the result.
func (s *Schema) LoadFrom(ctx context.Context, src modelkit.Source, opts ...ValidateOpt) (*Instance, error) {
	raw, err := src.Decode()
	if err != nil {
		return nil, fmt.Errorf("model: decode %s input: %w", s.name, err)
	}
	return s.Load(ctx, raw, opts...)
}

// Trusted returns an instance holding data as already validated values.
func (s *Schema) Trusted(data map[string]any) *Instance {
	inst := s.New()
	for k, v := range data {
		if _, ok := s.fields[k]; ok {
			inst.data[k] = v
		}
	}
	return inst
}

// Schema returns the schema of the instance.
func (i *Instance) Schema() *Schema { return i.schema }

// Import merges raw into the raw buffer and validates it against the
// validated buffer as trusted context. Fields that fail keep their previous
// validated value; fields that pass leave the raw buffer.
func (i *Instance) Import(ctx context.Context, raw map[string]any, opts ...ValidateOpt) error {
	opt := pickOpt(opts)
	for k, v := range raw {
		i.raw[k] = v
	}
	trusted := make(map[string]any, len(i.data)+len(opt.Context))
	for k, v := range i.data {
		trusted[k] = v
	}
	for k, v := range opt.Context {
		trusted[k] = v
	}
	opt.Context = trusted

	data, errs := i.schema.validate(ctx, i.raw, opt, i)
	for k, v := range data {
		i.data[k] = v
	}
	for _, name := range i.schema.order {
		wire := i.schema.fields[name].Spec().WireName()
		if errs.Has(wire) {
			continue
		}
		delete(i.raw, wire)
		delete(i.raw, name)
	}
	for _, name := range i.schema.serialOrder {
		sz := i.schema.serializables[name]
		if sz.Set == nil || errs.Has(sz.WireName()) {
			continue
		}
		delete(i.raw, sz.WireName())
		delete(i.raw, name)
	}
	i.errs = errs
	if errs != nil {
		return errs
	}
	return nil
}

// Validate revalidates the instance without new input.
func (i *Instance) Validate(ctx context.Context, opts ...ValidateOpt) error {
	return i.Import(ctx, nil, opts...)
}

// Errors returns the result of the last validation run, or nil.
func (i *Instance) Errors() *modelkit.ModelValidationError { return i.errs }

// Get returns the value of a field or serializable. Validated values win over
// raw input, raw input over the default. A non-nil default is materialized
// into the validated buffer.
func (i *Instance) Get(name string) (any, error) {
	if t, ok := i.schema.fields[name]; ok {
		if v, ok := i.data[name]; ok {
			return v, nil
		}
		if v, ok := i.raw[t.Spec().WireName()]; ok {
			return v, nil
		}
		if v, ok := i.raw[name]; ok {
			return v, nil
		}
		d := t.Spec().DefaultValue()
		if d != nil {
			i.data[name] = d
		}
		return d, nil
	}
	if sz, ok := i.schema.serializables[name]; ok {
		return sz.Get(i), nil
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, i.schema.name, name)
}

// Set stores v as raw input for a field, or runs the setter of a
// serializable. Field values are validated by the next Import or Validate.
func (i *Instance) Set(name string, v any) error {
	if t, ok := i.schema.fields[name]; ok {
		delete(i.raw, name)
		i.raw[t.Spec().WireName()] = v
		return nil
	}
	if sz, ok := i.schema.serializables[name]; ok {
		if sz.Set == nil {
			return fmt.Errorf("%w: %s.%s", ErrReadOnly, i.schema.name, name)
		}
		return sz.Set(i, v)
	}
	return fmt.Errorf("%w: %s.%s", ErrUnknownField, i.schema.name, name)
}

// Has reports whether the field holds a validated or raw value.
func (i *Instance) Has(name string) bool {
	if _, ok := i.data[name]; ok {
		return true
	}
	t, ok := i.schema.fields[name]
	if !ok {
		return false
	}
	_, inRaw := i.raw[t.Spec().WireName()]
	_, inRawName := i.raw[name]
	return inRaw || inRawName
}

// Fields returns the field names of the schema in order.
func (i *Instance) Fields() []string { return i.schema.Fields() }

// Raw returns a copy of the raw buffer.
func (i *Instance) Raw() map[string]any { return copyMap(i.raw) }

// Data returns a copy of the validated buffer.
func (i *Instance) Data() map[string]any { return copyMap(i.data) }

// value is the validated value or the default. Raw input is never exported.
func (i *Instance) value(name string) any {
	if v, ok := i.data[name]; ok {
		return v
	}
	return i.schema.fields[name].Spec().DefaultValue()
}

// EqualValue compares two instances of the same schema field by field.
func (i *Instance) EqualValue(other any) bool {
	o, ok := other.(*Instance)
	if !ok || o == nil || o.schema != i.schema {
		return false
	}
	for _, name := range i.schema.order {
		if !field.Equal(i.value(name), o.value(name)) {
			return false
		}
	}
	return true
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
