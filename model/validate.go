package model

import (
	"context"
	"sort"
	"time"

	modelkit "github.com/reoring/modelkit"
	"github.com/reoring/modelkit/field"
	"github.com/reoring/modelkit/i18n"
)

// MsgIllegalField is reported for unknown keys in strict mode.
const MsgIllegalField = "%s is an illegal field."

// ValidateOpt controls one validation run.
type ValidateOpt struct {
	// Partial waives required checks.
	Partial bool
	// Strict reports input keys that name no field.
	Strict bool
	// Context holds trusted values keyed by declared name. Fields found here
	// and absent from the input are not revalidated.
	Context map[string]any
}

func pickOpt(opts []ValidateOpt) ValidateOpt {
	if n := len(opts); n > 0 {
		return opts[n-1]
	}
	return ValidateOpt{}
}

// Validate converts and validates raw against the schema. The returned map is
// keyed by declared name and holds the trusted context plus every field that
// passed. On failure it is returned together with a
// *modelkit.ModelValidationError keyed by wire name.
func (s *Schema) Validate(ctx context.Context, raw map[string]any, opts ...ValidateOpt) (map[string]any, error) {
	data, errs := s.validate(ctx, raw, pickOpt(opts), nil)
	if errs != nil {
		return data, errs
	}
	return data, nil
}

// take removes and returns the value stored under the wire name or the
// declared name. Both aliases are consumed.
func take(pending map[string]any, wire, name string) (any, bool) {
	v, ok := pending[wire]
	if !ok {
		v, ok = pending[name]
	}
	delete(pending, wire)
	delete(pending, name)
	return v, ok
}

func (s *Schema) validate(ctx context.Context, raw map[string]any, opt ValidateOpt, inst *Instance) (map[string]any, *modelkit.ModelValidationError) {
	start := time.Now()
	errs := modelkit.NewModelValidationError()
	data := make(map[string]any, len(opt.Context)+len(raw))
	for k, v := range opt.Context {
		data[k] = v
	}
	// Setters may write raw input of other fields, so they run before the
	// input is copied.
	if inst != nil {
		for _, name := range s.serialOrder {
			sz := s.serializables[name]
			if sz.Set == nil {
				continue
			}
			v, found := raw[sz.WireName()]
			if !found {
				v, found = raw[name]
			}
			if !found {
				continue
			}
			if err := s.applySetter(ctx, inst, sz, v); err != nil {
				errs.Record(sz.WireName(), err)
			}
		}
	}
	pending := make(map[string]any, len(raw))
	for k, v := range raw {
		pending[k] = v
	}
	for _, name := range s.serialOrder {
		take(pending, s.serializables[name].WireName(), name)
	}

	for _, name := range s.order {
		t := s.fields[name]
		spec := t.Spec()
		wire := spec.WireName()
		v, found := take(pending, wire, name)
		if !found {
			if cv, trusted := opt.Context[name]; trusted {
				if cv != nil || !spec.Required || opt.Partial {
					continue
				}
			}
			v = spec.DefaultValue()
		}
		if v == nil {
			if spec.Required && !opt.Partial {
				delete(data, name)
				errs.Add(wire, field.Message(ctx, t, field.MsgRequired))
				continue
			}
			if found {
				data[name] = nil
			}
			continue
		}
		c, err := t.Convert(ctx, v)
		if err == nil {
			err = t.Validate(ctx, c)
		}
		if err != nil {
			delete(data, name)
			errs.Record(wire, err)
			continue
		}
		data[name] = c
	}

	if opt.Strict {
		keys := make([]string, 0, len(pending))
		for k := range pending {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			errs.Add(k, i18n.T(ctx, MsgIllegalField, k))
		}
	}

	var trusted map[string]any
	if inst != nil {
		trusted = inst.data
	}
	for _, name := range s.order {
		fns := s.validators[name]
		if len(fns) == 0 {
			continue
		}
		v, ok := data[name]
		if !ok {
			continue
		}
		snap := Snapshot{trusted: trusted, fresh: data}
		for _, fn := range fns {
			if err := fn(ctx, snap, v); err != nil {
				delete(data, name)
				errs.Record(s.fields[name].Spec().WireName(), err)
				break
			}
		}
	}

	var out *modelkit.ModelValidationError
	if !errs.Empty() {
		out = errs
	}
	if obs := ObserverFrom(ctx); obs != nil {
		obs.ObserveValidation(s, time.Since(start), out)
	}
	return data, out
}

func (s *Schema) applySetter(ctx context.Context, inst *Instance, sz *Serializable, v any) error {
	if sz.Type != nil && v != nil {
		c, err := field.Run(ctx, sz.Type, v)
		if err != nil {
			return err
		}
		v = c
	}
	return sz.Set(inst, v)
}

// Snapshot is the read-only view an InstanceValidator gets: newly validated
// values over the trusted instance data.
type Snapshot struct {
	trusted map[string]any
	fresh   map[string]any
}

// Lookup returns the value of a declared field name.
func (s Snapshot) Lookup(name string) (any, bool) {
	if v, ok := s.fresh[name]; ok {
		return v, true
	}
	v, ok := s.trusted[name]
	return v, ok
}

// Get returns the value of name, or nil.
func (s Snapshot) Get(name string) any {
	v, _ := s.Lookup(name)
	return v
}

// Trusted reports whether name came from the instance rather than this run.
func (s Snapshot) Trusted(name string) bool {
	if _, ok := s.fresh[name]; ok {
		return false
	}
	_, ok := s.trusted[name]
	return ok
}

// Keys returns every visible name, sorted.
func (s Snapshot) Keys() []string {
	seen := make(map[string]struct{}, len(s.fresh)+len(s.trusted))
	for k := range s.fresh {
		seen[k] = struct{}{}
	}
	for k := range s.trusted {
		seen[k] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Observer receives the outcome of every validation run. err is nil on
// success.
type Observer interface {
	ObserveValidation(s *Schema, elapsed time.Duration, err *modelkit.ModelValidationError)
}

type observerKey struct{}

// WithObserver returns a context that reports validation runs to o.
func WithObserver(ctx context.Context, o Observer) context.Context {
	return context.WithValue(ctx, observerKey{}, o)
}

// ObserverFrom returns the observer installed on ctx, or nil.
func ObserverFrom(ctx context.Context) Observer {
	if ctx == nil {
		return nil
	}
	o, _ := ctx.Value(observerKey{}).(Observer)
	return o
}
