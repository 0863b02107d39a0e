package model

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	modelkit "github.com/reoring/modelkit"
	"github.com/reoring/modelkit/field"
)

// InstanceValidator checks one field against the rest of the model. It sees a
// read-only Snapshot of trusted and newly validated data plus the candidate
// value of its field.
type InstanceValidator func(ctx context.Context, snap Snapshot, value any) error

// Serializable is a computed field. Get is required; a nil Set makes it
// read-only. Type, when set, renders and converts the value.
type Serializable struct {
	SerializedName    string
	Type              field.Type
	SerializeWhenNone *bool
	Get               func(*Instance) any
	Set               func(*Instance, any) error

	name string
}

// Name returns the declared name.
func (s *Serializable) Name() string { return s.name }

// WireName returns the serialized name, or the declared name.
func (s *Serializable) WireName() string {
	if s.SerializedName != "" {
		return s.SerializedName
	}
	return s.name
}

// SchemaError lists the configuration problems found by Build.
type SchemaError struct {
	Schema   string
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("model: schema %q: %s", e.Schema, strings.Join(e.Problems, "; "))
}

// fieldSeq numbers field declarations across all builders. Fields are
// ordered by the number of the declaration that supplied them.
var fieldSeq atomic.Uint64

// Schema is the compiled field table of a model. It is immutable after Build
// (except AddField) and safe for concurrent reads.
type Schema struct {
	name          string
	order         []string
	fields        map[string]field.Type
	position      map[string]uint64
	serialOrder   []string
	serializables map[string]*Serializable
	validators    map[string][]InstanceValidator
	opts          resolvedOptions
	bases         []*Schema
}

// Builder registers the declarations of one schema.
type Builder struct {
	name       string
	bases      []*Schema
	fieldNames []string
	fields     map[string]field.Type
	positions  map[string]uint64
	serialOrd  []string
	serials    map[string]Serializable
	validators map[string][]InstanceValidator
	valOrder   []string
	opts       Options
	problems   []string
}

// New starts a schema named name.
func New(name string) *Builder {
	return &Builder{
		name:       name,
		fields:     map[string]field.Type{},
		positions:  map[string]uint64{},
		serials:    map[string]Serializable{},
		validators: map[string][]InstanceValidator{},
	}
}

// Extends adds base schemas. On collisions the first listed base wins, and
// own declarations win over every base.
func (b *Builder) Extends(bases ...*Schema) *Builder {
	for _, base := range bases {
		if base == nil {
			b.problems = append(b.problems, "nil base schema")
			continue
		}
		b.bases = append(b.bases, base)
	}
	return b
}

// Field declares a field. Fields are ordered by declaration, across
// builders: an inherited field keeps the place of its declaration and an
// override takes the place of the overriding declaration.
func (b *Builder) Field(name string, t field.Type) *Builder {
	switch {
	case name == "":
		b.problems = append(b.problems, "empty field name")
		return b
	case t == nil:
		b.problems = append(b.problems, fmt.Sprintf("field %q: nil type", name))
		return b
	}
	if _, dup := b.fields[name]; dup {
		b.problems = append(b.problems, fmt.Sprintf("field %q declared twice", name))
		return b
	}
	if _, dup := b.serials[name]; dup {
		b.problems = append(b.problems, fmt.Sprintf("field %q already declared as serializable", name))
		return b
	}
	b.fieldNames = append(b.fieldNames, name)
	b.fields[name] = t
	b.positions[name] = fieldSeq.Add(1)
	return b
}

// Serializable declares a computed field.
func (b *Builder) Serializable(name string, s Serializable) *Builder {
	if name == "" {
		b.problems = append(b.problems, "empty serializable name")
		return b
	}
	if _, dup := b.fields[name]; dup {
		b.problems = append(b.problems, fmt.Sprintf("serializable %q already declared as field", name))
		return b
	}
	if _, dup := b.serials[name]; dup {
		b.problems = append(b.problems, fmt.Sprintf("serializable %q declared twice", name))
		return b
	}
	b.serialOrd = append(b.serialOrd, name)
	b.serials[name] = s
	return b
}

// Validator adds an instance validator for the named field. Own validators
// of a field replace the inherited ones.
func (b *Builder) Validator(fieldName string, fn InstanceValidator) *Builder {
	if fn == nil {
		return b
	}
	if _, ok := b.validators[fieldName]; !ok {
		b.valOrder = append(b.valOrder, fieldName)
	}
	b.validators[fieldName] = append(b.validators[fieldName], fn)
	return b
}

// Options sets the schema options.
func (b *Builder) Options(o Options) *Builder {
	b.opts = o
	return b
}

// MustBuild is Build that panics on error.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Build compiles the schema. Every configuration problem is reported in one
// *SchemaError.
func (b *Builder) Build() (*Schema, error) {
	problems := append([]string(nil), b.problems...)
	if strings.TrimSpace(b.name) == "" {
		problems = append(problems, "empty schema name")
	}
	s := &Schema{
		name:          b.name,
		fields:        map[string]field.Type{},
		position:      map[string]uint64{},
		serializables: map[string]*Serializable{},
		validators:    map[string][]InstanceValidator{},
		bases:         append([]*Schema(nil), b.bases...),
	}

	layers := make([]resolvedOptions, 0, len(b.bases)+1)
	for i := len(b.bases) - 1; i >= 0; i-- {
		base := b.bases[i]
		for _, name := range base.order {
			s.putField(name, base.fields[name].Clone(), base.position[name])
		}
		for _, name := range base.serialOrder {
			c := *base.serializables[name]
			if c.Type != nil {
				c.Type = c.Type.Clone()
			}
			s.putSerializable(name, &c)
		}
		for name, fns := range base.validators {
			s.validators[name] = append([]InstanceValidator(nil), fns...)
		}
		layers = append(layers, base.opts)
	}

	for _, name := range b.fieldNames {
		t := b.fields[name].Clone()
		t.Spec().Bind(name)
		s.putField(name, t, b.positions[name])
	}
	s.sortFields()
	for _, name := range b.serialOrd {
		c := b.serials[name]
		c.name = name
		if c.Type != nil {
			c.Type = c.Type.Clone()
			c.Type.Spec().Bind(name)
		}
		s.putSerializable(name, &c)
	}
	for _, name := range b.valOrder {
		s.validators[name] = append([]InstanceValidator(nil), b.validators[name]...)
	}

	own := b.opts.resolved()
	for n := range own.roles {
		if reservedRoleName(n) {
			problems = append(problems, fmt.Sprintf("reserved role name %q", n))
		}
	}
	layers = append(layers, own)
	opts, roleProblems := resolveOptions(layers)
	s.opts = opts
	problems = append(problems, roleProblems...)
	problems = append(problems, s.check()...)

	if len(problems) > 0 {
		return nil, &SchemaError{Schema: b.name, Problems: problems}
	}
	modelkit.Logger().Debug().
		Str("schema", s.name).
		Int("fields", len(s.order)).
		Int("serializables", len(s.serialOrder)).
		Int("roles", len(s.opts.roles)).
		Msg("schema compiled")
	return s, nil
}

// putField records t at position pos; sortFields restores the order.
func (s *Schema) putField(name string, t field.Type, pos uint64) {
	if _, ok := s.fields[name]; !ok {
		s.order = append(s.order, name)
	}
	s.fields[name] = t
	s.position[name] = pos
	if _, ok := s.serializables[name]; ok {
		delete(s.serializables, name)
		s.serialOrder = remove(s.serialOrder, name)
	}
}

func (s *Schema) putSerializable(name string, sz *Serializable) {
	if _, ok := s.serializables[name]; !ok {
		s.serialOrder = append(s.serialOrder, name)
	}
	s.serializables[name] = sz
	if _, ok := s.fields[name]; ok {
		delete(s.fields, name)
		delete(s.position, name)
		s.order = remove(s.order, name)
	}
}

func (s *Schema) sortFields() {
	sort.SliceStable(s.order, func(i, j int) bool {
		return s.position[s.order[i]] < s.position[s.order[j]]
	})
}

func remove(list []string, name string) []string {
	out := list[:0]
	for _, n := range list {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

type configChecker interface{ ConfigError() error }

type elemHolder interface{ Elem() field.Type }

func configError(t field.Type) error {
	if c, ok := t.(configChecker); ok {
		if err := c.ConfigError(); err != nil {
			return err
		}
	}
	if e, ok := t.(elemHolder); ok && e.Elem() != nil {
		return configError(e.Elem())
	}
	return nil
}

func (s *Schema) check() []string {
	var problems []string
	declared := map[string]struct{}{}
	for _, n := range s.order {
		declared[n] = struct{}{}
	}
	for _, n := range s.serialOrder {
		declared[n] = struct{}{}
	}

	wire := map[string]string{}
	claim := func(key, owner string) {
		if prev, ok := wire[key]; ok && prev != owner {
			problems = append(problems, fmt.Sprintf("wire name %q used by %q and %q", key, prev, owner))
			return
		}
		wire[key] = owner
	}
	for _, n := range s.order {
		t := s.fields[n]
		if t.Spec().Name() == "" {
			t.Spec().Bind(n)
		}
		if err := configError(t); err != nil {
			problems = append(problems, fmt.Sprintf("field %q: %v", n, err))
		}
		claim(t.Spec().WireName(), n)
	}
	for _, n := range s.serialOrder {
		sz := s.serializables[n]
		if sz.name == "" {
			sz.name = n
		}
		if sz.Get == nil {
			problems = append(problems, fmt.Sprintf("serializable %q has no getter", n))
		}
		claim(sz.WireName(), n)
	}
	for key, owner := range wire {
		// a declared name that keeps its own wire name was caught by claim
		if _, isName := declared[key]; isName && key != owner && s.wireOf(key) != key {
			problems = append(problems, fmt.Sprintf("wire name %q of %q shadows a declared name", key, owner))
		}
	}

	for n := range s.validators {
		if _, ok := s.fields[n]; !ok {
			problems = append(problems, fmt.Sprintf("validator for unknown field %q", n))
		}
	}
	for rn, r := range s.opts.roles {
		for _, n := range r.Names() {
			if _, ok := declared[n]; !ok {
				problems = append(problems, fmt.Sprintf("role %q names unknown field %q", rn, n))
			}
		}
	}
	sort.Strings(problems)
	return problems
}

func (s *Schema) wireOf(name string) string {
	if t, ok := s.fields[name]; ok {
		return t.Spec().WireName()
	}
	if sz, ok := s.serializables[name]; ok {
		return sz.WireName()
	}
	return ""
}

// AddField adds or replaces a field after Build. It is not safe to call
// while the schema is in use.
func (s *Schema) AddField(name string, t field.Type) error {
	if name == "" || t == nil {
		return &SchemaError{Schema: s.name, Problems: []string{"AddField needs a name and a type"}}
	}
	prevOrder := append([]string(nil), s.order...)
	prevSerialOrder := append([]string(nil), s.serialOrder...)
	prev, existed := s.fields[name]
	prevPos := s.position[name]
	prevSerial, wasSerial := s.serializables[name]
	c := t.Clone()
	c.Spec().Bind(name)
	s.putField(name, c, fieldSeq.Add(1))
	s.sortFields()
	if problems := s.check(); len(problems) > 0 {
		s.order = prevOrder
		s.serialOrder = prevSerialOrder
		if existed {
			s.fields[name] = prev
			s.position[name] = prevPos
		} else {
			delete(s.fields, name)
			delete(s.position, name)
		}
		if wasSerial {
			s.serializables[name] = prevSerial
		}
		return &SchemaError{Schema: s.name, Problems: problems}
	}
	return nil
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Namespace returns the resolved namespace option.
func (s *Schema) Namespace() string { return s.opts.namespace }

// SerializeWhenNone returns the default null policy.
func (s *Schema) SerializeWhenNone() bool { return s.opts.whenNone() }

// Fields returns the field names in order.
func (s *Schema) Fields() []string { return append([]string(nil), s.order...) }

// Field returns the type of the named field.
func (s *Schema) Field(name string) (field.Type, bool) {
	t, ok := s.fields[name]
	return t, ok
}

// Serializables returns the computed field names in order.
func (s *Schema) Serializables() []string { return append([]string(nil), s.serialOrder...) }

// Serializable returns the named computed field.
func (s *Schema) Serializable(name string) (Serializable, bool) {
	sz, ok := s.serializables[name]
	if !ok {
		return Serializable{}, false
	}
	return *sz, true
}

// ByWireName returns the declared name of the field or serializable
// serialized as wire.
func (s *Schema) ByWireName(wire string) (string, bool) {
	for _, n := range s.order {
		if s.fields[n].Spec().WireName() == wire {
			return n, true
		}
	}
	for _, n := range s.serialOrder {
		if s.serializables[n].WireName() == wire {
			return n, true
		}
	}
	return "", false
}

// Has reports whether name is a field or a serializable.
func (s *Schema) Has(name string) bool {
	_, f := s.fields[name]
	_, z := s.serializables[name]
	return f || z
}

// Role returns the named role.
func (s *Schema) Role(name string) (Role, bool) {
	r, ok := s.opts.roles[name]
	return r, ok
}

// Roles returns the role names, sorted.
func (s *Schema) Roles() []string {
	out := make([]string, 0, len(s.opts.roles))
	for n := range s.opts.roles {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Bases returns the direct base schemas.
func (s *Schema) Bases() []*Schema { return append([]*Schema(nil), s.bases...) }

// Is reports whether s is other or derives from it.
func (s *Schema) Is(other *Schema) bool {
	if s == nil || other == nil {
		return false
	}
	if s == other {
		return true
	}
	for _, b := range s.bases {
		if b.Is(other) {
			return true
		}
	}
	return false
}

func (s *Schema) whenNone(override *bool) bool {
	if override != nil {
		return *override
	}
	return s.opts.whenNone()
}
