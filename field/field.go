// Package field defines the field type contract (convert → validate →
// to-primitive) and the built-in variants used by model schemas.
package field

import (
	"context"

	modelkit "github.com/reoring/modelkit"
	"github.com/reoring/modelkit/i18n"
	js "github.com/reoring/modelkit/jsonschema"
)

// Validator is one step of a field's validator chain. Return a
// *modelkit.ValidationError (or StopValidation to end the chain); any other
// error contributes its text as a message.
type Validator func(ctx context.Context, v any) error

// Type is implemented by every field type.
//
// Convert coerces untrusted input into the native representation and fails
// with *modelkit.ConversionError. It is idempotent for native values.
// Validate runs the built-in checks, the choice check and the user validators
// of the field against a converted value. ToPrimitive renders a native value
// for the wire.
type Type interface {
	Convert(ctx context.Context, v any) (any, error)
	Validate(ctx context.Context, v any) error
	ToPrimitive(v any) any
	Spec() *Spec
	Clone() Type
	JSONSchema() *js.Schema
}

// Mode selects the rendering of an export walk.
type Mode int

const (
	Primitive Mode = iota
	Native
)

// Projector is implemented by compound types. Role filters and the export
// mode propagate into their elements.
type Projector interface {
	Project(v any, role string, mode Mode) (any, error)
}

// Export renders v through t for the given role and mode. Nil stays nil.
func Export(t Type, v any, role string, mode Mode) (any, error) {
	if v == nil {
		return nil, nil
	}
	if p, ok := t.(Projector); ok {
		return p.Project(v, role, mode)
	}
	if mode == Native {
		return v, nil
	}
	return t.ToPrimitive(v), nil
}

// Run applies the whole field contract to raw: the required check, Convert
// and Validate.
func Run(ctx context.Context, t Type, raw any) (any, error) {
	if raw == nil {
		if t.Spec().Required {
			return nil, modelkit.NewValidationError(Message(ctx, t, MsgRequired))
		}
		return nil, nil
	}
	v, err := t.Convert(ctx, raw)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Spec carries the settings shared by every field type.
type Spec struct {
	// SerializedName is the wire name; empty means the declared name.
	SerializedName string
	Required       bool
	// Default is used when input carries no value. DefaultFunc, when set,
	// wins and is called for every use.
	Default     any
	DefaultFunc func() any
	Choices     []any
	Validators  []Validator
	// SerializeWhenNone overrides the model null policy for this field.
	SerializeWhenNone *bool
	// Messages overrides message templates by key (MsgRequired, ...).
	Messages    map[string]string
	Description string

	name string
}

// Name returns the declared name the field was bound to.
func (s *Spec) Name() string { return s.name }

// Bind records the declared name. The schema compiler calls it.
func (s *Spec) Bind(name string) { s.name = name }

// WireName returns the serialized name, or the declared name.
func (s *Spec) WireName() string {
	if s.SerializedName != "" {
		return s.SerializedName
	}
	return s.name
}

// DefaultValue returns the default for an absent value.
func (s *Spec) DefaultValue() any {
	if s.DefaultFunc != nil {
		return s.DefaultFunc()
	}
	return s.Default
}

func (s Spec) clone() Spec {
	c := s
	c.Choices = append([]any(nil), s.Choices...)
	c.Validators = append([]Validator(nil), s.Validators...)
	if s.SerializeWhenNone != nil {
		c.SerializeWhenNone = Ptr(*s.SerializeWhenNone)
	}
	if s.Messages != nil {
		c.Messages = make(map[string]string, len(s.Messages))
		for k, v := range s.Messages {
			c.Messages[k] = v
		}
	}
	return c
}

// Ptr returns a pointer to v. Config structs use pointers for optional bounds.
func Ptr[T any](v T) *T { return &v }

// Base implements the Spec bookkeeping and the validator chain. Field types
// embed it.
type Base struct {
	spec     Spec
	messages map[string]string
}

// NewBase merges the base message table, the variant tables in order and the
// overrides of spec.
func NewBase(spec Spec, tables ...map[string]string) Base {
	msgs := make(map[string]string, len(baseMessages))
	for k, v := range baseMessages {
		msgs[k] = v
	}
	for _, t := range tables {
		for k, v := range t {
			msgs[k] = v
		}
	}
	for k, v := range spec.Messages {
		msgs[k] = v
	}
	return Base{spec: spec, messages: msgs}
}

// Spec returns the mutable settings of the field.
func (b *Base) Spec() *Spec { return &b.spec }

// CloneBase returns an independent copy.
func (b *Base) CloneBase() Base {
	return Base{spec: b.spec.clone(), messages: b.messages}
}

// Message renders the template stored under key for the context language.
func (b *Base) Message(ctx context.Context, key string, args ...any) string {
	tmpl, ok := b.messages[key]
	if !ok {
		tmpl = key
	}
	return i18n.T(ctx, tmpl, args...)
}

// Check runs builtin, the choice check and the user validators against v,
// aggregating their messages. A StopValidation ends the chain.
func (b *Base) Check(ctx context.Context, v any, builtin ...Validator) error {
	steps := make([]Validator, 0, len(builtin)+1+len(b.spec.Validators))
	steps = append(steps, builtin...)
	if len(b.spec.Choices) > 0 {
		steps = append(steps, b.checkChoices)
	}
	steps = append(steps, b.spec.Validators...)

	var msgs []string
	for _, step := range steps {
		err := step(ctx, v)
		if err == nil {
			continue
		}
		msgs = append(msgs, modelkit.MessagesOf(err)...)
		if modelkit.IsStop(err) {
			break
		}
	}
	if len(msgs) > 0 {
		return modelkit.NewValidationError(msgs...)
	}
	return nil
}

func (b *Base) checkChoices(ctx context.Context, v any) error {
	for _, c := range b.spec.Choices {
		if Equal(c, v) {
			return nil
		}
	}
	return modelkit.NewValidationError(b.Message(ctx, MsgChoices, b.spec.Choices))
}

// Annotate copies the description, choices and default of the field into s.
func (b *Base) Annotate(s *js.Schema, prim func(any) any) *js.Schema {
	s.Description = b.spec.Description
	for _, c := range b.spec.Choices {
		s.Enum = append(s.Enum, prim(c))
	}
	if b.spec.Default != nil {
		s.Default = prim(b.spec.Default)
	}
	return s
}

type messager interface {
	Message(ctx context.Context, key string, args ...any) string
}

// Message renders a message of t, falling back to the base table when t does
// not embed Base.
func Message(ctx context.Context, t Type, key string, args ...any) string {
	if m, ok := t.(messager); ok {
		return m.Message(ctx, key, args...)
	}
	tmpl, ok := baseMessages[key]
	if !ok {
		tmpl = key
	}
	return i18n.T(ctx, tmpl, args...)
}
