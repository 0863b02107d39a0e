package definition

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	modelkit "github.com/reoring/modelkit"
	"github.com/reoring/modelkit/field"
	"github.com/reoring/modelkit/model"
)

// ErrUnknownModel is returned for references to undeclared models.
var ErrUnknownModel = errors.New("definition: unknown model")

// ErrCycle is returned when models extend or embed each other in a loop.
var ErrCycle = errors.New("definition: reference cycle")

// Registry holds compiled schemas by name.
type Registry struct {
	schemas map[string]*model.Schema
	order   []string
}

// Schema returns the named schema.
func (r *Registry) Schema(name string) (*model.Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns the model names in declaration order.
func (r *Registry) Names() []string { return append([]string(nil), r.order...) }

// Schemas returns the schemas in declaration order.
func (r *Registry) Schemas() []*model.Schema {
	out := make([]*model.Schema, len(r.order))
	for i, n := range r.order {
		out[i] = r.schemas[n]
	}
	return out
}

type compiler struct {
	decls    map[string]Model
	done     map[string]*model.Schema
	visiting map[string]bool
}

// Compile builds every model of docs. References may point forward.
func Compile(docs ...Document) (*Registry, error) {
	c := &compiler{
		decls:    map[string]Model{},
		done:     map[string]*model.Schema{},
		visiting: map[string]bool{},
	}
	reg := &Registry{schemas: map[string]*model.Schema{}}
	var errs []error
	for _, d := range docs {
		for _, m := range d.Models {
			if _, dup := c.decls[m.Name]; dup {
				errs = append(errs, fmt.Errorf("definition: model %q declared twice", m.Name))
				continue
			}
			c.decls[m.Name] = m
			reg.order = append(reg.order, m.Name)
		}
	}
	for _, name := range reg.order {
		s, err := c.schema(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reg.schemas[name] = s
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	modelkit.Logger().Debug().Strs("models", reg.order).Msg("definitions compiled")
	return reg, nil
}

func (c *compiler) schema(name string) (*model.Schema, error) {
	if s, ok := c.done[name]; ok {
		return s, nil
	}
	m, ok := c.decls[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	if c.visiting[name] {
		return nil, fmt.Errorf("%w: %q", ErrCycle, name)
	}
	c.visiting[name] = true
	defer delete(c.visiting, name)

	b := model.New(name)
	for _, base := range m.Extends {
		s, err := c.schema(base)
		if err != nil {
			return nil, fmt.Errorf("definition: model %q extends: %w", name, err)
		}
		b.Extends(s)
	}
	for _, f := range m.Fields {
		t, err := c.fieldType(f)
		if err != nil {
			return nil, fmt.Errorf("definition: model %q field %q: %w", name, f.Name, err)
		}
		b.Field(f.Name, t)
	}
	if m.Options != nil {
		opts, err := m.Options.compile()
		if err != nil {
			return nil, fmt.Errorf("definition: model %q: %w", name, err)
		}
		b.Options(opts)
	}
	s, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("definition: %w", err)
	}
	c.done[name] = s
	return s, nil
}

func (o *Options) compile() (model.Options, error) {
	out := model.Options{Namespace: o.Namespace, SerializeWhenNone: o.SerializeWhenNone}
	if len(o.Roles) == 0 {
		return out, nil
	}
	names := make([]string, 0, len(o.Roles))
	for n := range o.Roles {
		names = append(names, n)
	}
	sort.Strings(names)
	out.Roles = make(map[string]model.Role, len(names))
	for _, n := range names {
		r, err := model.ParseRole(o.Roles[n]...)
		if err != nil {
			return model.Options{}, fmt.Errorf("role %q: %w", n, err)
		}
		out.Roles[n] = r
	}
	return out, nil
}

func (f Field) spec() field.Spec {
	return field.Spec{
		SerializedName:    f.SerializedName,
		Required:          f.Required,
		Default:           f.Default,
		Choices:           f.Choices,
		Description:       f.Description,
		SerializeWhenNone: f.SerializeWhenNone,
		Messages:          f.Messages,
	}
}

func (f Field) stringConfig() field.StringConfig {
	return field.StringConfig{Spec: f.spec(), MinLength: f.MinLength, MaxLength: f.MaxLength, Regex: f.Regex}
}

func bound[T int | int64 | float64](v *float64) *T {
	if v == nil {
		return nil
	}
	b := T(*v)
	return &b
}

func decimalBound(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}

func (c *compiler) fieldType(f Field) (field.Type, error) {
	spec := f.spec()
	switch strings.ToLower(f.Type) {
	case "string":
		return field.String(f.stringConfig()), nil
	case "email":
		return field.Email(f.stringConfig()), nil
	case "ipv4":
		return field.IPv4(f.stringConfig()), nil
	case "url":
		return field.URL(field.URLConfig{StringConfig: f.stringConfig(), VerifyExists: f.VerifyExists}), nil
	case "int":
		return field.Int(field.NumberConfig[int]{Spec: spec, MinValue: bound[int](f.MinValue), MaxValue: bound[int](f.MaxValue)}), nil
	case "long":
		return field.Long(field.NumberConfig[int64]{Spec: spec, MinValue: bound[int64](f.MinValue), MaxValue: bound[int64](f.MaxValue)}), nil
	case "float":
		return field.Float(field.NumberConfig[float64]{Spec: spec, MinValue: bound[float64](f.MinValue), MaxValue: bound[float64](f.MaxValue)}), nil
	case "decimal":
		return field.Decimal(field.DecimalConfig{Spec: spec, MinValue: decimalBound(f.MinValue), MaxValue: decimalBound(f.MaxValue)}), nil
	case "boolean", "bool":
		return field.Boolean(spec), nil
	case "date":
		return field.Date(spec), nil
	case "datetime":
		return field.DateTime(field.DateTimeConfig{Spec: spec, Formats: f.Formats, SerializedFormat: f.SerializedFormat}), nil
	case "timestamp":
		return field.Timestamp(field.DateTimeConfig{Spec: spec, Formats: f.Formats, SerializedFormat: f.SerializedFormat}), nil
	case "md5":
		return field.MD5(spec), nil
	case "sha1":
		return field.SHA1(spec), nil
	case "uuid":
		return field.UUID(spec), nil
	case "geopoint":
		return field.GeoPoint(spec), nil
	case "list", "dict":
		if f.Of == nil {
			return nil, fmt.Errorf("%s needs an element type in \"of\"", f.Type)
		}
		elem, err := c.fieldType(*f.Of)
		if err != nil {
			return nil, fmt.Errorf("element: %w", err)
		}
		if strings.EqualFold(f.Type, "dict") {
			return field.Dict(elem, spec), nil
		}
		return field.List(elem, field.ListConfig{Spec: spec, MinSize: f.MinSize, MaxSize: f.MaxSize}), nil
	case "model":
		if f.Model == "" {
			return nil, errors.New("model fields need \"model\"")
		}
		s, err := c.schema(f.Model)
		if err != nil {
			return nil, err
		}
		return model.Embed(s, spec), nil
	case "":
		return nil, errors.New("missing type")
	default:
		return nil, fmt.Errorf("unknown type %q", f.Type)
	}
}
