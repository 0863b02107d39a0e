package field

import (
	"context"
	"math"
	"reflect"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	modelkit "github.com/reoring/modelkit"
	js "github.com/reoring/modelkit/jsonschema"
)

// Numeric is the set of native representations of the number fields.
type Numeric interface {
	int | int64 | float64
}

// NumberConfig configures Int, Long and Float. Bounds are inclusive.
type NumberConfig[T Numeric] struct {
	Spec
	MinValue *T
	MaxValue *T
}

// NumberType is a numeric field. Integer variants truncate fractional
// numbers and parse integer text; booleans are rejected.
type NumberType[T Numeric] struct {
	Base
	label string
	min   *T
	max   *T
}

// Int returns an int field.
func Int(cfgs ...NumberConfig[int]) *NumberType[int] { return newNumber("Int", cfgs) }

// Long returns an int64 field.
func Long(cfgs ...NumberConfig[int64]) *NumberType[int64] { return newNumber("Long", cfgs) }

// Float returns a float64 field.
func Float(cfgs ...NumberConfig[float64]) *NumberType[float64] { return newNumber("Float", cfgs) }

func newNumber[T Numeric](label string, cfgs []NumberConfig[T]) *NumberType[T] {
	var cfg NumberConfig[T]
	if n := len(cfgs); n > 0 {
		cfg = cfgs[n-1]
	}
	return &NumberType[T]{Base: NewBase(cfg.Spec, numberMessages), label: label, min: cfg.MinValue, max: cfg.MaxValue}
}

func (t *NumberType[T]) Convert(ctx context.Context, v any) (any, error) {
	n, ok := coerceNumber[T](v)
	if !ok {
		return nil, modelkit.NewConversionError(t.Message(ctx, MsgNumber, t.label))
	}
	return n, nil
}

func (t *NumberType[T]) Validate(ctx context.Context, v any) error {
	return t.Check(ctx, v, t.checkRange)
}

func (t *NumberType[T]) checkRange(ctx context.Context, v any) error {
	n, ok := v.(T)
	if !ok {
		return nil
	}
	if t.min != nil && n < *t.min {
		return modelkit.NewValidationError(t.Message(ctx, MsgNumberMin, t.label, *t.min))
	}
	if t.max != nil && n > *t.max {
		return modelkit.NewValidationError(t.Message(ctx, MsgNumberMax, t.label, *t.max))
	}
	return nil
}

func (t *NumberType[T]) ToPrimitive(v any) any { return v }

func (t *NumberType[T]) Clone() Type {
	c := *t
	c.Base = t.CloneBase()
	return &c
}

func (t *NumberType[T]) JSONSchema() *js.Schema {
	s := &js.Schema{Type: "integer"}
	var zero T
	if _, ok := any(zero).(float64); ok {
		s.Type = "number"
	}
	if t.min != nil {
		s.Minimum = Ptr(float64(*t.min))
	}
	if t.max != nil {
		s.Maximum = Ptr(float64(*t.max))
	}
	return t.Annotate(s, t.ToPrimitive)
}

func coerceNumber[T Numeric](v any) (T, bool) {
	var zero T
	if n, ok := v.(T); ok {
		return n, true
	}
	_, wantFloat := any(zero).(float64)

	i, f, isFloat, ok := numberParts(v, wantFloat)
	if !ok {
		return zero, false
	}
	if wantFloat {
		if isFloat {
			return T(f), true
		}
		return T(i), true
	}
	if isFloat {
		// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive.
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return zero, false
		}
		i = int64(f)
	}
	n := T(i)
	if int64(n) != i {
		return zero, false
	}
	return n, true
}

// numberParts splits v into an integer or a float. Text is parsed as an
// integer unless wantFloat is set.
func numberParts(v any, wantFloat bool) (i int64, f float64, isFloat bool, ok bool) {
	switch x := v.(type) {
	case bool, nil:
		return 0, 0, false, false
	case json.Number:
		if n, err := x.Int64(); err == nil && !wantFloat {
			return n, 0, false, true
		}
		fl, err := x.Float64()
		if err != nil {
			return 0, 0, false, false
		}
		return 0, fl, true, true
	case string:
		s := strings.TrimSpace(x)
		if wantFloat {
			fl, err := strconv.ParseFloat(s, 64)
			return 0, fl, true, err == nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		return n, 0, false, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), 0, false, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, float64(u), true, true
		}
		return int64(u), 0, false, true
	case reflect.Float32, reflect.Float64:
		return 0, rv.Float(), true, true
	}
	return 0, 0, false, false
}

// toFloat reads any numeric value as float64.
func toFloat(v any) (float64, bool) {
	i, f, isFloat, ok := numberParts(v, true)
	if !ok {
		return 0, false
	}
	if isFloat {
		return f, true
	}
	return float64(i), true
}

// DecimalConfig configures Decimal. Bounds are inclusive.
type DecimalConfig struct {
	Spec
	MinValue *decimal.Decimal
	MaxValue *decimal.Decimal
}

// DecimalType is a fixed-point number field rendered as text on the wire.
type DecimalType struct {
	Base
	min *decimal.Decimal
	max *decimal.Decimal
}

// Decimal returns a decimal field. The last config wins.
func Decimal(cfgs ...DecimalConfig) *DecimalType {
	var cfg DecimalConfig
	if n := len(cfgs); n > 0 {
		cfg = cfgs[n-1]
	}
	return &DecimalType{Base: NewBase(cfg.Spec, decimalMessages), min: cfg.MinValue, max: cfg.MaxValue}
}

func (t *DecimalType) Convert(ctx context.Context, v any) (any, error) {
	d, ok := toDecimal(v)
	if !ok {
		return nil, modelkit.NewConversionError(t.Message(ctx, MsgNumber, "Decimal"))
	}
	return d, nil
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case *decimal.Decimal:
		if x == nil {
			return decimal.Decimal{}, false
		}
		return *x, true
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		return d, err == nil
	}
	i, f, isFloat, ok := numberParts(v, false)
	if !ok {
		return decimal.Decimal{}, false
	}
	if isFloat {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(f), true
	}
	return decimal.NewFromInt(i), true
}

func (t *DecimalType) Validate(ctx context.Context, v any) error {
	return t.Check(ctx, v, t.checkRange)
}

func (t *DecimalType) checkRange(ctx context.Context, v any) error {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return nil
	}
	if t.min != nil && d.LessThan(*t.min) {
		return modelkit.NewValidationError(t.Message(ctx, MsgNumberMin, "Decimal", t.min.String()))
	}
	if t.max != nil && d.GreaterThan(*t.max) {
		return modelkit.NewValidationError(t.Message(ctx, MsgNumberMax, "Decimal", t.max.String()))
	}
	return nil
}

func (t *DecimalType) ToPrimitive(v any) any {
	if d, ok := v.(decimal.Decimal); ok {
		return d.String()
	}
	return v
}

func (t *DecimalType) Clone() Type {
	c := *t
	c.Base = t.CloneBase()
	return &c
}

func (t *DecimalType) JSONSchema() *js.Schema {
	return t.Annotate(&js.Schema{Type: "string", Format: "decimal"}, t.ToPrimitive)
}
