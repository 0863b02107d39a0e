package field

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	modelkit "github.com/reoring/modelkit"
	js "github.com/reoring/modelkit/jsonschema"
)

// DateLayout is the wire layout of Date fields.
const DateLayout = "2006-01-02"

// DefaultDateTimeFormats are tried in order when DateTimeConfig.Formats is
// empty. Fractional seconds are accepted after the seconds field by every
// layout.
var DefaultDateTimeFormats = []string{time.RFC3339Nano, "2006-01-02T15:04:05"}

// DefaultSerializedFormat renders DateTime values with microseconds.
const DefaultSerializedFormat = "2006-01-02T15:04:05.000000"

// DateType holds a calendar date as a time.Time.
type DateType struct {
	Base
}

// Date returns a date field. The last spec wins.
func Date(specs ...Spec) *DateType {
	var spec Spec
	if n := len(specs); n > 0 {
		spec = specs[n-1]
	}
	return &DateType{Base: NewBase(spec, dateMessages)}
}

func (t *DateType) Convert(ctx context.Context, v any) (any, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		if d, err := time.Parse(DateLayout, x); err == nil {
			return d, nil
		}
	}
	return nil, modelkit.NewConversionError(t.Message(ctx, MsgParse, v))
}

func (t *DateType) Validate(ctx context.Context, v any) error { return t.Check(ctx, v) }

func (t *DateType) ToPrimitive(v any) any {
	if d, ok := v.(time.Time); ok {
		return d.Format(DateLayout)
	}
	return v
}

func (t *DateType) Clone() Type {
	c := *t
	c.Base = t.CloneBase()
	return &c
}

func (t *DateType) JSONSchema() *js.Schema {
	return t.Annotate(&js.Schema{Type: "string", Format: "date"}, t.ToPrimitive)
}

// DateTimeConfig configures DateTime and Timestamp. Formats and
// SerializedFormat are Go time layouts.
type DateTimeConfig struct {
	Spec
	Formats          []string
	SerializedFormat string
}

// DateTimeType holds an instant as a time.Time. Text input is parsed with the
// configured layouts; the first that succeeds wins.
type DateTimeType struct {
	Base
	formats    []string
	serialized string
}

// DateTime returns a datetime field. The last config wins.
func DateTime(cfgs ...DateTimeConfig) *DateTimeType {
	var cfg DateTimeConfig
	if n := len(cfgs); n > 0 {
		cfg = cfgs[n-1]
	}
	return newDateTime(cfg)
}

func newDateTime(cfg DateTimeConfig) *DateTimeType {
	t := &DateTimeType{
		Base:       NewBase(cfg.Spec, dateTimeMessages),
		formats:    append([]string(nil), cfg.Formats...),
		serialized: cfg.SerializedFormat,
	}
	if len(t.formats) == 0 {
		t.formats = append([]string(nil), DefaultDateTimeFormats...)
	}
	if t.serialized == "" {
		t.serialized = DefaultSerializedFormat
	}
	return t
}

func (t *DateTimeType) Convert(ctx context.Context, v any) (any, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		if ts, ok := t.parse(x); ok {
			return ts, nil
		}
	}
	return nil, modelkit.NewConversionError(t.Message(ctx, MsgParse, v))
}

func (t *DateTimeType) parse(s string) (time.Time, bool) {
	for _, layout := range t.formats {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (t *DateTimeType) Validate(ctx context.Context, v any) error { return t.Check(ctx, v) }

func (t *DateTimeType) ToPrimitive(v any) any {
	if ts, ok := v.(time.Time); ok {
		return ts.Format(t.serialized)
	}
	return v
}

func (t *DateTimeType) Clone() Type {
	c := *t
	c.Base = t.CloneBase()
	c.formats = append([]string(nil), t.formats...)
	return &c
}

func (t *DateTimeType) JSONSchema() *js.Schema {
	return t.Annotate(&js.Schema{Type: "string", Format: "date-time"}, t.ToPrimitive)
}

// TimestampType is a DateTime whose numeric input is read as Unix seconds
// (UTC) and whose wire form is integer seconds.
type TimestampType struct {
	DateTimeType
}

// Timestamp returns a timestamp field. The last config wins.
func Timestamp(cfgs ...DateTimeConfig) *TimestampType {
	var cfg DateTimeConfig
	if n := len(cfgs); n > 0 {
		cfg = cfgs[n-1]
	}
	return &TimestampType{DateTimeType: *newDateTime(cfg)}
}

func (t *TimestampType) Convert(ctx context.Context, v any) (any, error) {
	secs, ok := timestampSeconds(v)
	if !ok {
		return t.DateTimeType.Convert(ctx, v)
	}
	if secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return nil, modelkit.NewConversionError(t.Message(ctx, MsgNegative))
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(math.Round(frac*1e9))).UTC(), nil
}

func timestampSeconds(v any) (float64, bool) {
	switch x := v.(type) {
	case time.Time, bool, nil:
		return 0, false
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return toFloat(v)
}

// ToPrimitive renders whole seconds since the Unix epoch, rounded.
func (t *TimestampType) ToPrimitive(v any) any {
	if ts, ok := v.(time.Time); ok {
		return ts.Round(time.Second).Unix()
	}
	return v
}

func (t *TimestampType) Clone() Type {
	c := *t
	c.Base = t.CloneBase()
	c.formats = append([]string(nil), t.formats...)
	return &c
}

func (t *TimestampType) JSONSchema() *js.Schema {
	return t.Annotate(&js.Schema{Type: "integer", Minimum: Ptr(0.0)}, t.ToPrimitive)
}
