package field

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	modelkit "github.com/reoring/modelkit"
	js "github.com/reoring/modelkit/jsonschema"
)

// StringConfig configures String. MinLength nil means 1; use Ptr(0) to accept
// empty strings. Regex must match at the start of the value.
type StringConfig struct {
	Spec
	MinLength *int
	MaxLength *int
	Regex     string
}

// StringType is a text field. Numbers are cast to their decimal text.
type StringType struct {
	Base
	minLength int
	maxLength *int
	pattern   string
	regex     *regexp.Regexp
	cfgErr    error
}

// String returns a string field. The last config wins.
func String(cfgs ...StringConfig) *StringType {
	var cfg StringConfig
	if n := len(cfgs); n > 0 {
		cfg = cfgs[n-1]
	}
	return newString(cfg, stringMessages)
}

func newString(cfg StringConfig, tables ...map[string]string) *StringType {
	t := &StringType{Base: NewBase(cfg.Spec, tables...), minLength: 1, maxLength: cfg.MaxLength, pattern: cfg.Regex}
	if cfg.MinLength != nil {
		t.minLength = *cfg.MinLength
	}
	if cfg.Regex != "" {
		re, err := regexp.Compile("^(?:" + cfg.Regex + ")")
		if err != nil {
			t.cfgErr = fmt.Errorf("field: invalid regex %q: %w", cfg.Regex, err)
		}
		t.regex = re
	}
	return t
}

// ConfigError reports a construction problem. The schema compiler surfaces it.
func (t *StringType) ConfigError() error { return t.cfgErr }

func (t *StringType) Convert(ctx context.Context, v any) (any, error) {
	s, ok := toText(v)
	if !ok {
		return nil, modelkit.NewConversionError(t.Message(ctx, MsgConvert))
	}
	return s, nil
}

func (t *StringType) Validate(ctx context.Context, v any) error {
	return t.Check(ctx, v, t.stringChecks()...)
}

// stringChecks runs the config check, then extra, then the length and
// regex checks.
func (t *StringType) stringChecks(extra ...Validator) []Validator {
	steps := append([]Validator{t.checkConfig}, extra...)
	return append(steps, t.checkLength, t.checkRegex)
}

// checkConfig fails every value of a type whose construction failed.
func (t *StringType) checkConfig(context.Context, any) error {
	if t.cfgErr != nil {
		return modelkit.StopValidation(t.cfgErr.Error())
	}
	return nil
}

func (t *StringType) checkLength(ctx context.Context, v any) error {
	s, _ := v.(string)
	n := utf8.RuneCountInString(s)
	var msgs []string
	if t.maxLength != nil && n > *t.maxLength {
		msgs = append(msgs, t.Message(ctx, MsgMaxLength))
	}
	if n < t.minLength {
		msgs = append(msgs, t.Message(ctx, MsgMinLength))
	}
	if len(msgs) > 0 {
		return modelkit.NewValidationError(msgs...)
	}
	return nil
}

func (t *StringType) checkRegex(ctx context.Context, v any) error {
	if t.regex == nil {
		return nil
	}
	s, _ := v.(string)
	if !t.regex.MatchString(s) {
		return modelkit.NewValidationError(t.Message(ctx, MsgRegex))
	}
	return nil
}

func (t *StringType) ToPrimitive(v any) any {
	if s, ok := toText(v); ok {
		return s
	}
	return fmt.Sprint(v)
}

func (t *StringType) Clone() Type {
	c := *t
	c.Base = t.CloneBase()
	return &c
}

func (t *StringType) JSONSchema() *js.Schema {
	s := &js.Schema{Type: "string", MaxLength: t.maxLength, Pattern: t.pattern}
	if t.minLength > 0 {
		s.MinLength = Ptr(t.minLength)
	}
	return t.Annotate(s, t.ToPrimitive)
}

func toText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool, nil:
		return "", false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	}
	return "", false
}

var urlPattern = regexp.MustCompile(`(?i)^https?://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// URLConfig configures URL. VerifyExists opts into one HTTP GET per
// validation through Checker, or the package default checker when nil.
type URLConfig struct {
	StringConfig
	VerifyExists bool
	Checker      URLChecker
}

// URLType is a string field holding an http(s) URL.
type URLType struct {
	StringType
	verify  bool
	checker URLChecker
}

// URL returns a URL field. The last config wins.
func URL(cfgs ...URLConfig) *URLType {
	var cfg URLConfig
	if n := len(cfgs); n > 0 {
		cfg = cfgs[n-1]
	}
	return &URLType{
		StringType: *newString(cfg.StringConfig, stringMessages, urlMessages),
		verify:     cfg.VerifyExists,
		checker:    cfg.Checker,
	}
}

func (t *URLType) Validate(ctx context.Context, v any) error {
	return t.Check(ctx, v, t.stringChecks(t.checkURL, t.checkExists)...)
}

func (t *URLType) checkURL(ctx context.Context, v any) error {
	s, _ := v.(string)
	if !urlPattern.MatchString(s) {
		return modelkit.StopValidation(t.Message(ctx, MsgInvalidURL))
	}
	return nil
}

func (t *URLType) checkExists(ctx context.Context, v any) error {
	if !t.verify {
		return nil
	}
	c := t.checker
	if c == nil {
		c = DefaultURLChecker()
	}
	s, _ := v.(string)
	if err := c.Check(ctx, s); err != nil {
		return modelkit.StopValidation(t.Message(ctx, MsgNotFound))
	}
	return nil
}

func (t *URLType) Clone() Type {
	c := *t
	c.Base = t.CloneBase()
	return &c
}

func (t *URLType) JSONSchema() *js.Schema {
	s := t.StringType.JSONSchema()
	s.Format = "uri"
	return s
}

var emailPattern = regexp.MustCompile(`(?i)(^[-!#$%&'*+/=?^_\x60{}|~0-9A-Z]+(\.[-!#$%&'*+/=?^_\x60{}|~0-9A-Z]+)*` +
	`|^"([\x01-\x08\x0b\x0c\x0e-\x1f!#-\[\]-\x7f]|\\[\x01-\x09\x0b\x0c\x0e-\x7f])*"` +
	`)@(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?$`)

// EmailType is a string field holding an e-mail address. A malformed address
// stops validation before the string checks run.
type EmailType struct {
	StringType
}

// Email returns an e-mail field. The last config wins.
func Email(cfgs ...StringConfig) *EmailType {
	var cfg StringConfig
	if n := len(cfgs); n > 0 {
		cfg = cfgs[n-1]
	}
	return &EmailType{StringType: *newString(cfg, stringMessages, emailMessages)}
}

func (t *EmailType) Validate(ctx context.Context, v any) error {
	return t.Check(ctx, v, t.stringChecks(t.checkEmail)...)
}

func (t *EmailType) checkEmail(ctx context.Context, v any) error {
	s, _ := v.(string)
	if !emailPattern.MatchString(s) {
		return modelkit.StopValidation(t.Message(ctx, MsgEmail))
	}
	return nil
}

func (t *EmailType) Clone() Type {
	c := *t
	c.Base = t.CloneBase()
	return &c
}

func (t *EmailType) JSONSchema() *js.Schema {
	s := t.StringType.JSONSchema()
	s.Format = "email"
	return s
}

// IPv4Type is a string field holding a dotted-quad IPv4 address.
type IPv4Type struct {
	StringType
}

// IPv4 returns an IPv4 field. The last config wins.
func IPv4(cfgs ...StringConfig) *IPv4Type {
	var cfg StringConfig
	if n := len(cfgs); n > 0 {
		cfg = cfgs[n-1]
	}
	return &IPv4Type{StringType: *newString(cfg, stringMessages, ipv4Messages)}
}

func (t *IPv4Type) Validate(ctx context.Context, v any) error {
	return t.Check(ctx, v, t.stringChecks(t.checkIPv4)...)
}

func (t *IPv4Type) checkIPv4(ctx context.Context, v any) error {
	s, _ := v.(string)
	if !validIPv4(s) {
		return modelkit.StopValidation(t.Message(ctx, MsgIPv4))
	}
	return nil
}

func validIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return false
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 || strings.HasPrefix(p, "+") || strings.HasPrefix(p, "-") {
			return false
		}
	}
	return true
}

func (t *IPv4Type) Clone() Type {
	c := *t
	c.Base = t.CloneBase()
	return &c
}

func (t *IPv4Type) JSONSchema() *js.Schema {
	s := t.StringType.JSONSchema()
	s.Format = "ipv4"
	return s
}
