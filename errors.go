package modelkit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ConversionError reports that an input value could not be coerced into the
// native representation of a field type. Conversion failures end processing of
// the field; validators never see the value.
type ConversionError struct {
	Messages []string
}

// NewConversionError builds a ConversionError from one or more messages.
func NewConversionError(msgs ...string) *ConversionError {
	return &ConversionError{Messages: msgs}
}

func (e *ConversionError) Error() string { return strings.Join(e.Messages, "; ") }

// ValidationError reports that a converted value violates a constraint.
// Messages from several validators of one field are aggregated into a single
// ValidationError.
type ValidationError struct {
	Messages []string
	stop     bool
}

// NewValidationError builds a ValidationError that lets the remaining
// validators of the field run.
func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Messages: msgs}
}

// StopValidation builds a ValidationError that aborts the remaining validator
// chain of the field.
func StopValidation(msgs ...string) *ValidationError {
	return &ValidationError{Messages: msgs, stop: true}
}

func (e *ValidationError) Error() string { return strings.Join(e.Messages, "; ") }

// Stopped reports whether the error short-circuits the validator chain.
func (e *ValidationError) Stopped() bool { return e != nil && e.stop }

// IsStop reports whether err carries a StopValidation signal.
func IsStop(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Stopped()
}

// ModelValidationError aggregates the failures of one model validation run.
// Fields maps a serialized field name to its messages; Nested holds the error
// trees of compound fields (embedded models, list elements by index, dict
// entries by key). A key may appear in both.
type ModelValidationError struct {
	Fields map[string][]string
	Nested map[string]*ModelValidationError
}

// NewModelValidationError returns an empty aggregate.
func NewModelValidationError() *ModelValidationError {
	return &ModelValidationError{
		Fields: map[string][]string{},
		Nested: map[string]*ModelValidationError{},
	}
}

// Add appends messages under key.
func (e *ModelValidationError) Add(key string, msgs ...string) {
	if len(msgs) == 0 {
		return
	}
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[key] = append(e.Fields[key], msgs...)
}

// AddNested records a nested error tree under key. Empty trees are ignored.
func (e *ModelValidationError) AddNested(key string, nested *ModelValidationError) {
	if nested.Empty() {
		return
	}
	if e.Nested == nil {
		e.Nested = map[string]*ModelValidationError{}
	}
	e.Nested[key] = nested
}

// Record stores err under key, unwrapping the error kinds of this package.
// A joined error may carry both a nested tree and messages. Any other error
// contributes its text as a single message.
func (e *ModelValidationError) Record(key string, err error) {
	if err == nil {
		return
	}
	var mve *ModelValidationError
	nested := errors.As(err, &mve)
	if nested {
		e.AddNested(key, mve)
	}
	var ce *ConversionError
	var ve *ValidationError
	switch {
	case errors.As(err, &ce):
		e.Add(key, ce.Messages...)
	case errors.As(err, &ve):
		e.Add(key, ve.Messages...)
	case !nested:
		e.Add(key, err.Error())
	}
}

// Remove drops every entry recorded under key.
func (e *ModelValidationError) Remove(key string) {
	delete(e.Fields, key)
	delete(e.Nested, key)
}

// Empty reports whether nothing was recorded.
func (e *ModelValidationError) Empty() bool {
	return e == nil || (len(e.Fields) == 0 && len(e.Nested) == 0)
}

// Has reports whether key carries messages or a nested tree.
func (e *ModelValidationError) Has(key string) bool {
	if e == nil {
		return false
	}
	_, ok := e.Fields[key]
	_, nok := e.Nested[key]
	return ok || nok
}

// Keys returns the sorted top-level keys.
func (e *ModelValidationError) Keys() []string {
	if e == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(e.Fields)+len(e.Nested))
	for k := range e.Fields {
		seen[k] = struct{}{}
	}
	for k := range e.Nested {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flat renders the tree as dotted paths to messages, e.g. "tags.1" or
// "owner.email".
func (e *ModelValidationError) Flat() map[string][]string {
	out := map[string][]string{}
	e.flatInto("", out)
	return out
}

func (e *ModelValidationError) flatInto(prefix string, out map[string][]string) {
	if e == nil {
		return
	}
	for k, msgs := range e.Fields {
		out[prefix+k] = append(out[prefix+k], msgs...)
	}
	for k, n := range e.Nested {
		n.flatInto(prefix+k+".", out)
	}
}

// Error summarizes the first few failing paths.
func (e *ModelValidationError) Error() string {
	if e.Empty() {
		return ""
	}
	flat := e.Flat()
	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(paths)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s: %s", paths[i], strings.Join(flat[paths[i]], " "))
	}
	if len(paths) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(paths))
	}
	return b.String()
}

// AsModelError extracts a ModelValidationError from err using errors.As.
func AsModelError(err error) (*ModelValidationError, bool) {
	if err == nil {
		return nil, false
	}
	var mve *ModelValidationError
	if errors.As(err, &mve) {
		return mve, true
	}
	return nil, false
}

// MessagesOf returns the message list carried by err. Conversion and
// validation errors yield their messages, a model error yields "path: message"
// lines, anything else yields its text.
func MessagesOf(err error) []string {
	if err == nil {
		return nil
	}
	var ce *ConversionError
	if errors.As(err, &ce) {
		return append([]string(nil), ce.Messages...)
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return append([]string(nil), ve.Messages...)
	}
	var mve *ModelValidationError
	if errors.As(err, &mve) {
		flat := mve.Flat()
		paths := make([]string, 0, len(flat))
		for p := range flat {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		var out []string
		for _, p := range paths {
			for _, m := range flat[p] {
				out = append(out, p+": "+m)
			}
		}
		return out
	}
	return []string{err.Error()}
}
