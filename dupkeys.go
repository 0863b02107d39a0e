package modelkit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// MsgDuplicateKey is reported for each repeated object key.
const MsgDuplicateKey = "Duplicate key."

// DuplicateKeyError reports object keys that occur more than once in a JSON
// document. Paths use the dotted form of the flatten package, e.g.
// "owner.name" or "tags.1.id".
type DuplicateKeyError struct {
	Paths []string
}

func (e *DuplicateKeyError) Error() string {
	return "modelkit: duplicate json keys: " + strings.Join(e.Paths, ", ")
}

// Flat renders the error in the shape of ModelValidationError.Flat.
func (e *DuplicateKeyError) Flat() map[string][]string {
	out := make(map[string][]string, len(e.Paths))
	for _, p := range e.Paths {
		out[p] = []string{MsgDuplicateKey}
	}
	return out
}

type dupFrame struct {
	object  bool
	keys    map[string]struct{}
	key     string
	index   int
	wantKey bool
}

// advance marks the end of one value inside f.
func (f *dupFrame) advance() {
	if f.object {
		f.wantKey = true
		return
	}
	f.index++
}

func (f *dupFrame) segment() string {
	if f.object {
		return f.key
	}
	return strconv.Itoa(f.index)
}

// DuplicateJSONKeys returns the sorted dotted paths of object keys that are
// repeated in data. Decoders keep the last occurrence silently, so callers
// that care run this first.
func DuplicateJSONKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var (
		stack []*dupFrame
		found = map[string]struct{}{}
	)
	top := func() *dupFrame {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if len(stack) > 0 {
				return nil, fmt.Errorf("modelkit: scan json: %w", io.ErrUnexpectedEOF)
			}
			break
		}
		if err != nil {
			return nil, fmt.Errorf("modelkit: scan json: %w", err)
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				stack = append(stack, &dupFrame{object: v == '{', keys: map[string]struct{}{}, wantKey: true})
			default:
				stack = stack[:len(stack)-1]
				if f := top(); f != nil {
					f.advance()
				}
			}
		case string:
			f := top()
			if f != nil && f.object && f.wantKey {
				if _, dup := f.keys[v]; dup {
					segs := make([]string, 0, len(stack))
					for _, p := range stack[:len(stack)-1] {
						segs = append(segs, p.segment())
					}
					found[strings.Join(append(segs, v), ".")] = struct{}{}
				}
				f.keys[v] = struct{}{}
				f.key = v
				f.wantKey = false
				continue
			}
			if f != nil {
				f.advance()
			}
		default:
			if f := top(); f != nil {
				f.advance()
			}
		}
	}
	if len(found) == 0 {
		return nil, nil
	}
	paths := make([]string, 0, len(found))
	for p := range found {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

type strictJSONBytes struct{ b []byte }

// StrictJSONBytes decodes like JSONBytes but fails with a *DuplicateKeyError
// when an object repeats a key.
func StrictJSONBytes(b []byte) Source { return strictJSONBytes{b: b} }

func (s strictJSONBytes) Decode() (map[string]any, error) {
	paths, err := DuplicateJSONKeys(s.b)
	if err != nil {
		return nil, err
	}
	if len(paths) > 0 {
		return nil, &DuplicateKeyError{Paths: paths}
	}
	return decodeJSON(bytes.NewReader(s.b))
}
