// Package flatten converts between nested maps and sequences and single-level
// maps keyed by dotted paths. Sequence indices become numeric path segments;
// empty containers are kept as the "[]" and "{}" markers.
package flatten

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Markers written for empty containers.
const (
	EmptyList = "[]"
	EmptyMap  = "{}"
)

// Options configures Flatten.
type Options struct {
	// Prefix is prepended to every path.
	Prefix string
	// KeepNone emits nil map values instead of dropping them. Nil sequence
	// elements are always emitted so indices stay contiguous.
	KeepNone bool
}

// Flatten walks v and returns its leaves keyed by dotted path. The last
// Options wins.
func Flatten(v any, opts ...Options) map[string]any {
	var opt Options
	if n := len(opts); n > 0 {
		opt = opts[n-1]
	}
	out := map[string]any{}
	walk(out, opt.Prefix, v, opt.KeepNone)
	return out
}

func join(prefix, seg string) string {
	if prefix == "" {
		return seg
	}
	return prefix + "." + seg
}

func walk(out map[string]any, path string, v any, keepNone bool) {
	switch x := v.(type) {
	case nil:
		if keepNone && path != "" {
			out[path] = nil
		}
	case map[string]any:
		if len(x) == 0 {
			if path != "" {
				out[path] = EmptyMap
			}
			return
		}
		for k, vv := range x {
			walk(out, join(path, k), vv, keepNone)
		}
	case []any:
		if len(x) == 0 {
			if path != "" {
				out[path] = EmptyList
			}
			return
		}
		for i, vv := range x {
			p := join(path, strconv.Itoa(i))
			if vv == nil {
				out[p] = nil
				continue
			}
			walk(out, p, vv, keepNone)
		}
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Map:
			m := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				m[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
			}
			walk(out, path, m, keepNone)
		case reflect.Slice, reflect.Array:
			if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
				out[path] = v
				return
			}
			s := make([]any, rv.Len())
			for i := range s {
				s[i] = rv.Index(i).Interface()
			}
			walk(out, path, s, keepNone)
		default:
			out[path] = v
		}
	}
}

// Expand rebuilds the nested structure of a flat map. Maps whose keys are
// exactly 0..n-1 become sequences, and the empty markers become empty
// containers. When a path is both a leaf and a parent, the parent wins.
func Expand(flat map[string]any) map[string]any {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	root := map[string]any{}
	for _, key := range keys {
		parts := strings.Split(key, ".")
		node := root
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[p] = child
			}
			node = child
		}
		leaf := parts[len(parts)-1]
		if _, isParent := node[leaf].(map[string]any); isParent {
			continue
		}
		node[leaf] = unmark(flat[key])
	}
	for k, v := range root {
		root[k] = listify(v)
	}
	return root
}

func unmark(v any) any {
	if s, ok := v.(string); ok {
		switch s {
		case EmptyList:
			return []any{}
		case EmptyMap:
			return map[string]any{}
		}
	}
	return v
}

func listify(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k, vv := range m {
		m[k] = listify(vv)
	}
	if len(m) == 0 {
		return m
	}
	items := make([]any, len(m))
	for k, vv := range m {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 || i >= len(m) || strconv.Itoa(i) != k {
			return m
		}
		items[i] = vv
	}
	return items
}
