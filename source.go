package modelkit

import (
	"bytes"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Source produces a raw input map for validation. Numbers decoded from JSON
// are kept as json.Number so numeric field types see the exact text.
type Source interface {
	Decode() (map[string]any, error)
}

type jsonBytes struct{ b []byte }

// JSONBytes decodes a JSON object document.
func JSONBytes(b []byte) Source { return jsonBytes{b: b} }

func (s jsonBytes) Decode() (map[string]any, error) {
	return decodeJSON(bytes.NewReader(s.b))
}

type jsonReader struct{ r io.Reader }

// JSONReader decodes a JSON object document read from r.
func JSONReader(r io.Reader) Source { return jsonReader{r: r} }

func (s jsonReader) Decode() (map[string]any, error) { return decodeJSON(s.r) }

type yamlBytes struct{ b []byte }

// YAMLBytes decodes a YAML mapping document.
func YAMLBytes(b []byte) Source { return yamlBytes{b: b} }

func (s yamlBytes) Decode() (map[string]any, error) {
	var doc any
	dec := yaml.NewDecoder(bytes.NewReader(s.b))
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("modelkit: decode yaml: %w", err)
	}
	m, ok := NormalizeYAML(doc).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("modelkit: yaml document is %T, want a mapping", doc)
	}
	return m, nil
}

type mapSource map[string]any

// MapSource wraps an already decoded map.
func MapSource(m map[string]any) Source { return mapSource(m) }

func (s mapSource) Decode() (map[string]any, error) { return map[string]any(s), nil }

func decodeJSON(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("modelkit: decode json: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// NormalizeYAML converts the map[any]any and map[interface{}]interface{}
// shapes a YAML decoder may produce into map[string]any, recursively.
func NormalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = NormalizeYAML(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = NormalizeYAML(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = NormalizeYAML(t[i])
		}
		return out
	default:
		return v
	}
}

// EncodeJSON renders v as JSON.
func EncodeJSON(v any) ([]byte, error) { return json.Marshal(v) }

// EncodeJSONIndent renders v as indented JSON.
func EncodeJSONIndent(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }
