package modelkit_test

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	modelkit "github.com/reoring/modelkit"
)

func TestJSONSources_KeepNumbers(t *testing.T) {
	doc := `{"id": 12345678901234567890, "ratio": 0.1, "tags": ["a"]}`
	for name, src := range map[string]modelkit.Source{
		"bytes":  modelkit.JSONBytes([]byte(doc)),
		"reader": modelkit.JSONReader(strings.NewReader(doc)),
	} {
		t.Run(name, func(t *testing.T) {
			m, err := src.Decode()
			require.NoError(t, err)
			assert.Equal(t, json.Number("12345678901234567890"), m["id"])
			assert.Equal(t, json.Number("0.1"), m["ratio"])
			assert.Equal(t, []any{"a"}, m["tags"])
		})
	}

	m, err := modelkit.JSONBytes([]byte("null")).Decode()
	require.NoError(t, err)
	assert.Empty(t, m)

	_, err = modelkit.JSONBytes([]byte(`[1]`)).Decode()
	assert.Error(t, err)
}

func TestYAMLBytes(t *testing.T) {
	m, err := modelkit.YAMLBytes([]byte("name: Ada\nnested:\n  1: one\nlist:\n  - {k: v}\n")).Decode()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":   "Ada",
		"nested": map[string]any{"1": "one"},
		"list":   []any{map[string]any{"k": "v"}},
	}, m)

	m, err = modelkit.YAMLBytes(nil).Decode()
	require.NoError(t, err)
	assert.Empty(t, m)

	_, err = modelkit.YAMLBytes([]byte("- a\n- b\n")).Decode()
	assert.ErrorContains(t, err, "want a mapping")
}

func TestNormalizeYAML(t *testing.T) {
	in := map[any]any{1: []any{map[any]any{true: "x"}}}
	assert.Equal(t, map[string]any{"1": []any{map[string]any{"true": "x"}}}, modelkit.NormalizeYAML(in))

	src := modelkit.MapSource(map[string]any{"a": 1})
	m, err := src.Decode()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, m)
}
