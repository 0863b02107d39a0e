package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defs = `
models:
  - name: Person
    fields:
      - {name: name, type: string, required: true, max_length: 5}
      - {name: age, type: int}
`

func writeDefs(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.yaml")
	require.NoError(t, os.WriteFile(path, []byte(defs), 0o600))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, map[string]any, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	var got map[string]any
	if out.Len() > 0 {
		require.NoError(t, json.Unmarshal(out.Bytes(), &got), out.String())
	}
	return code, got, errOut.String()
}

func TestFlattenAndExpand(t *testing.T) {
	code, got, _ := runCLI(t, `{"a": [{"b": 1}], "c": {}}`, "flatten")
	require.Equal(t, 0, code)
	assert.Equal(t, map[string]any{"a.0.b": float64(1), "c": "{}"}, got)

	code, got, _ = runCLI(t, "a.0.b: 1\nc: '{}'\n", "expand")
	require.Equal(t, 0, code)
	assert.Equal(t, map[string]any{"a": []any{map[string]any{"b": float64(1)}}, "c": map[string]any{}}, got)
}

func TestValidate(t *testing.T) {
	path := writeDefs(t)

	code, got, _ := runCLI(t, `{"name": "Ada", "age": "36"}`, "validate", "-defs", path, "-model", "Person")
	require.Equal(t, 0, code)
	assert.Equal(t, map[string]any{"name": "Ada", "age": float64(36)}, got)

	code, got, _ = runCLI(t, `{"name": "Adalberta", "bogus": 1}`, "validate", "-defs", path, "-model", "Person", "-strict")
	require.Equal(t, 1, code)
	errs, ok := got["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "bogus")

	code, got, _ = runCLI(t, `{"name": "Ada", "name": "Bob"}`, "validate", "-defs", path, "-model", "Person", "-strict")
	require.Equal(t, 1, code)
	assert.Equal(t, map[string]any{"name": []any{"Duplicate key."}}, got["errors"])

	code, _, _ = runCLI(t, `{"name": "Ada", "name": "Bob"}`, "validate", "-defs", path, "-model", "Person")
	assert.Equal(t, 0, code)

	code, _, stderr := runCLI(t, `{}`, "validate", "-defs", path, "-model", "Nobody")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown model")
}

func TestSchema(t *testing.T) {
	path := writeDefs(t)

	code, got, _ := runCLI(t, "", "schema", "-defs", path, "-model", "Person")
	require.Equal(t, 0, code)
	assert.Equal(t, "Person", got["title"])
	assert.Equal(t, []any{"name"}, got["required"])

	code, got, _ = runCLI(t, "", "schema", "-defs", path, "-format", "openapi")
	require.Equal(t, 0, code)
	assert.Equal(t, "3.0.3", got["openapi"])
	info := got["info"].(map[string]any)
	assert.Equal(t, "people", info["title"])
}

func TestUsage(t *testing.T) {
	code, _, stderr := runCLI(t, "", "bogus")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Usage:")

	code, _, _ = runCLI(t, "", "validate")
	assert.Equal(t, 2, code)
}
