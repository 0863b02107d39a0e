package definition_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	modelkit "github.com/reoring/modelkit"
	"github.com/reoring/modelkit/definition"
	"github.com/reoring/modelkit/model"
)

const people = `
models:
  - name: Person
    extends: [Base]
    options:
      namespace: people
      roles:
        public: [name, address]
        safe: ["-secret"]
    fields:
      - {name: name, type: string, max_length: 10, required: true}
      - {name: age, type: int, min_value: 0}
      - {name: secret, type: string, serialized_name: pw}
      - {name: address, type: model, model: Address}
      - {name: tags, type: list, max_size: 2, of: {type: string}}
      - {name: scores, type: dict, of: {type: float}}
  - name: Address
    fields:
      - {name: street, type: string, required: true}
---
models:
  - name: Base
    options:
      serialize_when_none: false
    fields:
      - {name: id, type: uuid}
`

func TestLoad_CompilesForwardReferencesAndStreams(t *testing.T) {
	ctx := context.Background()
	reg, err := definition.Load(strings.NewReader(people))
	require.NoError(t, err)
	assert.Equal(t, []string{"Person", "Address", "Base"}, reg.Names())

	person, ok := reg.Schema("Person")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name", "age", "secret", "address", "tags", "scores"}, person.Fields())
	assert.Equal(t, "people", person.Namespace())
	assert.False(t, person.SerializeWhenNone())

	inst, err := person.Load(ctx, map[string]any{
		"name":    "Ada",
		"pw":      "x",
		"address": map[string]any{"street": "1 Main"},
		"tags":    []any{"a"},
	})
	require.NoError(t, err)
	out, err := inst.Serialize("public")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Ada", "address": map[string]any{"street": "1 Main"}}, out)

	out, err = inst.Serialize("safe")
	require.NoError(t, err)
	assert.NotContains(t, out, "pw")

	_, err = person.Validate(ctx, map[string]any{"name": "far too long", "age": -3, "tags": []any{"a", "b", "c"}})
	mve, ok := modelkit.AsModelError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"age", "name", "tags"}, mve.Keys())
	assert.Len(t, reg.Schemas(), 3)
}

func TestDecode_RejectsUnknownKeys(t *testing.T) {
	_, err := definition.Load(strings.NewReader(`
models:
  - name: A
    options:
      colour: red
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")

	_, err = definition.Load(strings.NewReader(`
models:
  - name: A
    fields:
      - {name: a, type: string, maxlen: 3}
`))
	assert.Error(t, err)
}

func TestCompile_Errors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want error
	}{
		"unknown base": {doc: `
models:
  - {name: A, extends: [Nope]}
`, want: definition.ErrUnknownModel},
		"cycle": {doc: `
models:
  - name: A
    fields: [{name: b, type: model, model: B}]
  - name: B
    fields: [{name: a, type: model, model: A}]
`, want: definition.ErrCycle},
		"role conflict": {doc: `
models:
  - name: A
    options: {roles: {r: [a, "-b"]}}
    fields: [{name: a, type: string}, {name: b, type: string}]
`, want: model.ErrRoleConflict},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := definition.Load(strings.NewReader(tc.doc))
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}

	_, err := definition.Load(strings.NewReader(`
models:
  - name: A
    fields: [{name: a, type: wat}, {name: b, type: list}]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown type "wat"`)

	_, err = definition.Load(strings.NewReader(`
models:
  - name: A
    options: {roles: {r: [ghost]}}
`))
	var se *model.SchemaError
	assert.True(t, errors.As(err, &se))
}

func TestLoadFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defs.json")
	doc := `{"models": [{"name": "Point", "fields": [{"name": "at", "type": "geopoint", "required": true}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	reg, err := definition.LoadFile(path)
	require.NoError(t, err)
	s, ok := reg.Schema("Point")
	require.True(t, ok)
	_, err = s.Validate(context.Background(), map[string]any{"at": []any{1.5, 2}})
	assert.NoError(t, err)
}
