package i18n_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/modelkit/i18n"
)

func TestDict_LookupFallsBackToParentAndKey(t *testing.T) {
	d := i18n.Dict{"pt": {"hello": "olá"}}

	assert.Equal(t, "olá", d.Lookup("hello", "pt-BR"))
	assert.Equal(t, "olá", d.Lookup("hello", "pt_BR"))
	assert.Equal(t, "hello", d.Lookup("hello", "de"))
	assert.Equal(t, "missing", d.Lookup("missing", "pt"))
	assert.Equal(t, "hello", d.Lookup("hello", "not a tag!"))
}

func TestT_UsesContextLanguage(t *testing.T) {
	ctx := context.Background()
	if msg := i18n.T(ctx, "This field is required."); msg != "This field is required." {
		t.Fatalf("expected english text, got %q", msg)
	}

	pt := i18n.WithLanguage(ctx, "pt-BR")
	if msg := i18n.T(pt, "This field is required."); msg != "Este campo é obrigatório." {
		t.Fatalf("expected portuguese text, got %q", msg)
	}
	if msg := i18n.T(pt, "%s is an illegal field.", "nick"); msg != "nick é um campo inválido." {
		t.Fatalf("unexpected formatted text %q", msg)
	}
}

func TestSetLanguage_GlobalDefault(t *testing.T) {
	i18n.SetLanguage("pt-br")
	defer i18n.SetLanguage("en")

	assert.Equal(t, "pt-BR", i18n.Language())
	assert.Equal(t, "Hash não é hexadecimal.", i18n.T(context.Background(), "Hash value is not hexadecimal."))
}

func TestT_IgnoresArgsForPlainTemplates(t *testing.T) {
	assert.Equal(t, "Never forget", i18n.T(context.Background(), "Never forget", 3))
}

func TestLoadYAML_MergesWithBuiltin(t *testing.T) {
	d, err := i18n.LoadYAML(strings.NewReader("de_DE:\n  \"This field is required.\": \"Dieses Feld ist erforderlich.\"\n"))
	require.NoError(t, err)

	i18n.SetCatalog(i18n.Builtin().Merge(d))
	defer i18n.SetCatalog(nil)

	ctx := i18n.WithLanguage(context.Background(), "de-DE")
	assert.Equal(t, "Dieses Feld ist erforderlich.", i18n.T(ctx, "This field is required."))
	assert.Equal(t, "Texto é muito grande", i18n.T(i18n.WithLanguage(ctx, "pt-BR"), "String value is too long"))
}

func TestLoadJSON(t *testing.T) {
	d, err := i18n.LoadJSON(strings.NewReader(`{"fr": {"Illegal data value": "Valeur illégale"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Valeur illégale", d.Lookup("Illegal data value", "fr-CA"))

	_, err = i18n.LoadJSON(strings.NewReader(`{`))
	assert.Error(t, err)
}
