package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	modelkit "github.com/reoring/modelkit"
	"github.com/reoring/modelkit/config"
	"github.com/reoring/modelkit/field"
	"github.com/reoring/modelkit/i18n"
)

func resetGlobals(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		i18n.SetCatalog(nil)
		i18n.SetLanguage("en")
		field.SetDefaultURLChecker(nil)
		modelkit.SetLogger(zerolog.Nop())
	})
}

func TestFromMap_Defaults(t *testing.T) {
	cfg, err := config.FromMap(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, 5*time.Second, cfg.URLTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Catalog)
}

func TestFromMap_Overrides(t *testing.T) {
	cfg, err := config.FromMap(map[string]string{
		"MODELKIT_LANGUAGE":          "pt_BR",
		"MODELKIT_URL_CHECK_TIMEOUT": "250ms",
		"MODELKIT_LOG_LEVEL":         "debug",
	})
	require.NoError(t, err)
	assert.Equal(t, "pt_BR", cfg.Language)
	assert.Equal(t, 250*time.Millisecond, cfg.URLTimeout)

	_, err = config.FromMap(map[string]string{"MODELKIT_URL_CHECK_TIMEOUT": "soon"})
	assert.True(t, errors.Is(err, config.ErrParsingConfig))
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("MODELKIT_LOG_LEVEL=warn\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("MODELKIT_LOG_LEVEL") })

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err, "named files must exist")
}

func TestApply(t *testing.T) {
	resetGlobals(t)
	catalog := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(catalog, []byte("pt-BR:\n  \"custom %s\": \"personalizado %s\"\n"), 0o600))

	require.NoError(t, config.Apply(config.Config{
		Language:   "pt_BR",
		Catalog:    catalog,
		URLTimeout: time.Second,
		LogLevel:   "debug",
	}))

	ctx := context.Background()
	assert.Equal(t, "pt-BR", i18n.Language())
	assert.Equal(t, "personalizado x", i18n.T(ctx, "custom %s", "x"))
	assert.Equal(t, "Este campo é obrigatório.", i18n.T(ctx, "This field is required."), "built-in tables stay")
	assert.Equal(t, zerolog.DebugLevel, modelkit.Logger().GetLevel())

	assert.Error(t, config.Apply(config.Config{LogLevel: "loud"}))
	assert.Error(t, config.Apply(config.Config{Catalog: filepath.Join(t.TempDir(), "none.yaml")}))
}
