// Package config reads the process-wide settings of modelkit from the
// environment and installs them.
//
//	MODELKIT_LANGUAGE              default message language (en)
//	MODELKIT_CATALOG               YAML or JSON catalog merged over the built-in tables
//	MODELKIT_URL_CHECK_TIMEOUT     bound of the URL existence check (5s)
//	MODELKIT_URL_CHECK_USER_AGENT  User-Agent of the URL existence check
//	MODELKIT_LOG_LEVEL             zerolog level of the library logger (info)
//
// A .env file in the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	modelkit "github.com/reoring/modelkit"
	"github.com/reoring/modelkit/field"
	"github.com/reoring/modelkit/i18n"
	"github.com/reoring/modelkit/internal/netcheck"
)

// ErrParsingConfig wraps environment parsing failures.
var ErrParsingConfig = errors.New("config: failed to parse environment")

// Config holds the settings.
type Config struct {
	Language     string        `env:"MODELKIT_LANGUAGE" envDefault:"en"`
	Catalog      string        `env:"MODELKIT_CATALOG"`
	URLTimeout   time.Duration `env:"MODELKIT_URL_CHECK_TIMEOUT" envDefault:"5s"`
	URLUserAgent string        `env:"MODELKIT_URL_CHECK_USER_AGENT" envDefault:"modelkit-urlcheck/1"`
	LogLevel     string        `env:"MODELKIT_LOG_LEVEL" envDefault:"info"`
}

// Load reads the .env files (the default .env when none are named) and
// parses the environment. A missing default .env is not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load env file: %w", err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// FromMap parses cfg from vars instead of the process environment.
func FromMap(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// Apply installs the language, catalog, default URL checker and log level.
func Apply(cfg Config) error {
	lvl := zerolog.InfoLevel
	if cfg.LogLevel != "" {
		l, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("config: log level %q: %w", cfg.LogLevel, err)
		}
		lvl = l
	}
	if cfg.Catalog != "" {
		d, err := i18n.LoadFile(cfg.Catalog)
		if err != nil {
			return fmt.Errorf("config: catalog: %w", err)
		}
		i18n.SetCatalog(i18n.Builtin().Merge(d))
	}
	i18n.SetLanguage(cfg.Language)
	field.SetDefaultURLChecker(netcheck.New(netcheck.Options{
		Timeout:   cfg.URLTimeout,
		UserAgent: cfg.URLUserAgent,
	}))
	modelkit.SetLogger(modelkit.Logger().Level(lvl))
	modelkit.Logger().Debug().
		Str("language", i18n.Language()).
		Str("catalog", cfg.Catalog).
		Dur("url_timeout", cfg.URLTimeout).
		Msg("configuration applied")
	return nil
}
