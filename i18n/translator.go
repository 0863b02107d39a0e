// Package i18n resolves message templates for a language. Keys are the English
// templates themselves, so an unresolved key renders as English text.
package i18n

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Catalog retrieves the localized text for a message key. Implementations
// return key unchanged when nothing matches.
type Catalog interface {
	Lookup(key, lang string) string
}

// Dict is the table-based Catalog: language tag → key → text. Tags are
// matched after canonicalization, falling back to parent tags ("pt-BR" then
// "pt").
type Dict map[string]map[string]string

func (d Dict) Lookup(key, lang string) string {
	for _, tag := range candidates(lang) {
		if text, ok := d[tag][key]; ok {
			return text
		}
	}
	return key
}

// Merge returns a new Dict holding d overlaid by every entry of others.
func (d Dict) Merge(others ...Dict) Dict {
	out := Dict{}
	for _, src := range append([]Dict{d}, others...) {
		for lang, table := range src {
			tag := Canonical(lang)
			if out[tag] == nil {
				out[tag] = map[string]string{}
			}
			for k, v := range table {
				out[tag][k] = v
			}
		}
	}
	return out
}

// Canonical returns the BCP 47 form of lang ("pt_br" → "pt-BR"). Unparseable
// values are returned as given.
func Canonical(lang string) string {
	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return lang
	}
	return tag.String()
}

func candidates(lang string) []string {
	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return []string{lang}
	}
	var out []string
	for tag != language.Und {
		out = append(out, tag.String())
		tag = tag.Parent()
	}
	return out
}

var (
	mu             sync.RWMutex
	currentCatalog Catalog = Builtin()
	currentLang            = "en"
)

// SetCatalog replaces the global Catalog; nil restores the built-in tables.
func SetCatalog(c Catalog) {
	mu.Lock()
	defer mu.Unlock()
	if c == nil {
		currentCatalog = Builtin()
		return
	}
	currentCatalog = c
}

// CurrentCatalog returns the global Catalog.
func CurrentCatalog() Catalog {
	mu.RLock()
	defer mu.RUnlock()
	return currentCatalog
}

// SetLanguage sets the language used when a context carries none. Empty
// means "en".
func SetLanguage(lang string) {
	if lang == "" {
		lang = "en"
	}
	mu.Lock()
	currentLang = Canonical(lang)
	mu.Unlock()
}

// Language returns the global default language.
func Language() string {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

type langKey struct{}

// WithLanguage returns a context whose messages are rendered in lang.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, Canonical(lang))
}

// LanguageFrom returns the context language, or the global default.
func LanguageFrom(ctx context.Context) string {
	if ctx != nil {
		if v, ok := ctx.Value(langKey{}).(string); ok && v != "" {
			return v
		}
	}
	return Language()
}

// Lookup resolves key for the context language through the global Catalog.
func Lookup(ctx context.Context, key string) string {
	return CurrentCatalog().Lookup(key, LanguageFrom(ctx))
}

// T resolves key and formats args into it. Templates without verbs are
// returned as resolved.
func T(ctx context.Context, key string, args ...any) string {
	text := Lookup(ctx, key)
	if len(args) == 0 || !strings.Contains(text, "%") {
		return text
	}
	return fmt.Sprintf(text, args...)
}
