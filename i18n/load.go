package i18n

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// LoadYAML reads a Dict from a YAML document shaped as
// "lang: {key: text}".
func LoadYAML(r io.Reader) (Dict, error) {
	var raw map[string]map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("i18n: decode yaml catalog: %w", err)
	}
	return Dict{}.Merge(Dict(raw)), nil
}

// LoadJSON reads a Dict from a JSON document of the same shape as LoadYAML.
func LoadJSON(r io.Reader) (Dict, error) {
	var raw map[string]map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("i18n: decode json catalog: %w", err)
	}
	return Dict{}.Merge(Dict(raw)), nil
}

// LoadFile reads a catalog file, choosing the decoder by extension
// (.json, otherwise YAML).
func LoadFile(path string) (Dict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: open catalog: %w", err)
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(f)
	}
	return LoadYAML(f)
}
