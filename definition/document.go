// Package definition compiles declarative model documents (YAML, or JSON as
// its subset) into model schemas.
//
//	models:
//	  - name: Address
//	    fields:
//	      - {name: street, type: string, required: true}
//	  - name: Person
//	    options:
//	      roles:
//	        public: [name, address]
//	    fields:
//	      - {name: name, type: string, max_length: 40}
//	      - {name: address, type: model, model: Address}
//	      - {name: tags, type: list, max_size: 5, of: {type: string}}
//
// Unknown keys are rejected when the document is decoded.
package definition

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is one definition file. A stream may hold several documents.
type Document struct {
	Models []Model `yaml:"models"`
}

// Model declares one schema.
type Model struct {
	Name    string   `yaml:"name"`
	Extends []string `yaml:"extends"`
	Options *Options `yaml:"options"`
	Fields  []Field  `yaml:"fields"`
}

// Options mirrors model.Options. Role entries prefixed with "-" form a
// blacklist.
type Options struct {
	Namespace         string              `yaml:"namespace"`
	SerializeWhenNone *bool               `yaml:"serialize_when_none"`
	Roles             map[string][]string `yaml:"roles"`
}

// Field declares one field. Which constraint keys apply depends on Type.
type Field struct {
	Name              string            `yaml:"name"`
	Type              string            `yaml:"type"`
	SerializedName    string            `yaml:"serialized_name"`
	Required          bool              `yaml:"required"`
	Default           any               `yaml:"default"`
	Choices           []any             `yaml:"choices"`
	Description       string            `yaml:"description"`
	SerializeWhenNone *bool             `yaml:"serialize_when_none"`
	Messages          map[string]string `yaml:"messages"`

	MinLength *int   `yaml:"min_length"`
	MaxLength *int   `yaml:"max_length"`
	Regex     string `yaml:"regex"`

	MinValue *float64 `yaml:"min_value"`
	MaxValue *float64 `yaml:"max_value"`

	Formats          []string `yaml:"formats"`
	SerializedFormat string   `yaml:"serialized_format"`

	VerifyExists bool `yaml:"verify_exists"`

	MinSize *int   `yaml:"min_size"`
	MaxSize *int   `yaml:"max_size"`
	Of      *Field `yaml:"of"`

	Model string `yaml:"model"`
}

// Decode reads every document of a YAML stream.
func Decode(r io.Reader) ([]Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var docs []Document
	for {
		var d Document
		if err := dec.Decode(&d); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return nil, fmt.Errorf("definition: decode document %d: %w", len(docs)+1, err)
		}
		docs = append(docs, d)
	}
}

// Load decodes r and compiles its models.
func Load(r io.Reader) (*Registry, error) {
	docs, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return Compile(docs...)
}

// LoadFile reads and compiles a definition file.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("definition: open: %w", err)
	}
	defer f.Close()
	return Load(f)
}
