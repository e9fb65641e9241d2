package schema

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Step kinds.
const (
	KindAnchor = "anchor"
	KindEffect = "effect"
)

// Definition is a walkthrough as written on disk.
type Definition struct {
	ID             string    `yaml:"id"                        json:"id"                        jsonschema:"required,minLength=1"`
	Title          string    `yaml:"title,omitempty"           json:"title,omitempty"`
	Description    string    `yaml:"description,omitempty"     json:"description,omitempty"`
	FallbackWindow string    `yaml:"fallback_window,omitempty" json:"fallback_window,omitempty"`
	Steps          []StepDef `yaml:"steps"                     json:"steps"                     jsonschema:"required,minItems=1"`
}

// StepDef is one step of a Definition.
type StepDef struct {
	Kind    string     `yaml:"kind"              json:"kind"              jsonschema:"required,enum=anchor,enum=effect"`
	Title   string     `yaml:"title"             json:"title"             jsonschema:"required"`
	Content string     `yaml:"content,omitempty" json:"content,omitempty"`
	Window  string     `yaml:"window,omitempty"  json:"window,omitempty"`
	Element string     `yaml:"element,omitempty" json:"element,omitempty"`
	Action  *ActionDef `yaml:"action,omitempty"  json:"action,omitempty"`
}

// ActionDef names a registered action and its params.
type ActionDef struct {
	Name   string         `yaml:"name"             json:"name"             jsonschema:"required,minLength=1"`
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// LoadFile parses a definition file.
func LoadFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open definition: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Parse parses a definition from memory.
func Parse(data []byte) (*Definition, error) {
	return Load(bytes.NewReader(data))
}

// Load parses a definition, rejecting unknown fields.
func Load(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	return &def, nil
}
