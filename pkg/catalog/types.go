package catalog

import (
	"strings"

	"github.com/gnana997/uishowcase/pkg/jsx"
)

// Component represents a UI component in the showcase.
type Component struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Category    string `yaml:"category" json:"category"`
	ImportPath  string `yaml:"import_path" json:"import_path"`
	// ImportedNames lists every identifier exported from ImportPath that
	// examples may use (the component itself plus its parts).
	ImportedNames []string  `yaml:"imported_names" json:"imported_names"`
	Props         []Prop    `yaml:"props,omitempty" json:"props,omitempty"`
	Examples      []Example `yaml:"examples" json:"examples,omitempty"`
}

// Prop documents a component property.
type Prop struct {
	Name          string   `yaml:"name" json:"name"`
	Type          string   `yaml:"type" json:"type"`
	Required      bool     `yaml:"required,omitempty" json:"required"`
	Default       string   `yaml:"default,omitempty" json:"default,omitempty"`
	Description   string   `yaml:"description,omitempty" json:"description,omitempty"`
	AllowedValues []string `yaml:"allowed_values,omitempty" json:"allowed_values,omitempty"`
}

// Example is one showcase usage of a component.
type Example struct {
	Title       string       `yaml:"title" json:"title"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Element     *jsx.Element `yaml:"element" json:"-"`
}

// Category groups components logically.
type Category struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Components  []string `yaml:"components" json:"components"`
}

// RenderedExample is an example serialized to code, with the import
// statements it needs.
type RenderedExample struct {
	Component   string   `json:"component"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	Imports     []string `json:"imports"`
	Code        string   `json:"code"`
}

// Sample returns the import block, a blank line, and the code.
func (r RenderedExample) Sample() string {
	if len(r.Imports) == 0 {
		return r.Code + "\n"
	}
	var b strings.Builder
	for _, imp := range r.Imports {
		b.WriteString(imp)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(r.Code)
	b.WriteByte('\n')
	return b.String()
}
