package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrComponentNotFound is returned when a component name is not in the catalog.
var ErrComponentNotFound = errors.New("component not found")

// ErrEmptyCatalog is returned when a catalog document has no content.
var ErrEmptyCatalog = errors.New("catalog document is empty")

// Catalog holds the showcase: components, their categories and examples.
type Catalog struct {
	Name      string `yaml:"name" json:"name"`
	Version   string `yaml:"version" json:"version"`
	Framework string `yaml:"framework,omitempty" json:"framework"`
	Source    string `yaml:"source,omitempty" json:"source"`
	// IconImport is the package icon components (tags ending in "Icon")
	// are imported from, e.g. "lucide-react".
	IconImport string      `yaml:"icon_import,omitempty" json:"icon_import,omitempty"`
	Categories []Category  `yaml:"categories" json:"categories"`
	Components []Component `yaml:"components" json:"components"`
}

// CatalogIndex provides O(1) lookups into the catalog.
// Built during LoadFromFile after validation passes.
type CatalogIndex struct {
	// ComponentByName maps component name -> *Component.
	ComponentByName map[string]*Component

	// Owner maps every imported name (component names included) to the
	// component whose import path exports it.
	Owner map[string]*Component

	// CategoryByName maps category name -> *Category.
	CategoryByName map[string]*Category

	// ComponentsByCategory maps category name -> []*Component.
	ComponentsByCategory map[string][]*Component

	// IconImport mirrors Catalog.IconImport.
	IconImport string
}

// Validate checks the catalog for internal consistency.
// Returns a slice of validation errors (empty slice if valid).
func (c *Catalog) Validate() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, fmt.Errorf("catalog name is required"))
	}
	if c.Version == "" {
		errs = append(errs, fmt.Errorf("catalog version is required"))
	}

	componentNames := make(map[string]bool, len(c.Components))
	categoryNames := make(map[string]bool, len(c.Categories))
	// imported name -> import path that exports it
	exporters := make(map[string]string)

	for i, cat := range c.Categories {
		if cat.Name == "" {
			errs = append(errs, fmt.Errorf("categories[%d]: name is required", i))
			continue
		}
		if categoryNames[cat.Name] {
			errs = append(errs, fmt.Errorf("categories[%d]: duplicate category name %q", i, cat.Name))
			continue
		}
		categoryNames[cat.Name] = true
	}

	for i, comp := range c.Components {
		if comp.Name == "" {
			errs = append(errs, fmt.Errorf("components[%d]: name is required", i))
			continue
		}
		if comp.ImportPath == "" {
			errs = append(errs, fmt.Errorf("component %q: import_path is required", comp.Name))
		}
		if len(comp.ImportedNames) == 0 {
			errs = append(errs, fmt.Errorf("component %q: imported_names must have at least one entry", comp.Name))
		}
		if componentNames[comp.Name] {
			errs = append(errs, fmt.Errorf("component %q: duplicate component name", comp.Name))
			continue
		}
		componentNames[comp.Name] = true

		if comp.Category != "" && !categoryNames[comp.Category] {
			errs = append(errs, fmt.Errorf("component %q: references unknown category %q", comp.Name, comp.Category))
		}

		for _, name := range comp.ImportedNames {
			if path, ok := exporters[name]; ok && path != comp.ImportPath {
				errs = append(errs, fmt.Errorf("component %q: imported name %q is also exported by %q", comp.Name, name, path))
				continue
			}
			exporters[name] = comp.ImportPath
		}

		for j, prop := range comp.Props {
			if prop.Name == "" {
				errs = append(errs, fmt.Errorf("component %q props[%d]: name is required", comp.Name, j))
			}
			if prop.Type == "" {
				errs = append(errs, fmt.Errorf("component %q props[%d]: type is required", comp.Name, j))
			}
		}

		slugs := make(map[string]bool, len(comp.Examples))
		for j, ex := range comp.Examples {
			if ex.Title == "" {
				errs = append(errs, fmt.Errorf("component %q examples[%d]: title is required", comp.Name, j))
				continue
			}
			slug := Slug(ex.Title)
			if slugs[slug] {
				errs = append(errs, fmt.Errorf("component %q examples[%d]: title %q collides with another example", comp.Name, j, ex.Title))
			}
			slugs[slug] = true
			if ex.Element == nil {
				errs = append(errs, fmt.Errorf("component %q example %q: element is required", comp.Name, ex.Title))
			}
		}
	}

	// Cross-reference: each component listed in a category must exist.
	for _, cat := range c.Categories {
		for _, compName := range cat.Components {
			if !componentNames[compName] {
				errs = append(errs, fmt.Errorf("category %q: references non-existent component %q", cat.Name, compName))
			}
		}
	}

	return errs
}

// BuildIndex creates lookup maps for fast access.
// Should be called after Validate() passes.
func (c *Catalog) BuildIndex() *CatalogIndex {
	idx := &CatalogIndex{
		ComponentByName:      make(map[string]*Component, len(c.Components)),
		Owner:                make(map[string]*Component),
		CategoryByName:       make(map[string]*Category, len(c.Categories)),
		ComponentsByCategory: make(map[string][]*Component),
		IconImport:           c.IconImport,
	}

	for i := range c.Categories {
		idx.CategoryByName[c.Categories[i].Name] = &c.Categories[i]
	}

	for i := range c.Components {
		comp := &c.Components[i]
		idx.ComponentByName[comp.Name] = comp
		idx.ComponentsByCategory[comp.Category] = append(idx.ComponentsByCategory[comp.Category], comp)
		for _, name := range comp.ImportedNames {
			if _, ok := idx.Owner[name]; !ok {
				idx.Owner[name] = comp
			}
		}
	}
	// Component names resolve to themselves even when another component
	// lists them first.
	for name, comp := range idx.ComponentByName {
		idx.Owner[name] = comp
	}

	return idx
}

// LoadFromFile loads a catalog from a YAML or JSON file, validates it, and
// builds the index.
func LoadFromFile(path string) (*Catalog, *CatalogIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	cat, idx, err := LoadFromBytes(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if cat.Source == "" {
		cat.Source = path
	}
	return cat, idx, nil
}

// LoadFromBytes parses a catalog from YAML or JSON bytes, validates it, and
// builds the index.
func LoadFromBytes(data []byte) (*Catalog, *CatalogIndex, error) {
	catalog, err := decode(data)
	if err != nil {
		return nil, nil, err
	}

	if errs := catalog.Validate(); len(errs) > 0 {
		return nil, nil, fmt.Errorf("catalog validation failed: %w", errors.Join(errs...))
	}

	index := catalog.BuildIndex()
	return catalog, index, nil
}

// decode reads one catalog document. JSON is valid YAML, so one decoder
// serves both and keeps prop order in example elements.
func decode(data []byte) (*Catalog, error) {
	var catalog Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&catalog); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse catalog: %w", ErrEmptyCatalog)
		}
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &catalog, nil
}

// Merge combines catalogs into one. Scalar fields come from the first
// catalog that sets them; categories and components are
// concatenated, so repeated names surface as validation errors.
func Merge(parts ...*Catalog) *Catalog {
	merged := &Catalog{}
	for _, p := range parts {
		if merged.Name == "" {
			merged.Name = p.Name
		}
		if merged.Version == "" {
			merged.Version = p.Version
		}
		if merged.Framework == "" {
			merged.Framework = p.Framework
		}
		if merged.Source == "" {
			merged.Source = p.Source
		}
		if merged.IconImport == "" {
			merged.IconImport = p.IconImport
		}
		merged.Categories = append(merged.Categories, p.Categories...)
		merged.Components = append(merged.Components, p.Components...)
	}
	return merged
}
