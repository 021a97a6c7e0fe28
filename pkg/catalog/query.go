package catalog

import (
	"fmt"
	"strings"

	"github.com/gnana997/uishowcase/pkg/jsx"
)

// ComponentSearchResult holds a component match with the reason it matched.
type ComponentSearchResult struct {
	Component   *Component
	MatchReason string
}

// QueryService provides read-only query methods over a loaded catalog.
type QueryService struct {
	Catalog *Catalog
	Index   *CatalogIndex
}

// NewQueryService creates a QueryService from a validated catalog and its index.
func NewQueryService(cat *Catalog, idx *CatalogIndex) *QueryService {
	return &QueryService{Catalog: cat, Index: idx}
}

// LoadAndQuery loads a catalog from file and returns a ready-to-use QueryService.
func LoadAndQuery(path string) (*QueryService, error) {
	cat, idx, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return NewQueryService(cat, idx), nil
}

// LoadAndQueryBytes loads a catalog from raw YAML or JSON bytes and returns a
// ready-to-use QueryService.
func LoadAndQueryBytes(data []byte) (*QueryService, error) {
	cat, idx, err := LoadFromBytes(data)
	if err != nil {
		return nil, err
	}
	return NewQueryService(cat, idx), nil
}

// ListCategories returns all categories in the catalog.
func (q *QueryService) ListCategories() []Category {
	return q.Catalog.Categories
}

// ListComponents returns components filtered by category and/or keyword.
// Both filters are optional (pass "" to skip). When both are provided, they combine with AND logic.
// The keyword matches case-insensitively against component Name and Description.
func (q *QueryService) ListComponents(category, keyword string) []Component {
	var candidates []*Component

	if category != "" {
		candidates = q.Index.ComponentsByCategory[category]
	} else {
		candidates = make([]*Component, 0, len(q.Catalog.Components))
		for i := range q.Catalog.Components {
			candidates = append(candidates, &q.Catalog.Components[i])
		}
	}

	keyword = strings.ToLower(keyword)
	result := make([]Component, 0)

	for _, comp := range candidates {
		if keyword != "" {
			nameLower := strings.ToLower(comp.Name)
			descLower := strings.ToLower(comp.Description)
			if !strings.Contains(nameLower, keyword) && !strings.Contains(descLower, keyword) {
				continue
			}
		}
		result = append(result, *comp)
	}

	return result
}

// GetComponent looks up a component by name. It first checks top-level
// components, then falls back to imported names (returning the component
// that exports it). The bool indicates whether the component was found.
func (q *QueryService) GetComponent(name string) (*Component, bool) {
	if comp, ok := q.Index.ComponentByName[name]; ok {
		return comp, true
	}
	if owner, ok := q.Index.Owner[name]; ok {
		return owner, true
	}
	return nil, false
}

// GetComponentsByNames returns components matching the given names.
// Unknown names are silently skipped. Duplicates are removed.
func (q *QueryService) GetComponentsByNames(names []string) []*Component {
	seen := make(map[string]bool, len(names))
	result := make([]*Component, 0, len(names))

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		if comp, ok := q.Index.ComponentByName[name]; ok {
			result = append(result, comp)
		}
	}

	return result
}

// SearchComponents performs a case-insensitive search across component names,
// descriptions, prop names, imported names and example titles.
// Returns matching components with the reason for the match.
func (q *QueryService) SearchComponents(query string) []ComponentSearchResult {
	query = strings.ToLower(query)
	if query == "" {
		return nil
	}

	var results []ComponentSearchResult
	for i := range q.Catalog.Components {
		comp := &q.Catalog.Components[i]
		if reason := matchReason(comp, query); reason != "" {
			results = append(results, ComponentSearchResult{Component: comp, MatchReason: reason})
		}
	}
	return results
}

func matchReason(comp *Component, query string) string {
	if strings.Contains(strings.ToLower(comp.Name), query) {
		return "name"
	}
	if strings.Contains(strings.ToLower(comp.Description), query) {
		return "description"
	}
	for _, prop := range comp.Props {
		if strings.Contains(strings.ToLower(prop.Name), query) {
			return "prop:" + prop.Name
		}
	}
	for _, name := range comp.ImportedNames {
		if name != comp.Name && strings.Contains(strings.ToLower(name), query) {
			return "part:" + name
		}
	}
	for _, ex := range comp.Examples {
		if strings.Contains(strings.ToLower(ex.Title), query) {
			return "example:" + ex.Title
		}
	}
	return ""
}

// RenderExamples serializes every example of the named component with opts.
func (q *QueryService) RenderExamples(name string, opts jsx.Options) ([]RenderedExample, error) {
	comp, ok := q.GetComponent(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, name)
	}
	out := make([]RenderedExample, 0, len(comp.Examples))
	for _, ex := range comp.Examples {
		out = append(out, q.Render(comp, ex, opts))
	}
	return out, nil
}

// Render serializes one example of comp.
func (q *QueryService) Render(comp *Component, ex Example, opts jsx.Options) RenderedExample {
	stmts := q.Index.ImportsFor(ex.Element)
	imports := make([]string, len(stmts))
	for i, s := range stmts {
		imports[i] = s.String()
	}
	return RenderedExample{
		Component:   comp.Name,
		Title:       ex.Title,
		Slug:        Slug(ex.Title),
		Description: ex.Description,
		Imports:     imports,
		Code:        jsx.SerializeElement(ex.Element, opts),
	}
}
