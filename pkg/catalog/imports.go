package catalog

import (
	"sort"
	"strings"

	"github.com/gnana997/uishowcase/pkg/jsx"
)

const iconSuffix = "Icon"

// ImportStatement is one named import line.
type ImportStatement struct {
	Path  string
	Names []string
}

func (s ImportStatement) String() string {
	return `import { ` + strings.Join(s.Names, ", ") + ` } from "` + s.Path + `";`
}

// ImportsFor returns the import statements an element tree needs: every tag
// exported by a catalog component, plus icon tags when the catalog names an
// icon package, grouped by import path. Function props printed by name
// (icon={SearchIcon}) count as uses too. Paths are sorted; names keep
// first-use order. Member names (Card.Header) import their root.
func (idx *CatalogIndex) ImportsFor(el *jsx.Element) []ImportStatement {
	byPath := make(map[string]*ImportStatement)
	seen := make(map[string]bool)

	use := func(ref string) {
		name, _, _ := strings.Cut(ref, ".")
		if seen[name] {
			return
		}
		path := idx.importPath(name)
		if path == "" {
			return
		}
		seen[name] = true
		stmt, ok := byPath[path]
		if !ok {
			stmt = &ImportStatement{Path: path}
			byPath[path] = stmt
		}
		stmt.Names = append(stmt.Names, name)
	}

	el.Walk(func(e *jsx.Element) bool {
		use(jsx.TagName(e.Type))
		if e.Props == nil {
			return true
		}
		// Only direct function props print their name; nested in arrays
		// or objects they serialize as JSON and vanish.
		for pair := e.Props.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Key == "children" || pair.Key == "key" {
				continue
			}
			if f := pair.Value.AsFunc(); f != nil {
				use(jsx.FuncName(f, jsx.DefaultFuncNameSuffixes))
			}
		}
		return true
	})

	out := make([]ImportStatement, 0, len(byPath))
	for _, stmt := range byPath {
		out = append(out, *stmt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (idx *CatalogIndex) importPath(name string) string {
	if owner, ok := idx.Owner[name]; ok {
		return owner.ImportPath
	}
	if idx.IconImport != "" && len(name) > len(iconSuffix) && strings.HasSuffix(name, iconSuffix) {
		return idx.IconImport
	}
	return ""
}
