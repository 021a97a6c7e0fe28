package verify

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// AttrKind tells how an attribute was written.
type AttrKind int

const (
	AttrBare       AttrKind = iota // <Button disabled>
	AttrString                     // variant="outline"
	AttrExpression                 // value={65}
)

// Attr is one parsed JSX attribute.
type Attr struct {
	Name string   `json:"name"`
	Kind AttrKind `json:"kind"`
	// Value is the string content for AttrString and the expression source
	// without braces for AttrExpression.
	Value string `json:"value,omitempty"`
}

// Node is a JSX element recovered from source.
type Node struct {
	Tag   string `json:"tag"`
	Attrs []Attr `json:"attrs,omitempty"`
	// Text is the element's direct text content, whitespace collapsed the
	// way JSX collapses it.
	Text        string  `json:"text,omitempty"`
	Children    []*Node `json:"children,omitempty"`
	SelfClosing bool    `json:"self_closing"`
	Line        int     `json:"line"`   // 1-based
	Column      int     `json:"column"` // 1-based
}

// AttrNames returns attribute names in source order.
func (n *Node) AttrNames() []string {
	names := make([]string, len(n.Attrs))
	for i, a := range n.Attrs {
		names[i] = a.Name
	}
	return names
}

// Import is one import statement.
type Import struct {
	Source      string   `json:"source"`
	Names       []string `json:"names,omitempty"`
	DefaultName string   `json:"default_name,omitempty"`
	Line        int      `json:"line"`
}

// Extraction holds the top-level elements and imports of a source file.
type Extraction struct {
	Elements []*Node
	Imports  []Import
}

// Extract walks a tree-sitter tree and returns its outermost JSX elements
// (with their element children nested) and its imports.
func Extract(tree *ts.Tree, source []byte) *Extraction {
	result := &Extraction{}
	root := tree.RootNode()
	extractImports(root, source, result)
	collectElements(root, source, &result.Elements)
	return result
}

func extractImports(root *ts.Node, source []byte, result *Extraction) {
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child.Kind() != "import_statement" {
			continue
		}
		info := Import{Line: int(child.StartPosition().Row) + 1}
		for j := uint(0); j < child.ChildCount(); j++ {
			part := child.Child(j)
			switch part.Kind() {
			case "string":
				info.Source = stringContent(part, source)
			case "import_clause":
				importClause(part, source, &info)
			}
		}
		if info.Source != "" {
			result.Imports = append(result.Imports, info)
		}
	}
}

func importClause(node *ts.Node, source []byte, info *Import) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "identifier":
			info.DefaultName = child.Utf8Text(source)
		case "named_imports":
			for j := uint(0); j < child.ChildCount(); j++ {
				spec := child.Child(j)
				if spec.Kind() != "import_specifier" {
					continue
				}
				// `{ A as B }` binds B locally.
				name := spec.ChildByFieldName("alias")
				if name == nil {
					name = spec.ChildByFieldName("name")
				}
				if name != nil {
					info.Names = append(info.Names, name.Utf8Text(source))
				}
			}
		}
	}
}

// collectElements appends every outermost JSX element under node.
func collectElements(node *ts.Node, source []byte, out *[]*Node) {
	switch node.Kind() {
	case "jsx_element":
		*out = append(*out, element(node, source))
		return
	case "jsx_self_closing_element":
		*out = append(*out, selfClosing(node, source))
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		collectElements(node.Child(i), source, out)
	}
}

func element(node *ts.Node, source []byte) *Node {
	n := &Node{
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
	var text []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "jsx_opening_element":
			n.Tag, n.Attrs = tagAndAttrs(child, source)
		case "jsx_text":
			text = append(text, child.Utf8Text(source))
		case "jsx_element":
			n.Children = append(n.Children, element(child, source))
		case "jsx_self_closing_element":
			n.Children = append(n.Children, selfClosing(child, source))
		case "jsx_expression":
			// {"literal"} and {42} children count as text
			text = append(text, strings.Trim(child.Utf8Text(source), "{}"))
		}
	}
	n.Text = CollapseText(strings.Join(text, " "))
	return n
}

func selfClosing(node *ts.Node, source []byte) *Node {
	tag, attrs := tagAndAttrs(node, source)
	return &Node{
		Tag:         tag,
		Attrs:       attrs,
		SelfClosing: true,
		Line:        int(node.StartPosition().Row) + 1,
		Column:      int(node.StartPosition().Column) + 1,
	}
}

func tagAndAttrs(node *ts.Node, source []byte) (string, []Attr) {
	var tag string
	var attrs []Attr
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "identifier", "member_expression", "nested_identifier", "jsx_namespace_name":
			if tag == "" {
				tag = child.Utf8Text(source)
			}
		case "jsx_attribute":
			if a, ok := attribute(child, source); ok {
				attrs = append(attrs, a)
			}
		}
	}
	return tag, attrs
}

func attribute(node *ts.Node, source []byte) (Attr, bool) {
	a := Attr{Kind: AttrBare}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_identifier", "jsx_namespace_name":
			a.Name = child.Utf8Text(source)
		case "string":
			a.Kind = AttrString
			a.Value = stringContent(child, source)
		case "jsx_expression":
			a.Kind = AttrExpression
			text := child.Utf8Text(source)
			a.Value = strings.TrimSuffix(strings.TrimPrefix(text, "{"), "}")
		case "jsx_element", "jsx_self_closing_element":
			a.Kind = AttrExpression
			a.Value = child.Utf8Text(source)
		}
	}
	return a, a.Name != ""
}

// stringContent returns the text inside a string node without quotes.
func stringContent(node *ts.Node, source []byte) string {
	text := node.Utf8Text(source)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

// CollapseText applies JSX whitespace collapsing: runs of whitespace,
// newlines included, become single spaces and the ends are trimmed.
func CollapseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
