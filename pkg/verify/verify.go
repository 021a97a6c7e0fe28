// Package verify re-parses serialized JSX with tree-sitter and checks that
// it reconstructs the element it came from: same tag, same emitted attribute
// names, same child text, same element children.
package verify

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gnana997/uishowcase/pkg/jsx"
	"github.com/gnana997/uishowcase/pkg/parser"
)

// Mismatch describes one difference between an element and its parsed
// serialization.
type Mismatch struct {
	Path  string `json:"path"`
	Field string `json:"field"` // "syntax", "root", "tag", "attrs", "text", "children", "imports"
	Want  string `json:"want"`
	Got   string `json:"got"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s: want %q, got %q", m.Path, m.Field, m.Want, m.Got)
}

// Result is the outcome of a round-trip check.
type Result struct {
	Code       string     `json:"code"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// OK reports whether the round trip matched.
func (r *Result) OK() bool { return len(r.Mismatches) == 0 }

// Verifier checks serializer output by parsing it back.
type Verifier struct {
	parser *parser.Manager
	logger *slog.Logger
}

// NewVerifier creates a Verifier using pm for parsing.
func NewVerifier(pm *parser.Manager, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{parser: pm, logger: logger}
}

// Check serializes el with opts and compares the parsed result against el.
func (v *Verifier) Check(el *jsx.Element, opts jsx.Options) (*Result, error) {
	return v.CheckCode(jsx.SerializeElement(el, opts), el)
}

// CheckCode compares already serialized code against el. An error is
// returned only when parsing could not run at all.
func (v *Verifier) CheckCode(code string, el *jsx.Element) (*Result, error) {
	source := []byte(code)
	tree, err := v.parser.Parse(source, parser.LanguageTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to parse serialized element: %w", err)
	}
	defer tree.Close()

	result := &Result{Code: code}
	if tree.RootNode().HasError() {
		result.Mismatches = append(result.Mismatches, Mismatch{Path: "/", Field: "syntax", Want: "valid TSX", Got: "parse errors"})
		return result, nil
	}

	ext := Extract(tree, source)
	if len(ext.Elements) != 1 {
		result.Mismatches = append(result.Mismatches, Mismatch{
			Path: "/", Field: "root", Want: "1 element", Got: fmt.Sprintf("%d elements", len(ext.Elements)),
		})
		return result, nil
	}
	result.Mismatches = Compare(el, ext.Elements[0])
	if !result.OK() {
		v.logger.Debug("round trip mismatch", "tag", jsx.TagName(el.Type), "mismatches", len(result.Mismatches))
	}
	return result, nil
}

// CheckImports parses a full sample (import block plus code) and reports
// every component that no import binds: element tags and attribute values
// that are a bare component reference (icon={SearchIcon}). Lowercase names
// are intrinsic or local and skipped; for member names like Card.Header
// only Card must be bound.
func (v *Verifier) CheckImports(sample string) ([]Mismatch, error) {
	source := []byte(sample)
	tree, err := v.parser.Parse(source, parser.LanguageTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sample: %w", err)
	}
	defer tree.Close()

	ext := Extract(tree, source)
	bound := make(map[string]bool)
	for _, imp := range ext.Imports {
		if imp.DefaultName != "" {
			bound[imp.DefaultName] = true
		}
		for _, name := range imp.Names {
			bound[name] = true
		}
	}

	var missing []Mismatch
	seen := make(map[string]bool)
	var visit func(n *Node)
	need := func(n *Node, name string) {
		root, _, _ := strings.Cut(name, ".")
		if isComponentName(root) && !bound[root] && !seen[root] {
			seen[root] = true
			missing = append(missing, Mismatch{
				Path:  fmt.Sprintf("%d:%d", n.Line, n.Column),
				Field: "imports",
				Want:  root,
				Got:   "not imported",
			})
		}
	}
	visit = func(n *Node) {
		need(n, n.Tag)
		for _, a := range n.Attrs {
			if a.Kind == AttrExpression && isReference(strings.TrimSpace(a.Value)) {
				need(n, strings.TrimSpace(a.Value))
			}
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, n := range ext.Elements {
		visit(n)
	}
	return missing, nil
}

// Compare reports differences between el and a node parsed from its
// serialization.
func Compare(el *jsx.Element, n *Node) []Mismatch {
	var out []Mismatch
	compare(el, n, "/"+jsx.TagName(el.Type), &out)
	return out
}

func compare(el *jsx.Element, n *Node, path string, out *[]Mismatch) {
	if tag := jsx.TagName(el.Type); tag != n.Tag {
		*out = append(*out, Mismatch{Path: path, Field: "tag", Want: tag, Got: n.Tag})
		return
	}

	want := ExpectedAttrNames(el)
	got := n.AttrNames()
	sort.Strings(got)
	if strings.Join(want, " ") != strings.Join(got, " ") {
		*out = append(*out, Mismatch{Path: path, Field: "attrs", Want: strings.Join(want, " "), Got: strings.Join(got, " ")})
	}

	text, elements := expectedChildren(el)
	if text != n.Text {
		*out = append(*out, Mismatch{Path: path, Field: "text", Want: text, Got: n.Text})
	}
	if len(elements) != len(n.Children) {
		*out = append(*out, Mismatch{
			Path: path, Field: "children",
			Want: fmt.Sprintf("%d elements", len(elements)),
			Got:  fmt.Sprintf("%d elements", len(n.Children)),
		})
		return
	}
	for i, child := range elements {
		compare(child, n.Children[i], fmt.Sprintf("%s/%d:%s", path, i, jsx.TagName(child.Type)), out)
	}
}

// ExpectedAttrNames lists, sorted, the prop names the serializer emits for
// el: everything but children, key, undefined and false.
func ExpectedAttrNames(el *jsx.Element) []string {
	names := []string{}
	if el.Props == nil {
		return names
	}
	for pair := el.Props.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == "children" || pair.Key == "key" {
			continue
		}
		v := pair.Value
		if v.IsUndefined() || (v.Kind() == jsx.KindBool && !v.AsBool()) {
			continue
		}
		names = append(names, pair.Key)
	}
	sort.Strings(names)
	return names
}

// expectedChildren splits el's children into collapsed text and element
// children, mirroring what a JSX parser recovers.
func expectedChildren(el *jsx.Element) (string, []*jsx.Element) {
	var text []string
	var elements []*jsx.Element
	for _, c := range childList(el) {
		switch c.Kind() {
		case jsx.KindString, jsx.KindNumber:
			text = append(text, c.String())
		case jsx.KindElement:
			elements = append(elements, c.AsElement())
		}
	}
	return CollapseText(strings.Join(text, " ")), elements
}

func childList(el *jsx.Element) []jsx.Value {
	src := el.Children
	if src == nil {
		v := el.Prop("children")
		if v.Kind() == jsx.KindArray {
			src = v.AsArray()
		} else {
			src = []jsx.Value{v}
		}
	}
	var out []jsx.Value
	for _, c := range src {
		if c.Kind() == jsx.KindArray {
			out = append(out, c.AsArray()...)
			continue
		}
		out = append(out, c)
	}
	return out
}

func isComponentName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// isReference reports whether expr is a plain identifier or member chain
// (SearchIcon, Icons.Search) rather than a literal or call.
func isReference(expr string) bool {
	if expr == "" {
		return false
	}
	for _, part := range strings.Split(expr, ".") {
		if part == "" {
			return false
		}
		for i, r := range part {
			switch {
			case r == '_' || r == '$' || unicode.IsLetter(r):
			case i > 0 && unicode.IsDigit(r):
			default:
				return false
			}
		}
	}
	return true
}
