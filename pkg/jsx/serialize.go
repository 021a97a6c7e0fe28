package jsx

import (
	"strings"
	"unicode/utf16"
)

const (
	// DefaultIndentChar is one level of indentation.
	DefaultIndentChar = "  "

	// DefaultInlineAttrLimit is the attribute string length (leading space
	// included) above which an element with children is laid out on
	// several lines even if its children fit on one.
	DefaultInlineAttrLimit = 40
)

// DefaultFuncNameSuffixes are identifier suffixes that mark a function prop
// as a named reference worth printing (icon components, typically).
var DefaultFuncNameSuffixes = []string{"Icon"}

// Options controls layout. Zero-valued IndentChar, InlineAttrLimit and
// FuncNameSuffixes take their defaults.
type Options struct {
	// Indent is the nesting depth of the top-level element, in units of
	// IndentChar.
	Indent int

	IndentChar string

	// InlineAttrLimit is the attribute length above which children go on
	// their own lines. Zero means DefaultInlineAttrLimit; a negative value
	// means any attribute forces the multi-line layout.
	InlineAttrLimit int

	FuncNameSuffixes []string
}

// DefaultOptions returns the options used for documentation samples.
func DefaultOptions() Options {
	return Options{
		Indent:           0,
		IndentChar:       DefaultIndentChar,
		InlineAttrLimit:  DefaultInlineAttrLimit,
		FuncNameSuffixes: DefaultFuncNameSuffixes,
	}
}

func (o Options) withDefaults() Options {
	if o.IndentChar == "" {
		o.IndentChar = DefaultIndentChar
	}
	switch {
	case o.InlineAttrLimit == 0:
		o.InlineAttrLimit = DefaultInlineAttrLimit
	case o.InlineAttrLimit < 0:
		o.InlineAttrLimit = 0
	}
	if o.FuncNameSuffixes == nil {
		o.FuncNameSuffixes = DefaultFuncNameSuffixes
	}
	if o.Indent < 0 {
		o.Indent = 0
	}
	return o
}

// Serialize renders v as JSX source text. Values that are not elements are
// coerced with Value.String and returned as-is. It never fails and never
// modifies v.
func Serialize(v Value, opts Options) string {
	if v.kind != KindElement {
		return v.String()
	}
	return SerializeElement(v.el, opts)
}

// SerializeElement renders el as JSX source text starting at the column
// implied by opts.Indent, with no trailing newline. A nil element renders
// as "null".
func SerializeElement(el *Element, opts Options) string {
	if el == nil {
		return Null().String()
	}
	p := printer{opts: opts.withDefaults()}
	return p.element(el, p.opts.Indent)
}

type printer struct {
	opts Options
}

func (p printer) pad(depth int) string {
	return strings.Repeat(p.opts.IndentChar, depth)
}

func (p printer) element(el *Element, depth int) string {
	pad := p.pad(depth)
	tag := TagName(el.Type)
	attrs := p.attributes(el.Props)

	children := el.renderableChildren()
	if len(children) == 0 {
		return pad + "<" + tag + attrs + " />"
	}

	childPad := p.pad(depth + 1)
	lines := make([]string, 0, len(children))
	for _, c := range children {
		switch c.kind {
		case KindElement:
			lines = append(lines, p.element(c.el, depth+1))
		case KindString:
			lines = append(lines, childPad+c.s)
		case KindNumber:
			lines = append(lines, childPad+formatNumber(c.n))
		case KindFunc, KindArray, KindObject:
			lines = append(lines, childPad+c.String())
		case KindUndefined, KindNull, KindBool:
			// filtered by renderableChildren
		}
	}
	body := strings.Join(lines, "\n")

	if strings.Contains(body, "\n") || utf16Len(attrs) > p.opts.InlineAttrLimit {
		return pad + "<" + tag + attrs + ">\n" + body + "\n" + pad + "</" + tag + ">"
	}
	return pad + "<" + tag + attrs + ">" + strings.TrimSpace(body) + "</" + tag + ">"
}

// attributes renders props as ` a="x" b={1}`, or "" when nothing is
// emitted.
func (p printer) attributes(props *Object) string {
	if props == nil {
		return ""
	}
	var parts []string
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		key, v := pair.Key, pair.Value
		if key == "children" || key == "key" {
			continue
		}
		switch v.kind {
		case KindUndefined:
			continue
		case KindBool:
			if !v.b {
				continue
			}
			parts = append(parts, key)
		case KindNull:
			parts = append(parts, key+"={null}")
		case KindString:
			parts = append(parts, key+`="`+escapeString(v.s)+`"`)
		case KindNumber:
			parts = append(parts, key+"={"+formatNumber(v.n)+"}")
		case KindFunc:
			parts = append(parts, key+"={"+FuncName(v.fn, p.opts.FuncNameSuffixes)+"}")
		case KindElement:
			parts = append(parts, key+"={"+p.element(v.el, 0)+"}")
		case KindArray:
			parts = append(parts, key+"={"+p.array(v.arr)+"}")
		case KindObject:
			parts = append(parts, key+"={"+p.object(v.obj)+"}")
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

func (p printer) array(items []Value) string {
	parts := make([]string, len(items))
	for i, item := range items {
		switch item.kind {
		case KindString:
			parts[i] = `"` + escapeString(item.s) + `"`
		case KindElement:
			parts[i] = p.element(item.el, 0)
		default:
			// no JSON form joins as an empty slot
			parts[i], _ = item.JSON()
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (p printer) object(obj *Object) string {
	var parts []string
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		v := pair.Value
		switch v.kind {
		case KindUndefined:
			continue
		case KindString:
			parts = append(parts, pair.Key+`: "`+escapeString(v.s)+`"`)
		default:
			s, ok := v.JSON()
			if !ok {
				s = Undefined().String()
			}
			parts = append(parts, pair.Key+": "+s)
		}
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

var stringEscaper = strings.NewReplacer(`"`, `\"`, "\n", `\n`)

// escapeString escapes double quotes and newlines. Backslashes pass through
// unchanged.
func escapeString(s string) string {
	return stringEscaper.Replace(s)
}

// utf16Len is the length of s in UTF-16 code units.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
