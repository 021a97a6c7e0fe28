package jsx

// Type identifies what an element renders: a primitive markup tag or a
// component.
type Type struct {
	// Tag is used verbatim when Component is nil.
	Tag       string
	Component *ComponentType
}

// ComponentType describes a component used as an element type. Name
// resolution prefers DisplayName, then Name, then a guess from Source.
type ComponentType struct {
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Tag returns a primitive tag type.
func Tag(name string) Type { return Type{Tag: name} }

// Component returns a component type.
func Component(c ComponentType) Type { return Type{Component: &c} }

// Element is a node of the tree being serialized.
type Element struct {
	Type  Type
	Props *Object
	// Children in document order. When nil, a "children" prop is used
	// instead, matching how props.children carries them.
	Children []Value
}

// New builds an element.
func New(t Type, props *Object, children ...Value) *Element {
	return &Element{Type: t, Props: props, Children: children}
}

// Attr is one name/value pair for Attrs.
type Attr struct {
	Name  string
	Value Value
}

// A is shorthand for an Attr.
func A(name string, v Value) Attr { return Attr{Name: name, Value: v} }

// Attrs builds an Object from pairs, preserving their order.
func Attrs(pairs ...Attr) *Object {
	o := NewObject()
	for _, p := range pairs {
		o.Set(p.Name, p.Value)
	}
	return o
}

// Prop returns the named prop, or undefined.
func (e *Element) Prop(name string) Value {
	if e == nil || e.Props == nil {
		return Undefined()
	}
	v, _ := e.Props.Get(name)
	return v
}

// childValues returns the element's children flattened one level deep the
// way fragments of arrays render, without filtering.
func (e *Element) childValues() []Value {
	src := e.Children
	if src == nil {
		v := e.Prop("children")
		switch v.kind {
		case KindUndefined, KindNull:
			return nil
		case KindArray:
			src = v.arr
		default:
			src = []Value{v}
		}
	}
	out := make([]Value, 0, len(src))
	for _, c := range src {
		if c.kind == KindArray {
			out = append(out, c.arr...)
			continue
		}
		out = append(out, c)
	}
	return out
}

// renderableChildren drops children that produce no output: undefined,
// null and booleans.
func (e *Element) renderableChildren() []Value {
	all := e.childValues()
	out := make([]Value, 0, len(all))
	for _, c := range all {
		switch c.kind {
		case KindUndefined, KindNull, KindBool:
			continue
		}
		out = append(out, c)
	}
	return out
}

// Walk visits e and every element reachable from it, depth first: children
// and element-valued props (including those nested in arrays and objects).
// Returning false from fn stops the descent below that element.
func (e *Element) Walk(fn func(*Element) bool) {
	if e == nil || !fn(e) {
		return
	}
	if e.Props != nil {
		for pair := e.Props.Oldest(); pair != nil; pair = pair.Next() {
			// children are walked below, or never rendered when
			// Children is set.
			if pair.Key == "children" {
				continue
			}
			walkValue(pair.Value, fn)
		}
	}
	for _, c := range e.childValues() {
		walkValue(c, fn)
	}
}

func walkValue(v Value, fn func(*Element) bool) {
	switch v.kind {
	case KindElement:
		v.el.Walk(fn)
	case KindArray:
		for _, item := range v.arr {
			walkValue(item, fn)
		}
	case KindObject:
		for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
			walkValue(pair.Value, fn)
		}
	}
}
