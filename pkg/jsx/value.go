package jsx

import (
	"math"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind is the value discriminator. The set is closed: every switch over a
// Kind in this package handles all of them.
type Kind uint8

const (
	KindUndefined Kind = iota // absent value; the zero Value
	KindNull                  // explicit null
	KindBool
	KindString
	KindNumber
	KindFunc    // function-like reference, rendered as an identifier
	KindElement // nested element
	KindArray   // ordered sequence of values
	KindObject  // plain string-keyed mapping, insertion ordered
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindFunc:
		return "func"
	case KindElement:
		return "element"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Object is an insertion-ordered mapping used for element props and for
// plain object values.
type Object = orderedmap.OrderedMap[string, Value]

// NewObject returns an empty Object.
func NewObject() *Object {
	return orderedmap.New[string, Value]()
}

// FuncRef is a reference to a function-like value (event handler, icon
// component). Only its name ever reaches the output.
type FuncRef struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	// Source is the stringified function, used only for string coercion.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Value is a tagged variant over the kinds a prop or child can take.
// The zero Value is undefined.
type Value struct {
	kind Kind
	b    bool
	s    string
	n    float64
	fn   *FuncRef
	el   *Element
	arr  []Value
	obj  *orderedmap.OrderedMap[string, Value]
}

// Undefined returns the undefined value.
func Undefined() Value { return Value{} }

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Str wraps a string.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// Num wraps a number.
func Num(n float64) Value { return Value{kind: KindNumber, n: n} }

// Int wraps an integer as a number.
func Int(n int) Value { return Num(float64(n)) }

// Func wraps a function reference.
func Func(f FuncRef) Value { return Value{kind: KindFunc, fn: &f} }

// Node wraps an element. A nil element becomes null.
func Node(el *Element) Value {
	if el == nil {
		return Null()
	}
	return Value{kind: KindElement, el: el}
}

// Array wraps a sequence of values.
func Array(items ...Value) Value { return Value{kind: KindArray, arr: items} }

// Obj wraps an object. A nil object becomes an empty one.
func Obj(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// Of converts common Go values into a Value. Unsupported types become
// undefined.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case bool:
		return Bool(x)
	case string:
		return Str(x)
	case int:
		return Int(x)
	case int32:
		return Num(float64(x))
	case int64:
		return Num(float64(x))
	case float32:
		return Num(float64(x))
	case float64:
		return Num(x)
	case FuncRef:
		return Func(x)
	case *Element:
		return Node(x)
	case *Object:
		return Obj(x)
	case []Value:
		return Array(x...)
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = Of(item)
		}
		return Array(items...)
	case []string:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = Str(item)
		}
		return Array(items...)
	default:
		return Undefined()
	}
}

// Kind reports the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether v is undefined.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// AsBool returns the boolean payload (false for other kinds).
func (v Value) AsBool() bool { return v.kind == KindBool && v.b }

// AsString returns the string payload ("" for other kinds).
func (v Value) AsString() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// AsNumber returns the numeric payload (0 for other kinds).
func (v Value) AsNumber() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.n
}

// AsFunc returns the function reference, or nil.
func (v Value) AsFunc() *FuncRef {
	if v.kind != KindFunc {
		return nil
	}
	return v.fn
}

// AsElement returns the element, or nil.
func (v Value) AsElement() *Element {
	if v.kind != KindElement {
		return nil
	}
	return v.el
}

// AsArray returns the items of an array value, or nil.
func (v Value) AsArray() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// AsObject returns the object payload, or nil.
func (v Value) AsObject() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// String coerces the value the way JavaScript's String(v) does.
func (v Value) String() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	case KindNumber:
		return formatNumber(v.n)
	case KindFunc:
		if v.fn.Source != "" {
			return v.fn.Source
		}
		return anonymousFunc
	case KindElement, KindObject:
		return "[object Object]"
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, item := range v.arr {
			if item.kind == KindUndefined || item.kind == KindNull {
				continue
			}
			parts[i] = item.String()
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

// JSON returns the JSON.stringify form of the value. ok is false for values
// with no JSON representation (undefined and functions).
func (v Value) JSON() (string, bool) {
	var b strings.Builder
	if !writeJSON(&b, v) {
		return "", false
	}
	return b.String(), true
}

func writeJSON(b *strings.Builder, v Value) bool {
	switch v.kind {
	case KindUndefined, KindFunc:
		return false
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	case KindString:
		writeJSONString(b, v.s)
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			b.WriteString("null")
		} else {
			b.WriteString(formatNumber(v.n))
		}
	case KindArray:
		b.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				b.WriteByte(',')
			}
			if !writeJSON(b, item) {
				b.WriteString("null")
			}
		}
		b.WriteByte(']')
	case KindObject:
		writeJSONObject(b, v.obj, nil)
	case KindElement:
		writeJSONElement(b, v.el)
	}
	return true
}

func writeJSONObject(b *strings.Builder, obj *Object, extra func(first bool)) {
	b.WriteByte('{')
	first := true
	if obj != nil {
		for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value.kind == KindUndefined || pair.Value.kind == KindFunc {
				continue
			}
			if !first {
				b.WriteByte(',')
			}
			first = false
			writeJSONString(b, pair.Key)
			b.WriteByte(':')
			writeJSON(b, pair.Value)
		}
	}
	if extra != nil {
		extra(first)
	}
	b.WriteByte('}')
}

// writeJSONElement mirrors how a rendered element looks after
// JSON.stringify: the type survives only for primitive tags, and children
// live inside props.
func writeJSONElement(b *strings.Builder, el *Element) {
	b.WriteByte('{')
	if el.Type.Component == nil {
		b.WriteString(`"type":`)
		writeJSONString(b, el.Type.Tag)
		b.WriteByte(',')
	}
	b.WriteString(`"key":null,"props":`)
	writeJSONObject(b, el.Props, func(first bool) {
		children := el.childValues()
		if len(children) == 0 {
			return
		}
		if !first {
			b.WriteByte(',')
		}
		b.WriteString(`"children":`)
		if len(children) == 1 {
			if !writeJSON(b, children[0]) {
				b.WriteString("null")
			}
		} else {
			writeJSON(b, Array(children...))
		}
	})
	b.WriteByte('}')
}

const hexDigits = "0123456789abcdef"

// writeJSONString quotes s with JSON.stringify escaping rules: no HTML
// escaping, control characters as short escapes or \u00XX.
func writeJSONString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte(hexDigits[r>>4])
				b.WriteByte(hexDigits[r&0xF])
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

// formatNumber renders f with JavaScript Number#toString semantics.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
