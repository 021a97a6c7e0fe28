package jsx

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Markers recognized in element definition documents. A mapping whose only
// key is one of these is not a plain object.
const (
	markerFunc      = "$func"
	markerElement   = "$element"
	markerUndefined = "$undefined"
)

// ErrEmptyDocument is returned when a definition document has no content.
var ErrEmptyDocument = errors.New("jsx: empty element document")

// DecodeElementYAML decodes an element definition written in YAML:
//
//	type: Button
//	props:
//	  variant: outline
//	  onClick: {$func: handleClick}
//	children: Save
func DecodeElementYAML(data []byte) (*Element, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("jsx: parse element document: %w", err)
	}
	return decodeElementDocument(&node)
}

// DecodeElementJSON decodes an element definition written in JSON. JSON is
// read through the YAML decoder, which keeps object key order.
func DecodeElementJSON(data []byte) (*Element, error) {
	return DecodeElementYAML(data)
}

func decodeElementDocument(node *yaml.Node) (*Element, error) {
	if node.Kind == 0 {
		return nil, ErrEmptyDocument
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, ErrEmptyDocument
		}
		node = node.Content[0]
	}
	return decodeElement(node, "")
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *Element) UnmarshalYAML(node *yaml.Node) error {
	el, err := decodeElement(node, "")
	if err != nil {
		return err
	}
	*e = *el
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Element) UnmarshalJSON(data []byte) error {
	el, err := DecodeElementJSON(data)
	if err != nil {
		return err
	}
	*e = *el
	return nil
}

func decodeElement(node *yaml.Node, path string) (*Element, error) {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: element must be a mapping, got %s", pathOrRoot(path), nodeKindName(node))
	}

	el := &Element{}
	sawType := false
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, resolveAlias(node.Content[i+1])
		switch key {
		case "type":
			t, err := decodeType(val, joinPath(path, "type"))
			if err != nil {
				return nil, err
			}
			el.Type = t
			sawType = true
		case "props":
			props, err := decodeObject(val, joinPath(path, "props"))
			if err != nil {
				return nil, err
			}
			el.Props = props
		case "children":
			children, err := decodeChildren(val, joinPath(path, "children"))
			if err != nil {
				return nil, err
			}
			el.Children = children
		case "key":
			v, err := decodeValue(val, joinPath(path, "key"))
			if err != nil {
				return nil, err
			}
			if el.Props == nil {
				el.Props = NewObject()
			}
			el.Props.Set("key", v)
		default:
			return nil, fmt.Errorf("%s: unknown element field %q", pathOrRoot(path), key)
		}
	}
	if !sawType {
		return nil, fmt.Errorf("%s: element is missing a type", pathOrRoot(path))
	}
	return el, nil
}

func decodeType(node *yaml.Node, path string) (Type, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return Tag(node.Value), nil
	case yaml.MappingNode:
		var c ComponentType
		if err := node.Decode(&c); err != nil {
			return Type{}, fmt.Errorf("%s: %w", path, err)
		}
		return Component(c), nil
	default:
		return Type{}, fmt.Errorf("%s: type must be a string or a component mapping, got %s", path, nodeKindName(node))
	}
}

func decodeChildren(node *yaml.Node, path string) ([]Value, error) {
	switch node.Kind {
	case yaml.SequenceNode:
		children := make([]Value, 0, len(node.Content))
		for i, item := range node.Content {
			v, err := decodeChild(resolveAlias(item), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			children = append(children, v)
		}
		return children, nil
	default:
		v, err := decodeChild(node, path)
		if err != nil {
			return nil, err
		}
		if v.kind == KindNull {
			return nil, nil
		}
		return []Value{v}, nil
	}
}

// decodeChild treats mappings as elements; everything else decodes as a
// value.
func decodeChild(node *yaml.Node, path string) (Value, error) {
	if node.Kind == yaml.MappingNode && !isMarker(node) {
		el, err := decodeElement(node, path)
		if err != nil {
			return Value{}, err
		}
		return Node(el), nil
	}
	if node.Kind == yaml.SequenceNode {
		items, err := decodeChildren(node, path)
		if err != nil {
			return Value{}, err
		}
		return Array(items...), nil
	}
	return decodeValue(node, path)
}

func decodeValue(node *yaml.Node, path string) (Value, error) {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.ScalarNode:
		return decodeScalar(node, path)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for i, item := range node.Content {
			v, err := decodeValue(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Array(items...), nil
	case yaml.MappingNode:
		if isMarker(node) {
			return decodeMarker(node, path)
		}
		obj, err := decodeObject(node, path)
		if err != nil {
			return Value{}, err
		}
		return Obj(obj), nil
	default:
		return Value{}, fmt.Errorf("%s: unsupported node %s", path, nodeKindName(node))
	}
}

func decodeScalar(node *yaml.Node, path string) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("%s: %w", path, err)
		}
		return Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("%s: %w", path, err)
		}
		return Num(f), nil
	default:
		return Str(node.Value), nil
	}
}

func decodeObject(node *yaml.Node, path string) (*Object, error) {
	node = resolveAlias(node)
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: expected a mapping, got %s", path, nodeKindName(node))
	}
	obj := NewObject()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		v, err := decodeValue(node.Content[i+1], joinPath(path, key))
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	return obj, nil
}

func isMarker(node *yaml.Node) bool {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return false
	}
	switch node.Content[0].Value {
	case markerFunc, markerElement, markerUndefined:
		return true
	}
	return false
}

func decodeMarker(node *yaml.Node, path string) (Value, error) {
	marker, body := node.Content[0].Value, resolveAlias(node.Content[1])
	switch marker {
	case markerFunc:
		if body.Kind == yaml.ScalarNode {
			return Func(FuncRef{Name: body.Value}), nil
		}
		var f FuncRef
		if err := body.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("%s: %w", path, err)
		}
		return Func(f), nil
	case markerElement:
		el, err := decodeElement(body, path)
		if err != nil {
			return Value{}, err
		}
		return Node(el), nil
	default:
		return Undefined(), nil
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func nodeKindName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func pathOrRoot(path string) string {
	if path == "" {
		return "element"
	}
	return path
}
