package jsx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDecodeElementYAML_PreservesPropOrder(t *testing.T) {
	doc := `
type: Button
props:
  variant: outline
  size: 3
  disabled: true
  asChild: false
  value: null
  onClick: {$func: handleClick}
  icon: {$element: {type: ChevronRightIcon}}
  style: {color: red}
  items: [a, 1]
children: Save
`
	el, err := DecodeElementYAML([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "Button", el.Type.Tag)
	var keys []string
	for pair := el.Props.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"variant", "size", "disabled", "asChild", "value", "onClick", "icon", "style", "items"}, keys)
	assert.Equal(t, KindNumber, el.Prop("size").Kind())
	assert.Equal(t, KindNull, el.Prop("value").Kind())
	assert.Equal(t, "handleClick", el.Prop("onClick").AsFunc().Name)
	assert.Equal(t, "ChevronRightIcon", el.Prop("icon").AsElement().Type.Tag)
	assert.Equal(t, KindObject, el.Prop("style").Kind())

	want := `<Button variant="outline" size={3} disabled value={null} onClick={() => {}} icon={<ChevronRightIcon />} style={{ color: "red" }} items={["a", 1]}>` +
		"\n  Save\n</Button>"
	assert.Equal(t, want, SerializeElement(el, DefaultOptions()))
}

func TestDecodeElementYAML_Children(t *testing.T) {
	doc := `
type: Dialog
children:
  - type: DialogTrigger
    props: {asChild: true}
    children:
      type: Button
      children: Open
  - type: DialogContent
    children:
      - type: DialogTitle
        children: Edit profile
      - "Make changes here."
      - 42
      - null
`
	el, err := DecodeElementYAML([]byte(doc))
	require.NoError(t, err)
	require.Len(t, el.Children, 2)

	want := "<Dialog>\n" +
		"  <DialogTrigger asChild><Button>Open</Button></DialogTrigger>\n" +
		"  <DialogContent>\n" +
		"    <DialogTitle>Edit profile</DialogTitle>\n" +
		"    Make changes here.\n" +
		"    42\n" +
		"  </DialogContent>\n" +
		"</Dialog>"
	assert.Equal(t, want, SerializeElement(el, DefaultOptions()))
}

func TestDecodeElementYAML_ComponentType(t *testing.T) {
	el, err := DecodeElementYAML([]byte(`type: {displayName: "Card.Root", name: Card}`))
	require.NoError(t, err)
	require.NotNil(t, el.Type.Component)
	assert.Equal(t, "<Card.Root />", SerializeElement(el, DefaultOptions()))
}

func TestDecodeElementYAML_FuncRefMapping(t *testing.T) {
	el, err := DecodeElementYAML([]byte(`
type: Nav
props:
  render: {$func: {name: render, displayName: NavRenderer}}
  hidden: {$undefined: true}
`))
	require.NoError(t, err)
	assert.Equal(t, "<Nav render={NavRenderer} />", SerializeElement(el, DefaultOptions()))
}

func TestDecodeElementYAML_KeyBecomesProp(t *testing.T) {
	el, err := DecodeElementYAML([]byte(`{type: li, key: row-1, children: a}`))
	require.NoError(t, err)
	assert.Equal(t, "row-1", el.Prop("key").AsString())
	assert.Equal(t, "<li>a</li>", SerializeElement(el, DefaultOptions()))
}

func TestDecodeElementYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"missing type", `props: {a: 1}`, "element is missing a type"},
		{"not a mapping", `- a`, "element must be a mapping"},
		{"unknown field", `{type: a, colour: red}`, `unknown element field "colour"`},
		{"bad props", `{type: a, props: [1]}`, "props: expected a mapping"},
		{"bad nested", `{type: a, props: {icon: {$element: {props: {}}}}}`, "props.icon: element is missing a type"},
		{"bad child", `{type: a, children: [{props: {}}]}`, "children[0]: element is missing a type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeElementYAML([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeElementYAML_Empty(t *testing.T) {
	_, err := DecodeElementYAML([]byte(""))
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestDecodeElementJSON(t *testing.T) {
	doc := `{"type":"Input","props":{"placeholder":"Enter text...","hasError":false,"maxLength":20},"children":null}`
	el, err := DecodeElementJSON([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, `<Input placeholder="Enter text..." maxLength={20} />`, SerializeElement(el, DefaultOptions()))
}

func TestElement_UnmarshalInsideStructs(t *testing.T) {
	type example struct {
		Title   string   `json:"title" yaml:"title"`
		Element *Element `json:"element" yaml:"element"`
	}

	var fromJSON example
	require.NoError(t, json.Unmarshal([]byte(`{"title":"t","element":{"type":"b","children":"x"}}`), &fromJSON))
	assert.Equal(t, "<b>x</b>", SerializeElement(fromJSON.Element, DefaultOptions()))

	var fromYAML example
	require.NoError(t, yaml.Unmarshal([]byte("title: t\nelement:\n  type: i\n  children: y\n"), &fromYAML))
	assert.Equal(t, "<i>y</i>", SerializeElement(fromYAML.Element, DefaultOptions()))
}

func TestElementWalk(t *testing.T) {
	el, err := DecodeElementYAML([]byte(`
type: Card
props:
  action: {$element: {type: Button}}
  slots: [{$element: {type: Badge}}]
children:
  - type: CardHeader
    children: {type: CardTitle, children: T}
`))
	require.NoError(t, err)

	var seen []string
	el.Walk(func(e *Element) bool {
		seen = append(seen, TagName(e.Type))
		return true
	})
	assert.Equal(t, []string{"Card", "Button", "Badge", "CardHeader", "CardTitle"}, seen)
}

func TestElementWalk_SkipsChildrenPropWhenChildrenSet(t *testing.T) {
	el := New(Tag("Card"), Attrs(
		A("children", Node(New(Tag("Stale"), nil))),
		A("footer", Node(New(Tag("CardFooter"), nil))),
	), Node(New(Tag("CardTitle"), nil)))

	var seen []string
	el.Walk(func(e *Element) bool {
		seen = append(seen, TagName(e.Type))
		return true
	})
	assert.Equal(t, []string{"Card", "CardFooter", "CardTitle"}, seen)

	fromProp := New(Tag("Card"), Attrs(A("children", Node(New(Tag("CardTitle"), nil)))))
	seen = nil
	fromProp.Walk(func(e *Element) bool {
		seen = append(seen, TagName(e.Type))
		return true
	})
	assert.Equal(t, []string{"Card", "CardTitle"}, seen, "children prop walked once")
}
