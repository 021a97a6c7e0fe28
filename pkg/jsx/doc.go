// Package jsx turns element trees back into JSX source text for
// documentation samples.
//
// An Element is a type, an ordered prop mapping and children. Prop and
// child values are a closed set of kinds (see Kind); Serialize switches over
// that set exhaustively and never fails: shapes it cannot print precisely
// degrade to a JSON form or a placeholder such as "Component" or
// "() => {}".
//
// Layout follows two rules. Elements without renderable children self-close.
// Elements with children stay on one line unless the rendered children span
// several lines or the attribute string is longer than
// Options.InlineAttrLimit.
//
//	el := jsx.New(jsx.Tag("Button"), jsx.Attrs(jsx.A("disabled", jsx.Bool(true))), jsx.Str("Save"))
//	jsx.SerializeElement(el, jsx.DefaultOptions()) // <Button disabled>Save</Button>
package jsx
