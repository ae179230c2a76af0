// Package schema describes the JSON documents the model is asked to produce.
//
// A single Node tree is used three ways: Emit renders it as the response
// schema sent with the generation request, Normalize repairs the known quirks
// of model output, and Validate enforces every bound on the repaired value.
package schema

import (
	"regexp"
)

type Type string

const (
	Object  Type = "object"
	Array   Type = "array"
	String  Type = "string"
	Integer Type = "integer"
	Number  Type = "number"
	Boolean Type = "boolean"
)

// Field is a named property of an object node.
type Field struct {
	Name     string
	Aliases  []string
	Required bool
	Node     *Node
}

type Node struct {
	Type        Type
	Description string

	// object
	Fields []Field

	// array
	Items    *Node
	Sequence string // integer field re-indexed 1..n after a stable sort

	// scalars
	Enum    []string
	Pattern *regexp.Regexp
	Lower   bool
	Digits  bool   // whole number rendered as text with Unit appended, e.g. "380g"
	Unit    string
	Min     *float64
	Max     *float64

	// strings count runes, arrays count items; 0 means unbounded
	MinLen int
	MaxLen int

	Default any
}

func NewObject(fields ...Field) *Node {
	return &Node{Type: Object, Fields: fields}
}

func ArrayOf(items *Node) *Node {
	return &Node{Type: Array, Items: items}
}

func Text() *Node { return &Node{Type: String} }

func Int() *Node { return &Node{Type: Integer} }

func Float() *Node { return &Node{Type: Number} }

func Bool() *Node { return &Node{Type: Boolean} }

// Quantity is a string holding a whole number followed by unit, such as
// "42g". Unparseable input collapses to "0"+unit.
func Quantity(unit string) *Node {
	return &Node{Type: String, Digits: true, Unit: unit, Default: "0" + unit}
}

func Required(name string, n *Node, aliases ...string) Field {
	return Field{Name: name, Node: n, Required: true, Aliases: aliases}
}

func Optional(name string, n *Node, aliases ...string) Field {
	return Field{Name: name, Node: n, Aliases: aliases}
}

func (n *Node) Between(min, max float64) *Node {
	n.Min, n.Max = &min, &max
	return n
}

func (n *Node) Length(min, max int) *Node {
	n.MinLen, n.MaxLen = min, max
	return n
}

func (n *Node) OneOf(values ...string) *Node {
	n.Enum = values
	return n
}

func (n *Node) Matching(expr string) *Node {
	n.Pattern = regexp.MustCompile(expr)
	return n
}

func (n *Node) Lowercase() *Node {
	n.Lower = true
	return n
}

func (n *Node) WithDefault(v any) *Node {
	n.Default = v
	return n
}

func (n *Node) Describe(s string) *Node {
	n.Description = s
	return n
}

// SequencedBy marks an array of objects whose field is a 1-based position.
func (n *Node) SequencedBy(field string) *Node {
	n.Sequence = field
	return n
}

// Field returns the named child of an object node, or nil.
func (n *Node) Field(name string) *Node {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Node
		}
	}
	return nil
}
