package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Emit renders n in the OpenAPI subset accepted as a Gemini responseSchema.
func Emit(n *Node) map[string]any {
	if n == nil {
		return nil
	}

	out := map[string]any{"type": strings.ToUpper(string(n.Type))}
	if n.Description != "" {
		out["description"] = n.Description
	}

	switch n.Type {
	case Object:
		props := make(map[string]any, len(n.Fields))
		order := make([]string, 0, len(n.Fields))
		var required []string
		for _, f := range n.Fields {
			props[f.Name] = Emit(f.Node)
			order = append(order, f.Name)
			if f.Required {
				required = append(required, f.Name)
			}
		}
		out["properties"] = props
		out["propertyOrdering"] = order
		if len(required) > 0 {
			out["required"] = required
		}
	case Array:
		out["items"] = Emit(n.Items)
		if n.MinLen > 0 {
			out["minItems"] = n.MinLen
		}
		if n.MaxLen > 0 {
			out["maxItems"] = n.MaxLen
		}
	case Integer, Number:
		if n.Min != nil {
			out["minimum"] = *n.Min
		}
		if n.Max != nil {
			out["maximum"] = *n.Max
		}
	case String:
		if len(n.Enum) > 0 {
			out["format"] = "enum"
			out["enum"] = n.Enum
		}
	}
	return out
}

// Outline renders n as an indented field list for embedding in a prompt.
func Outline(n *Node) string {
	var b strings.Builder
	outline(&b, n, 0)
	return strings.TrimRight(b.String(), "\n")
}

func outline(b *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}
	switch n.Type {
	case Object:
		for _, f := range n.Fields {
			b.WriteString(strings.Repeat("  ", depth))
			fmt.Fprintf(b, "- %s (%s)", f.Name, describe(f.Node, f.Required))
			if f.Node.Description != "" {
				b.WriteString(": " + f.Node.Description)
			}
			b.WriteByte('\n')
			outline(b, f.Node, depth+1)
		}
	case Array:
		if n.Items != nil && n.Items.Type == Object {
			outline(b, n.Items, depth)
		}
	}
}

func describe(n *Node, required bool) string {
	parts := []string{typeName(n)}
	if required {
		parts = append(parts, "required")
	}

	switch n.Type {
	case Integer, Number:
		if n.Min != nil && n.Max != nil {
			parts = append(parts, formatFloat(*n.Min)+"-"+formatFloat(*n.Max))
		}
	case String:
		switch {
		case len(n.Enum) > 0:
			parts = append(parts, "one of: "+strings.Join(n.Enum, " | "))
		case n.Digits && n.Unit == "":
			parts = append(parts, "digits only")
		case n.Digits:
			parts = append(parts, fmt.Sprintf("digits followed by %q", n.Unit))
		case n.MaxLen > 0:
			parts = append(parts, fmt.Sprintf("%d-%d chars", n.MinLen, n.MaxLen))
		}
	case Array:
		if n.MaxLen > 0 {
			parts = append(parts, fmt.Sprintf("%d-%d items", n.MinLen, n.MaxLen))
		}
	}
	return strings.Join(parts, ", ")
}

func typeName(n *Node) string {
	if n.Type == Array && n.Items != nil {
		return "array of " + string(n.Items.Type)
	}
	return string(n.Type)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
