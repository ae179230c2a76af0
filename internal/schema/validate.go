package schema

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

// ValidationError names the first value that broke the schema.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Validate checks v against n without modifying it. Run Normalize first;
// Validate never coerces.
func Validate(n *Node, v any) error {
	return validate(n, v, "")
}

func validate(n *Node, v any, path string) error {
	if n == nil {
		return nil
	}

	switch n.Type {
	case Object:
		return validateObject(n, v, path)
	case Array:
		return validateArray(n, v, path)
	case String:
		return validateString(n, v, path)
	case Integer, Number:
		return validateNumber(n, v, path)
	case Boolean:
		if _, ok := v.(bool); !ok {
			return fail(path, "must be a boolean")
		}
	}
	return nil
}

func validateObject(n *Node, v any, path string) error {
	m, ok := v.(map[string]any)
	if !ok {
		return fail(path, "must be an object")
	}

	for _, f := range n.Fields {
		child := join(path, f.Name)
		val, present := m[f.Name]
		if !present || val == nil {
			if f.Required {
				return fail(child, "is required")
			}
			continue
		}
		if err := validate(f.Node, val, child); err != nil {
			return err
		}
	}
	return nil
}

func validateArray(n *Node, v any, path string) error {
	items, ok := v.([]any)
	if !ok {
		return fail(path, "must be an array")
	}
	if len(items) < n.MinLen {
		return fail(path, fmt.Sprintf("must contain at least %d items", n.MinLen))
	}
	if n.MaxLen > 0 && len(items) > n.MaxLen {
		return fail(path, fmt.Sprintf("must contain at most %d items", n.MaxLen))
	}

	for i, item := range items {
		at := path + "[" + strconv.Itoa(i) + "]"
		if err := validate(n.Items, item, at); err != nil {
			return err
		}
		if n.Sequence == "" {
			continue
		}
		m, _ := item.(map[string]any)
		if pos, ok := toFloat(m[n.Sequence]); !ok || pos != float64(i+1) {
			return fail(join(at, n.Sequence), fmt.Sprintf("must be %d", i+1))
		}
	}
	return nil
}

func validateString(n *Node, v any, path string) error {
	s, ok := v.(string)
	if !ok {
		return fail(path, "must be a string")
	}

	length := utf8.RuneCountInString(s)
	if length < n.MinLen {
		return fail(path, fmt.Sprintf("must be at least %d characters", n.MinLen))
	}
	if n.MaxLen > 0 && length > n.MaxLen {
		return fail(path, fmt.Sprintf("must be at most %d characters", n.MaxLen))
	}

	if len(n.Enum) > 0 {
		found := false
		for _, e := range n.Enum {
			if s == e {
				found = true
				break
			}
		}
		if !found {
			return fail(path, fmt.Sprintf("must be one of %q", n.Enum))
		}
	}

	if n.Digits && !isQuantity(s, n.Unit) {
		return fail(path, fmt.Sprintf("must be a whole number followed by %q", n.Unit))
	}

	if n.Pattern != nil && !n.Pattern.MatchString(s) {
		return fail(path, "has an invalid format")
	}
	return nil
}

func validateNumber(n *Node, v any, path string) error {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return fail(path, "must be a number")
	}
	if n.Type == Integer && f != math.Trunc(f) {
		return fail(path, "must be an integer")
	}
	if n.Min != nil && f < *n.Min {
		return fail(path, "must be at least "+strconv.FormatFloat(*n.Min, 'f', -1, 64))
	}
	if n.Max != nil && f > *n.Max {
		return fail(path, "must be at most "+strconv.FormatFloat(*n.Max, 'f', -1, 64))
	}
	return nil
}

func isQuantity(s, unit string) bool {
	if len(s) <= len(unit) || s[len(s)-len(unit):] != unit {
		return false
	}
	digits := s[:len(s)-len(unit)]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func fail(path, reason string) error {
	return &ValidationError{Path: path, Reason: reason}
}
