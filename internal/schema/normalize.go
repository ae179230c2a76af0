package schema

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	numericPattern = regexp.MustCompile(`-?\d+(?:[.,]\d+)*`)
	keyStripper    = strings.NewReplacer("_", "", "-", "", " ", "", "'", "", "’", "")
)

// Normalize returns a repaired copy of v shaped by n. The input is never
// modified and Normalize(n, Normalize(n, v)) equals Normalize(n, v).
//
// Repairs are limited to: alias and case reconciliation of object keys,
// dropping keys the schema does not declare, filling declared defaults,
// extracting the first number from numeric text ("300-400" -> 300),
// canonicalizing enum casing, trimming strings and re-indexing sequences.
func Normalize(n *Node, v any) any {
	if n == nil {
		return v
	}
	if v == nil {
		if n.Default == nil {
			return nil
		}
		v = cloneDefault(n.Default)
	}

	switch n.Type {
	case Object:
		return normalizeObject(n, v)
	case Array:
		return normalizeArray(n, v)
	case Integer:
		return normalizeNumber(n, v, true)
	case Number:
		return normalizeNumber(n, v, false)
	case String:
		if n.Digits {
			return normalizeQuantity(n, v)
		}
		return normalizeString(n, v)
	}
	return v
}

func normalizeObject(n *Node, v any) any {
	in, ok := v.(map[string]any)
	if !ok {
		return v
	}

	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(n.Fields))
	for _, f := range n.Fields {
		raw, found := lookup(in, keys, f)
		if !found {
			if f.Node != nil && f.Node.Default != nil {
				out[f.Name] = Normalize(f.Node, nil)
			}
			continue
		}
		out[f.Name] = Normalize(f.Node, raw)
	}
	return out
}

// lookup prefers the canonical key, then any key matching the canonical
// name or an alias once case and separators are ignored.
func lookup(in map[string]any, keys []string, f Field) (any, bool) {
	if raw, ok := in[f.Name]; ok {
		return raw, true
	}

	wanted := map[string]bool{matchKey(f.Name): true}
	for _, a := range f.Aliases {
		wanted[matchKey(a)] = true
	}
	for _, k := range keys {
		if wanted[matchKey(k)] {
			return in[k], true
		}
	}
	return nil, false
}

func matchKey(s string) string {
	return keyStripper.Replace(strings.ToLower(strings.TrimSpace(s)))
}

func normalizeArray(n *Node, v any) any {
	in, ok := v.([]any)
	if !ok {
		return v
	}

	out := make([]any, 0, len(in))
	for _, item := range in {
		out = append(out, Normalize(n.Items, item))
	}

	if n.Sequence != "" {
		resequence(out, n.Sequence)
	}
	return out
}

func resequence(items []any, field string) {
	position := func(item any) float64 {
		m, ok := item.(map[string]any)
		if !ok {
			return math.Inf(1)
		}
		if f, ok := toFloat(m[field]); ok {
			return f
		}
		return math.Inf(1)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return position(items[i]) < position(items[j])
	})

	for i, item := range items {
		if m, ok := item.(map[string]any); ok {
			m[field] = float64(i + 1)
		}
	}
}

func normalizeNumber(n *Node, v any, integer bool) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	f, ok := leadingNumber(s, integer)
	if !ok {
		if n.Default != nil {
			return cloneDefault(n.Default)
		}
		return v
	}
	return f
}

// leadingNumber reads the first number in s. A minus sign counts only when it
// does not join two words, so "300-400" is 300 and "-3" stays negative. Digit
// groups are read as thousands when the separators say so: "1,200" and
// "1.200,5" are 1200 and 1200.5. Integer fields read "1.200" as 1200 and drop
// any fraction.
func leadingNumber(s string, integer bool) (float64, bool) {
	loc := numericPattern.FindStringIndex(s)
	if loc == nil {
		return 0, false
	}
	match := s[loc[0]:loc[1]]
	if match[0] == '-' && loc[0] > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:loc[0]]); unicode.IsLetter(r) || unicode.IsDigit(r) {
			match = match[1:]
		}
	}

	neg := strings.HasPrefix(match, "-")
	body := strings.TrimPrefix(match, "-")

	var seps []int
	for i := 0; i < len(body); i++ {
		if body[i] == '.' || body[i] == ',' {
			seps = append(seps, i)
		}
	}

	whole, frac := body, ""
	switch {
	case len(seps) == 1:
		i := seps[0]
		after := body[i+1:]
		if len(after) == 3 && (integer || body[i] == ',') {
			whole = body[:i] + after
		} else {
			whole, frac = body[:i], after
		}
	case len(seps) > 1:
		last := seps[len(seps)-1]
		if body[last] != body[seps[0]] {
			whole, frac = body[:last], body[last+1:]
		}
		whole = strings.NewReplacer(".", "", ",", "").Replace(whole)
	}

	text := whole
	if frac != "" {
		text += "." + frac
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	if integer {
		f = math.Trunc(f)
	}
	if neg {
		f = -f
	}
	return f, true
}

func normalizeQuantity(n *Node, v any) any {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case bool:
		return cloneDefault(n.Default)
	default:
		f, ok := toFloat(t)
		if !ok {
			return cloneDefault(n.Default)
		}
		return strconv.FormatInt(int64(math.Trunc(f)), 10) + n.Unit
	}

	f, ok := leadingNumber(s, true)
	if !ok {
		return "0" + n.Unit
	}
	// negative amounts keep their sign and fail validation
	return strconv.FormatInt(int64(f), 10) + n.Unit
}

func normalizeString(n *Node, v any) any {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case bool:
		s = strconv.FormatBool(t)
	default:
		f, ok := toFloat(t)
		if !ok {
			return v
		}
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}

	s = strings.TrimSpace(s)
	if n.Lower {
		s = strings.ToLower(s)
	}

	for _, e := range n.Enum {
		if s != e && matchKey(s) == matchKey(e) {
			return e
		}
	}
	return s
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case interface{ Float64() (float64, error) }:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}

func cloneDefault(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneDefault(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneDefault(e)
		}
		return out
	}
	return v
}
