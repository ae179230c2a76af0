package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"
)

// keys, string values, literals, numbers
var jsonToken = regexp.MustCompile(`("(\\u[a-zA-Z0-9]{4}|\\[^u]|[^\\"])*"(\s*:)?|\b(true|false|null)\b|-?\d+(?:\.\d*)?(?:[eE][+\-]?\d+)?)`)

// HighlightJSON colors the tokens of a JSON document.
func HighlightJSON(s string) string {
	if !Enabled() {
		return s
	}

	return jsonToken.ReplaceAllStringFunc(s, func(tok string) string {
		switch {
		case strings.HasSuffix(tok, ":"):
			return Blue + tok[:len(tok)-1] + ResetCode + ":"
		case strings.HasPrefix(tok, `"`):
			return Green + tok + ResetCode
		case tok == "true" || tok == "false":
			return Yellow + tok + ResetCode
		case tok == "null":
			return DimCode + tok + ResetCode
		default:
			return Purple + tok + ResetCode
		}
	})
}

// PrettyFormat indents v as JSON and highlights it. Strings and byte slices
// are assumed to already be JSON.
func PrettyFormat(v any) string {
	var s string
	switch t := v.(type) {
	case []byte:
		s = string(t)
	case string:
		s = t
	default:
		b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Sprintf("%+v", v)
		}
		s = string(b)
	}
	return HighlightJSON(s)
}
