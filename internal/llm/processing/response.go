package processing

import "strings"

const (
	ThinkStart = "<think>"
	ThinkEnd   = "</think>"

	fence = "```"
)

// ExtractThinking separates <think>...</think> blocks from the rest of the text.
// An unclosed block runs to the end of the input.
func ExtractThinking(text string) (content string, reasoning string) {
	var c, r strings.Builder

	rest := text
	for {
		start := strings.Index(rest, ThinkStart)
		if start == -1 {
			c.WriteString(rest)
			break
		}
		c.WriteString(rest[:start])
		rest = rest[start+len(ThinkStart):]

		end := strings.Index(rest, ThinkEnd)
		if end == -1 {
			r.WriteString(rest)
			break
		}
		r.WriteString(rest[:end])
		rest = rest[end+len(ThinkEnd):]
	}

	return c.String(), r.String()
}

// StripFences removes a leading fence line (optionally tagged, e.g. ```json)
// and a trailing fence from model output.
func StripFences(text string) string {
	s := strings.TrimSpace(text)

	if strings.HasPrefix(s, fence) {
		s = s[len(fence):]
		// drop the language tag up to the end of the fence line
		if nl := strings.IndexByte(s, '\n'); nl != -1 {
			tag := strings.TrimSpace(s[:nl])
			if !strings.ContainsAny(tag, "{[") {
				s = s[nl+1:]
			}
		} else {
			s = strings.TrimLeft(s, "abcdefghijklmnopqrstuvwxyzJSON")
		}
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}

// CleanResponse strips reasoning blocks and code fences, leaving the payload.
func CleanResponse(text string) string {
	content, _ := ExtractThinking(text)
	return StripFences(content)
}
