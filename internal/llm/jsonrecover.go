package llm

import (
	"encoding/json"
	"strings"
)

// RecoverJSON extracts a JSON object from raw model output. The whole text is
// tried first; failing that, the first balanced {...} span is parsed. Only
// objects are accepted, so a top-level array yields its first object element
// and the rest is dropped. Prompts ask for a wrapping object for lists.
func RecoverJSON(text string) (map[string]any, bool) {
	if m, ok := decodeObject(strings.TrimSpace(text)); ok {
		return m, true
	}
	span, ok := firstObjectSpan(text)
	if !ok {
		return nil, false
	}
	return decodeObject(span)
}

func decodeObject(s string) (map[string]any, bool) {
	if s == "" {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}

// firstObjectSpan returns the substring from the first '{' to its matching
// '}', skipping braces inside string literals.
func firstObjectSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
