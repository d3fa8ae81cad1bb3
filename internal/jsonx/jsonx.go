// Package jsonx extracts JSON values embedded in free-form text, such as
// model completions that wrap their answer in prose or code fences.
package jsonx

import "encoding/json"

// FirstObject returns the first balanced JSON object found in s.
func FirstObject(s string) (string, bool) {
	return first(s, '{', '}')
}

// FirstArray returns the first balanced JSON array found in s.
func FirstArray(s string) (string, bool) {
	return first(s, '[', ']')
}

// first scans for a balanced candidate starting at each opening delimiter and
// returns the first one that is actually valid JSON. Braces inside string
// literals do not count toward the balance.
func first(s string, open, close byte) (string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] != open {
			continue
		}
		if end, ok := scanBalanced(s, i, open, close); ok {
			candidate := s[i : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, true
			}
		}
	}
	return "", false
}

func scanBalanced(s string, start int, open, close byte) (int, bool) {
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
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
