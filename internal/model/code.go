package model

import (
	"strings"
	"unicode"
)

// NormalizeCode returns the canonical form of a course code.
//
// The code is uppercased, runs of whitespace collapse to a single space, and a
// space is inserted between a purely alphabetic subject prefix and the course
// number when the two were written together ("math1a" -> "MATH 1A").
// Every course-code comparison in this module goes through this function.
func NormalizeCode(code string) string {
	fields := strings.Fields(strings.ToUpper(code))
	if len(fields) == 0 {
		return ""
	}

	if prefix, body, ok := splitJoined(fields[0]); ok {
		fields = append([]string{prefix, body}, fields[1:]...)
	}

	return strings.Join(fields, " ")
}

// SameCode reports whether two raw codes normalize to the same course
func SameCode(a, b string) bool {
	na := NormalizeCode(a)
	return na != "" && na == NormalizeCode(b)
}

// SplitCode splits a code into its subject prefix and course-number body.
// "MATH 1AH" -> ("MATH", "1AH"). ok is false when the code has no alphabetic
// prefix followed by a body.
func SplitCode(code string) (prefix, body string, ok bool) {
	normalized := NormalizeCode(code)
	idx := strings.IndexByte(normalized, ' ')
	if idx <= 0 {
		return "", "", false
	}

	prefix = normalized[:idx]
	body = strings.ReplaceAll(normalized[idx+1:], " ", "")
	if !isAlpha(prefix) || body == "" || !isAlnum(body) {
		return "", "", false
	}
	return prefix, body, true
}

// NormalizeCodes normalizes a list of codes, dropping blanks and duplicates
// while keeping first-seen order
func NormalizeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, c := range codes {
		n := NormalizeCode(c)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// splitJoined splits "MATH1A" into "MATH" and "1A"
func splitJoined(token string) (string, string, bool) {
	i := 0
	for i < len(token) && token[i] < unicode.MaxASCII && unicode.IsLetter(rune(token[i])) {
		i++
	}
	if i == 0 || i == len(token) {
		return "", "", false
	}
	if !unicode.IsDigit(rune(token[i])) || !isAlnum(token[i:]) {
		return "", "", false
	}
	return token[:i], token[i:], true
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
