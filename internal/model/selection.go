package model

import "sort"

// Selection is a set of normalized course codes a student has completed.
// A Selection is built once per query and never modified afterwards.
type Selection map[string]struct{}

// NewSelection normalizes raw codes into a Selection
func NewSelection(codes ...string) Selection {
	s := make(Selection, len(codes))
	for _, c := range codes {
		if n := NormalizeCode(c); n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// Has reports whether the selection contains the course (raw or normalized)
func (s Selection) Has(code string) bool {
	_, ok := s[NormalizeCode(code)]
	return ok
}

// WithEquivalents returns a new selection where every selected key of
// equivalents also counts as its mapped course. The receiver is not modified.
func (s Selection) WithEquivalents(equivalents map[string]string) Selection {
	if len(equivalents) == 0 {
		return s
	}
	out := make(Selection, len(s)+len(equivalents))
	for code := range s {
		out[code] = struct{}{}
	}
	for from, to := range equivalents {
		if s.Has(from) {
			if n := NormalizeCode(to); n != "" {
				out[n] = struct{}{}
			}
		}
	}
	return out
}

// Sorted returns the codes in lexical order
func (s Selection) Sorted() []string {
	out := make([]string, 0, len(s))
	for code := range s {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
