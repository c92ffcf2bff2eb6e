// Package satisfy evaluates requirement trees against a student's completed
// courses. Every function is pure and safe for concurrent use on shared trees.
package satisfy

import (
	"fmt"

	"github.com/ppiankov/transfermatch/internal/honors"
	"github.com/ppiankov/transfermatch/internal/model"
)

// IsSatisfied reports whether the selection satisfies the tree.
// NoArticulation and unparseable nodes never hold, an empty AND holds
// vacuously and an empty OR never holds.
func IsSatisfied(node model.LogicNode, selected model.Selection) bool {
	switch node.Kind() {
	case model.KindLeaf:
		if node.IsNoArticulation() {
			return false
		}
		c, _ := node.Course()
		return selected.Has(c.Code)
	case model.KindAnd:
		for i := 0; i < node.Len(); i++ {
			if !IsSatisfied(node.Child(i), selected) {
				return false
			}
		}
		return true
	case model.KindOr:
		for i := 0; i < node.Len(); i++ {
			if IsSatisfied(node.Child(i), selected) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// SatisfiedBy is IsSatisfied over raw course codes
func SatisfiedBy(node model.LogicNode, codes ...string) bool {
	return IsSatisfied(node, model.NewSelection(codes...))
}

// Options tunes Explain
type Options struct {
	// HonorsPairs maps an honors code to its non-honors equivalent. A
	// selected honors code also counts as the mapped course.
	HonorsPairs map[string]string

	// DetectRedundant reports honors/non-honors duplicates in the selection
	DetectRedundant bool
}

// Explain evaluates the tree and returns the structured account of the
// result: one Option per alternative of a top-level OR (a single option
// otherwise) with the completed and still-needed courses of each.
func Explain(node model.LogicNode, selected []string, opts Options) (bool, model.Explanation) {
	sel := model.NewSelection(selected...).WithEquivalents(opts.HonorsPairs)

	e := model.Explanation{
		NoArticulation: node.IsNoArticulation(),
		Unparseable:    node.Kind() == model.KindUnparseable,
		HonorsRequired: honors.RequiresHonorsOnly(node),
	}

	if opts.DetectRedundant {
		e.Redundant = honors.DetectRedundant(selected, node)
	}

	switch node.Kind() {
	case model.KindLeaf, model.KindAnd, model.KindOr:
	default:
		return false, e
	}
	if e.NoArticulation {
		return false, e
	}

	alternatives := []model.LogicNode{node}
	if node.Kind() == model.KindOr {
		alternatives = node.Children()
	}

	for i, alt := range alternatives {
		matched, missing := progress(alt, sel)
		e.Options = append(e.Options, model.Option{
			Label:     OptionLabel(i),
			Satisfied: IsSatisfied(alt, sel),
			Matched:   dedupe(matched),
			Missing:   dedupe(missing),
		})
	}

	e.Satisfied = IsSatisfied(node, sel)
	for _, o := range e.Options {
		e.Matched = append(e.Matched, o.Matched...)
		if !e.Satisfied {
			e.Missing = append(e.Missing, o.Missing...)
		}
	}
	e.Matched = dedupe(e.Matched)
	e.Missing = dedupe(e.Missing)
	if !e.Satisfied && len(e.Missing) == 0 {
		e.Missing = []string{node.Describe()}
	}

	return e.Satisfied, e
}

// OptionLabel names the i-th alternative: "Option A", "Option B", ...
func OptionLabel(i int) string {
	if i < 26 {
		return "Option " + string(rune('A'+i))
	}
	return fmt.Sprintf("Option %d", i+1)
}

// progress returns the completed courses under node and the rendered
// requirements that are still needed. missing is empty iff node holds.
func progress(node model.LogicNode, sel model.Selection) (matched, missing []string) {
	switch node.Kind() {
	case model.KindLeaf:
		if node.IsNoArticulation() {
			return nil, []string{node.Describe()}
		}
		c, _ := node.Course()
		if sel.Has(c.Code) {
			return []string{c.Code}, nil
		}
		return nil, []string{c.Display()}

	case model.KindAnd:
		for i := 0; i < node.Len(); i++ {
			m, miss := progress(node.Child(i), sel)
			matched = append(matched, m...)
			missing = append(missing, miss...)
		}
		return matched, missing

	case model.KindOr:
		for i := 0; i < node.Len(); i++ {
			if child := node.Child(i); IsSatisfied(child, sel) {
				m, _ := progress(child, sel)
				return m, nil
			}
		}
		for i := 0; i < node.Len(); i++ {
			m, _ := progress(node.Child(i), sel)
			matched = append(matched, m...)
		}
		return matched, []string{node.Describe()}

	default:
		return nil, []string{node.Describe()}
	}
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
