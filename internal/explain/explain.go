// Package explain turns verdicts into short, self-consistent advising text.
package explain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/transfermatch/internal/honors"
	"github.com/ppiankov/transfermatch/internal/model"
	"github.com/ppiankov/transfermatch/internal/satisfy"
)

const (
	HeaderYes = "✅ Yes"
	HeaderNo  = "❌ No"
)

// aloneOnly matches "No, X alone only satisfies Y." with optional bold
// markers and an optional leading cross mark
var aloneOnly = regexp.MustCompile(`(?m)(?:❌\s*)?\bNo,\s+\*{0,2}([^*\n]+?)\*{0,2}\s+alone only satisfies\s+\*{0,2}([^*\n]+?)\*{0,2}(?:\.|$)`)

// Header returns the binary verdict header
func Header(satisfied bool) string {
	if satisfied {
		return HeaderYes
	}
	return HeaderNo
}

// Correct rewrites self-contradicting sentences. A course that satisfies a
// UC course on its own is a yes, so "No, X alone only satisfies Y." becomes
// "✅ Yes, X satisfies Y." with both codes kept.
func Correct(text string) string {
	return aloneOnly.ReplaceAllStringFunc(text, func(match string) string {
		m := aloneOnly.FindStringSubmatch(match)
		return fmt.Sprintf("%s, **%s** satisfies **%s**.", HeaderYes, strings.TrimSpace(m[1]), strings.TrimSpace(m[2]))
	})
}

// WithHeader prepends the verdict header unless the text already opens with one
func WithHeader(satisfied bool, body string) string {
	body = strings.TrimSpace(body)
	if strings.HasPrefix(body, HeaderYes) || strings.HasPrefix(body, HeaderNo) {
		return body
	}
	if body == "" {
		return Header(satisfied)
	}
	return Header(satisfied) + "\n\n" + body
}

// Finalize renders the explanation and stores the corrected text in Summary
func Finalize(e model.Explanation) model.Explanation {
	e.Summary = Correct(WithHeader(e.Satisfied, Render(e)))
	return e
}

// Render describes an explanation without its header
func Render(e model.Explanation) string {
	var b strings.Builder

	switch {
	case e.NoArticulation:
		b.WriteString("No community college course articulates to this requirement. It must be completed at the university.\n")
	case e.Unparseable:
		b.WriteString("The articulation data for this requirement could not be read.\n")
	case e.Satisfied:
		for _, o := range e.SatisfiedOptions() {
			fmt.Fprintf(&b, "Satisfied by %s: %s.\n", optionName(e, o), strings.Join(o.Matched, ", "))
		}
	default:
		partial := e.PartialOptions()
		if len(partial) == 0 {
			b.WriteString("None of the completed courses count toward this requirement yet.\n")
			if len(e.Missing) > 0 {
				fmt.Fprintf(&b, "Needed: %s.\n", strings.Join(e.Missing, "; "))
			}
			break
		}
		b.WriteString("Partial matches:\n")
		for _, o := range partial {
			fmt.Fprintf(&b, "- %s: completed %s; still needed %s.\n",
				optionName(e, o), strings.Join(o.Matched, ", "), strings.Join(o.Missing, ", "))
		}
	}

	if e.HonorsRequired {
		b.WriteString("Only honors sections are accepted for this requirement.\n")
	}
	for _, pair := range e.Redundant {
		fmt.Fprintf(&b, "Note: %s\n", honors.ExplainEquivalence(pair[0], pair[1]))
	}

	return strings.TrimRight(b.String(), "\n")
}

// optionName drops the option label when there is only one alternative
func optionName(e model.Explanation, o model.Option) string {
	if len(e.Options) == 1 {
		return "the required courses"
	}
	return o.Label
}

// RenderLogic describes a requirement tree: one line per top-level
// alternative, followed by honors equivalence notes
func RenderLogic(node model.LogicNode) string {
	var lines []string

	switch {
	case node.IsNoArticulation():
		return "No course articulated."
	case node.Kind() == model.KindOr && node.Len() > 1:
		for i, child := range node.Children() {
			lines = append(lines, fmt.Sprintf("%s: %s", satisfy.OptionLabel(i), child.Describe()))
		}
	default:
		lines = append(lines, node.Describe())
	}

	honorsCodes, regular := honors.Split(node)
	for _, h := range honorsCodes {
		for _, r := range regular {
			if honors.SuffixPair(h, r) || honors.PairInTree(node, h, r) {
				lines = append(lines, "Note: "+honors.ExplainEquivalence(r, h))
			}
		}
	}

	return strings.Join(lines, "\n")
}

// RenderReach describes what one CCC course does across an agreement
func RenderReach(r model.CourseReach) string {
	var b strings.Builder
	b.WriteString(Header(len(r.Direct) > 0))
	b.WriteString("\n\n")

	switch {
	case len(r.Direct) > 0:
		fmt.Fprintf(&b, "**%s** satisfies %s on its own.\n", r.Course, boldList(r.Direct))
	case len(r.Contributes) > 0:
		fmt.Fprintf(&b, "**%s** does not satisfy any UC course on its own.\n", r.Course)
	default:
		fmt.Fprintf(&b, "**%s** does not appear in this agreement.\n", r.Course)
	}
	if len(r.Contributes) > 0 {
		fmt.Fprintf(&b, "It also counts toward %s when combined with other courses.\n", boldList(r.Contributes))
	}

	return Correct(strings.TrimRight(b.String(), "\n"))
}

// RenderSingle describes whether one course satisfies ucCourse by itself
func RenderSingle(r model.SingleResult, ucCourse string) string {
	var b strings.Builder
	b.WriteString(Header(r.Valid))
	b.WriteString("\n\n")

	switch {
	case r.Valid:
		fmt.Fprintf(&b, "**%s** satisfies **%s**.", r.Course, ucCourse)
	case len(r.Matches) > 0:
		fmt.Fprintf(&b, "**%s** counts toward **%s** only together with %s.", r.Course, ucCourse, strings.Join(r.Misses, ", "))
	case len(r.Misses) > 0:
		fmt.Fprintf(&b, "**%s** is not accepted for **%s**. Accepted: %s.", r.Course, ucCourse, strings.Join(r.Misses, ", "))
	default:
		fmt.Fprintf(&b, "**%s** is not accepted for **%s**, and no course articulates to it.", r.Course, ucCourse)
	}

	return Correct(b.String())
}

func boldList(codes []string) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = "**" + c + "**"
	}
	return strings.Join(parts, ", ")
}
