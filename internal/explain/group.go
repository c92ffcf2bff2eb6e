package explain

import (
	"fmt"
	"strings"

	"github.com/ppiankov/transfermatch/internal/model"
)

// RenderGroup renders a group verdict as markdown: a verdict line, then one
// table per section listing each UC course, its status, the courses that
// satisfied it and what is still missing
func RenderGroup(v model.GroupVerdict) string {
	var b strings.Builder

	title := v.GroupID
	if v.Title != "" {
		title = v.Title
	}
	fmt.Fprintf(&b, "### %s\n\n", title)
	fmt.Fprintf(&b, "%s: %s\n", Header(v.Satisfied), groupRule(v))
	if v.Malformed {
		fmt.Fprintf(&b, "\n⚠️ %s\n", v.Reason)
	}

	for _, s := range v.Sections {
		name := s.SectionID
		if s.Title != "" {
			name = s.Title
		}
		mark := "✗"
		if s.Satisfied {
			mark = "✓"
		}
		fmt.Fprintf(&b, "\n**Section %s** %s (%d of %d)\n", name, mark, s.SatisfiedCount, s.RequiredCount)
		if s.Malformed {
			fmt.Fprintf(&b, "⚠️ %s\n", s.Reason)
		}

		b.WriteString("\n| UC Course | Status | Satisfied by | Missing |\n")
		b.WriteString("|-----------|--------|--------------|---------|\n")
		for _, r := range s.Requirements {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				r.UCCourse, status(r), cell(r.Explanation.Matched, r.Satisfied), cell(r.Explanation.Missing, !r.Satisfied))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func groupRule(v model.GroupVerdict) string {
	switch v.Logic.Kind {
	case model.LogicAllRequired:
		return fmt.Sprintf("all %d sections required, %d satisfied", v.RequiredCount, v.SatisfiedCount)
	case model.LogicChooseOneSection:
		if len(v.SatisfiedSections) > 0 {
			return "one section required, satisfied by " + strings.Join(v.SatisfiedSections, ", ")
		}
		return "one section required, none satisfied"
	case model.LogicSelectN:
		return fmt.Sprintf("%d sections required, %d satisfied", v.RequiredCount, v.SatisfiedCount)
	default:
		return "unknown group logic"
	}
}

func status(r model.RequirementVerdict) string {
	switch {
	case r.Satisfied:
		return "✅"
	case r.Explanation.NoArticulation:
		return "No articulation"
	case r.Explanation.Unparseable:
		return "Unreadable"
	default:
		return "❌"
	}
}

func cell(values []string, show bool) string {
	if !show || len(values) == 0 {
		return "-"
	}
	return strings.ReplaceAll(strings.Join(values, ", "), "|", "\\|")
}
