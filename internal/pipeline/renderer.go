package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/transfermatch/internal/explain"
	"github.com/ppiankov/transfermatch/internal/model"
)

// Renderer writes reports as JSON, Markdown and a terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// RenderMarkdown writes the report as Markdown
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return os.WriteFile(path, []byte(r.Markdown(report)), 0o644)
}

// Markdown renders the full report
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Transfer Check: %s\n\n", orDash(report.Major))
	if report.Student != "" {
		fmt.Fprintf(&b, "**Student:** %s  \n", report.Student)
	}
	if report.From != "" || report.To != "" {
		fmt.Fprintf(&b, "**Agreement:** %s → %s  \n", orDash(report.From), orDash(report.To))
	}
	if report.SourceURL != "" {
		fmt.Fprintf(&b, "**Source:** %s  \n", report.SourceURL)
	}
	fmt.Fprintf(&b, "**Run:** `%s` (%s)\n\n", report.RunID, report.GeneratedAt.Format("2006-01-02 15:04 MST"))

	b.WriteString("**Completed courses:** ")
	if len(report.Courses) == 0 {
		b.WriteString("none")
	} else {
		b.WriteString(strings.Join(report.Courses, ", "))
	}
	b.WriteString("\n\n")

	b.WriteString("## Verdict\n\n")
	satisfiedGroups := 0
	for _, g := range report.Groups {
		if g.Satisfied {
			satisfiedGroups++
		}
	}
	fmt.Fprintf(&b, "%s: %d of %d requirement groups satisfied.\n\n", explain.Header(report.Satisfied), satisfiedGroups, len(report.Groups))

	if len(report.Groups) > 0 {
		b.WriteString("## Requirement Groups\n\n")
		for _, g := range report.Groups {
			b.WriteString(explain.RenderGroup(g))
			b.WriteString("\n\n")
		}
	}

	if details := unsatisfiedDetails(report.Groups); details != "" {
		b.WriteString("## Still Needed\n\n")
		b.WriteString(details)
	}

	if len(report.Redundant) > 0 {
		b.WriteString("## Duplicate Courses\n\n")
		for _, s := range report.Signals {
			if s.Type == model.SignalRedundantCourses {
				fmt.Fprintf(&b, "- %s\n", s.Description)
			}
		}
		b.WriteString("\n")
	}

	if len(report.Signals) > 0 {
		b.WriteString("## Signals\n\n")
		b.WriteString("| Severity | Type | Description |\n")
		b.WriteString("|----------|------|-------------|\n")
		for _, s := range report.Signals {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", severityIcon(s.Severity), s.Type, s.Description)
		}
		b.WriteString("\n")
	}

	if n := report.Narrative; n != nil && n.Enabled && n.Text != "" {
		b.WriteString("## Advisor Notes\n\n")
		b.WriteString("> Generated text. It restates the verdicts above and never changes them.\n\n")
		b.WriteString(n.Text)
		b.WriteString("\n\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("_Generated by transfermatch from the published articulation agreement. Confirm your plan with a counselor._\n")
	}

	return b.String()
}

// unsatisfiedDetails lists the explanation of every unmet UC course
func unsatisfiedDetails(groups []model.GroupVerdict) string {
	var b strings.Builder
	for _, g := range groups {
		if g.Satisfied {
			continue
		}
		for _, s := range g.Sections {
			for _, req := range s.Requirements {
				if req.Satisfied || req.Explanation.Summary == "" {
					continue
				}
				fmt.Fprintf(&b, "### %s\n\n%s\n\n", req.UCCourse, req.Explanation.Summary)
			}
		}
	}
	return b.String()
}

// RenderSummary prints a short terminal summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	name := report.Student
	if name == "" {
		name = "student"
	}
	fmt.Fprintf(w, "\n%s: %s (%s → %s)\n", name, orDash(report.Major), orDash(report.From), orDash(report.To))
	fmt.Fprintf(w, "Verdict: %s\n", explain.Header(report.Satisfied))

	for _, g := range report.Groups {
		mark := "✗"
		if g.Satisfied {
			mark = "✓"
		}
		title := g.GroupID
		if g.Title != "" {
			title = g.Title
		}
		fmt.Fprintf(w, "  %s %s (%d of %d)\n", mark, title, g.SatisfiedCount, g.RequiredCount)
	}

	if len(report.Signals) > 0 {
		critical, warning := 0, 0
		for _, s := range report.Signals {
			switch s.Severity {
			case model.SeverityCritical:
				critical++
			case model.SeverityWarning:
				warning++
			}
		}
		fmt.Fprintf(w, "Signals: %d (%d critical, %d warning)\n", len(report.Signals), critical, warning)
	}
}

func severityIcon(s model.SignalSeverity) string {
	switch s {
	case model.SeverityCritical:
		return "🔴 critical"
	case model.SeverityWarning:
		return "🟡 warning"
	default:
		return "🔵 info"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
