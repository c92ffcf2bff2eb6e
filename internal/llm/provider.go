package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/transfermatch/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Narrate writes advising prose for an evaluated report
	Narrate(ctx context.Context, req NarrateRequest) (*NarrateResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// NarrateRequest contains the input for narration
type NarrateRequest struct {
	// Report is the evaluated report; verdicts are final
	Report model.Report

	// AllowedCourses is the strict allow-list of course codes the prose may
	// mention: the student's courses and every course in the agreement
	AllowedCourses []string

	// Prompt overrides the default prompt when set
	Prompt string

	Model     string
	MaxTokens int
}

// NarrateResponse contains the provider's output
type NarrateResponse struct {
	Text string

	// MentionedCourses are the course codes found in Text
	MentionedCourses []string

	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	Model   string
	APIKey  string
	BaseURL string

	Timeout int // seconds

	// StrictCourses rejects prose mentioning courses outside the allow-list
	StrictCourses bool

	MaxTokens int
}

// DefaultConfig returns narration disabled with strict course checking
func DefaultConfig() Config {
	return Config{
		Timeout:       30,
		StrictCourses: true,
		MaxTokens:     600,
	}
}

// BuildPrompt constructs the default narration prompt
func BuildPrompt(report model.Report, allowed []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are explaining a transfer articulation check to a community college student.
The verdicts below were computed by a rules engine and are final.

RULES:
1. Mention ONLY these course codes:
%s
2. Never contradict a verdict. If a course satisfies a requirement on its own, say so plainly.
3. Do not invent requirements, deadlines or policies.
4. Start with "✅ Yes" if every group is satisfied, otherwise "❌ No".

Agreement: %s, %s to %s
Completed courses: %s
Overall: %s

Groups:
`, listCourses(allowed), report.Major, report.From, report.To, strings.Join(report.Courses, ", "), verdictWord(report.Satisfied))

	for _, g := range report.Groups {
		name := g.GroupID
		if g.Title != "" {
			name = g.Title
		}
		fmt.Fprintf(&b, "- %s: %s (%d of %d)\n", name, verdictWord(g.Satisfied), g.SatisfiedCount, g.RequiredCount)
		for _, s := range g.Sections {
			if missing := s.UnsatisfiedCourses(); len(missing) > 0 && !g.Satisfied {
				fmt.Fprintf(&b, "  section %s still needs: %s\n", s.SectionID, strings.Join(missing, ", "))
			}
		}
	}

	for _, pair := range report.Redundant {
		fmt.Fprintf(&b, "Note: %s and %s are honors/non-honors versions of one course; only one counts.\n", pair[0], pair[1])
	}

	b.WriteString("\nWrite 3-5 sentences of advice on what to take next.")
	return b.String()
}

func verdictWord(ok bool) string {
	if ok {
		return "satisfied"
	}
	return "not satisfied"
}

func listCourses(codes []string) string {
	if len(codes) == 0 {
		return "(none)"
	}
	const limit = 60
	var b strings.Builder
	for i, c := range codes {
		if i >= limit {
			fmt.Fprintf(&b, "\n... and %d more", len(codes)-limit)
			break
		}
		fmt.Fprintf(&b, "\n- %s", c)
	}
	return b.String()
}
