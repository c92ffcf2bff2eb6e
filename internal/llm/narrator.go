package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/transfermatch/internal/explain"
	"github.com/ppiankov/transfermatch/internal/model"
)

// Narrator turns an evaluated report into optional prose. It runs after
// evaluation and never changes a verdict.
type Narrator struct {
	provider Provider
	config   Config
}

// NewNarrator creates a narrator; with no provider configured it is disabled
func NewNarrator(config Config) (*Narrator, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Narrator{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (n *Narrator) IsEnabled() bool {
	return n != nil && n.provider != nil
}

// ProviderName returns the provider name, or "" when disabled
func (n *Narrator) ProviderName() string {
	if !n.IsEnabled() {
		return ""
	}
	return n.provider.Name()
}

// Narrate produces the narrative for a report. Provider failures are
// reported as warnings on the narrative, not as errors; a nil narrative
// means narration is disabled.
func (n *Narrator) Narrate(ctx context.Context, report model.Report, allowed []string) (*model.Narrative, error) {
	if !n.IsEnabled() {
		return nil, nil
	}

	narrative := &model.Narrative{
		Enabled:       true,
		Provider:      n.provider.Name(),
		Model:         n.config.Model,
		StrictCourses: n.config.StrictCourses,
	}

	if !n.provider.IsAvailable(ctx) {
		narrative.Enabled = false
		narrative.Warnings = append(narrative.Warnings, fmt.Sprintf("LLM provider %s is not available", narrative.Provider))
		return narrative, nil
	}

	resp, err := n.provider.Narrate(ctx, NarrateRequest{
		Report:         report,
		AllowedCourses: allowed,
		Model:          n.config.Model,
		MaxTokens:      n.config.MaxTokens,
	})
	if err != nil {
		narrative.Warnings = append(narrative.Warnings, fmt.Sprintf("Narration failed: %v", err))
		return narrative, nil
	}

	narrative.Model = resp.Model
	narrative.Text = explain.Correct(resp.Text)
	if narrative.Text != resp.Text {
		narrative.Warnings = append(narrative.Warnings, "Rewrote a sentence that contradicted its own verdict")
	}
	narrative.Warnings = append(narrative.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	if n.config.StrictCourses {
		narrative.Warnings = append(narrative.Warnings, fmt.Sprintf("Verified %d course mentions against the allow-list", len(resp.MentionedCourses)))
	}

	return narrative, nil
}

// RenderSeparateMarkdown renders the narrative as its own markdown document
func RenderSeparateMarkdown(n *model.Narrative) string {
	if n == nil || !n.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Advisor Notes\n\n")
	b.WriteString("> **GENERATED CONTENT**: written by a language model from the verdicts below.\n")
	b.WriteString("> Verdicts are determined independently by the rules engine; this text never changes them.\n\n")

	fmt.Fprintf(&b, "- **Provider**: %s\n", n.Provider)
	if n.Model != "" {
		fmt.Fprintf(&b, "- **Model**: %s\n", n.Model)
	}
	fmt.Fprintf(&b, "- **Strict Course Mode**: %t\n\n", n.StrictCourses)

	if n.Text == "" {
		b.WriteString("_No narrative generated._\n")
	} else {
		b.WriteString(n.Text)
		b.WriteString("\n")
	}

	if len(n.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range n.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
