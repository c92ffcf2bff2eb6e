package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/transfermatch/internal/pipeline"
)

// errUnsatisfied makes check exit non-zero when a requirement is unmet
var errUnsatisfied = errors.New("not every requirement group is satisfied")

var checkCmd = &cobra.Command{
	Use:   "check <profile.yaml>",
	Short: "Check a student profile against its articulation agreement",
	Long: `Check evaluates every requirement group of an articulation agreement
against the courses in a student profile:
- Decide each UC course, section and group
- Explain what is still missing
- Flag honors/non-honors duplicates and courses the agreement never mentions

A profile is a YAML file:

  name: alex
  agreement: agreements/deanza-ucsd-cs.json   # path or http(s) URL
  courses: [CIS 22A, MATH 1A, MATH 1B]
  honors_pairs:                               # optional
    MATH 1AH: MATH 1A

Example:
  transfermatch check alex.yaml
  transfermatch check alex.yaml --json report.json --md report.md
  transfermatch check alex.yaml --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("json", "", "output JSON path (optional)")
	checkCmd.Flags().String("md", "", "output Markdown path (optional)")
	checkCmd.Flags().Duration("timeout", 2*time.Minute, "overall check timeout")
	checkCmd.Flags().Bool("strict", false, "exit non-zero when any requirement group is unmet")
	addRunFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	profilePath := args[0]
	flags := cmd.Flags()
	outJSON, _ := flags.GetString("json")
	outMD, _ := flags.GetString("md")
	timeout, _ := flags.GetDuration("timeout")
	strict, _ := flags.GetBool("strict")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyRunFlags(cmd, cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	advisor := pipeline.NewAdvisor(cfg, logger)
	report, err := advisor.CheckProfile(ctx, profilePath)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Loaded agreement: %s\n", report.SourceURL)
		fmt.Fprintf(os.Stderr, "✓ Evaluated %d requirement groups\n", len(report.Groups))
		if n := report.Narrative; n != nil && n.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated advisor notes using %s/%s\n", n.Provider, n.Model)
		}
	}

	advisor.Renderer().RenderSummary(cmd.OutOrStdout(), report)

	written, err := advisor.RenderReport(report, outJSON, outMD)
	for _, path := range written {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	}
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if strict && !report.Satisfied {
		return errUnsatisfied
	}
	return nil
}
