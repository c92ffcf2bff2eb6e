package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/transfermatch/internal/model"
	"github.com/ppiankov/transfermatch/internal/pipeline"
)

var lintCmd = &cobra.Command{
	Use:   "lint <agreement>",
	Short: "Report problems in an articulation agreement document",
	Long: `Lint reads an agreement and reports:
- Schema violations
- Logic that could not be interpreted (kept as markers during checks)
- Structure that evaluates but is probably wrong: empty AND/OR groups,
  choose_one_section used inside a section, select_n counts that can
  never be met

Exits non-zero when a critical issue is found.

Example:
  transfermatch lint deanza-ucsd-cs.json`,
	Args: cobra.ExactArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().Duration("timeout", time.Minute, "overall timeout")
	addRunFlags(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	source := args[0]
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyRunFlags(cmd, cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	ag, issues, err := pipeline.NewAdvisor(cfg, logger).Lint(ctx, source)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s (%s → %s), %d groups\n", source, ag.Major, ag.From, ag.To, len(ag.Groups))
	if len(issues) == 0 {
		fmt.Fprintln(out, "✓ No issues found")
		return nil
	}

	critical := 0
	for _, issue := range issues {
		if issue.Severity == model.SeverityCritical {
			critical++
		}
		fmt.Fprintf(out, "  %s\n", issue)
	}
	fmt.Fprintf(out, "%d issues (%d critical)\n", len(issues), critical)

	if critical > 0 {
		return fmt.Errorf("%d critical issues in %s", critical, source)
	}
	return nil
}
