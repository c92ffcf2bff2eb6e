package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/transfermatch/internal/pipeline"
)

var courseCmd = &cobra.Command{
	Use:   "course <agreement> <ccc-course>",
	Short: "Show what one community college course satisfies",
	Long: `Course looks up one community college course in an agreement.

Without --uc it lists the UC courses the course satisfies on its own and
those it only counts toward as part of a combination. With --uc it answers
whether the course satisfies that UC course by itself, and what else is
needed if not.

Example:
  transfermatch course deanza-ucsd-cs.json "MATH 1A"
  transfermatch course deanza-ucsd-cs.json MATH1B --uc "MATH 20B"
  transfermatch course https://example.org/agreement.json CIS22A --json`,
	Args: cobra.ExactArgs(2),
	RunE: runCourse,
}

func init() {
	rootCmd.AddCommand(courseCmd)

	courseCmd.Flags().String("uc", "", "UC course to validate against")
	courseCmd.Flags().Bool("json", false, "print the answer as JSON")
	courseCmd.Flags().Duration("timeout", time.Minute, "overall timeout")
	addRunFlags(courseCmd)
}

func runCourse(cmd *cobra.Command, args []string) error {
	source, code := args[0], args[1]
	flags := cmd.Flags()
	ucCourse, _ := flags.GetString("uc")
	asJSON, _ := flags.GetBool("json")
	timeout, _ := flags.GetDuration("timeout")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyRunFlags(cmd, cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	advice, err := pipeline.NewAdvisor(cfg, logger).Course(ctx, source, code, ucCourse)
	if err != nil {
		return fmt.Errorf("course lookup failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(advice)
	}

	fmt.Fprintln(out, advice.Text)
	if advice.Accepted != "" {
		fmt.Fprintf(out, "\nAccepted for %s: %s\n", advice.UCCourse, advice.Accepted)
	}
	if advice.SourceURL != "" {
		fmt.Fprintf(out, "Source: %s\n", advice.SourceURL)
	}
	return nil
}
