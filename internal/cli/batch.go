package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/transfermatch/internal/pipeline"
	"github.com/ppiankov/transfermatch/internal/worker"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Check many student profiles in parallel",
	Long: `Batch checks multiple student profiles concurrently:
- Read profile paths from the input file (one per line, # comments allowed)
- Load every agreement the profiles name once, in parallel
- Check profiles with a configurable worker count
- Write a JSON and a Markdown report for each profile

Example:
  transfermatch batch profiles.txt
  transfermatch batch profiles.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().String("output-dir", "./transfermatch-reports", "output directory for reports")
	batchCmd.Flags().Duration("timeout", 10*time.Minute, "total timeout for batch processing")
	addRunFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	flags := cmd.Flags()
	outputDir, _ := flags.GetString("output-dir")
	batchTimeout, _ := flags.GetDuration("timeout")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flags.Changed("concurrency") || cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers, _ = flags.GetInt("concurrency")
	}
	if err := applyRunFlags(cmd, cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  TransferMatch Batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	paths, err := worker.ReadProfileList(file)
	if err != nil {
		return fmt.Errorf("read profile list: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d profiles\n", len(paths))

	advisor := pipeline.NewAdvisor(cfg, logger)

	sources, err := advisor.Preload(ctx, paths)
	if err != nil {
		// Profiles sharing the failed agreement report it individually
		fmt.Fprintf(os.Stderr, "✗ Preloading agreements: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "✓ Loaded %d agreements\n", len(sources))
	}

	fmt.Fprintf(os.Stderr, "\n⚙️  Checking profiles with %d workers...\n\n", cfg.Concurrency.Workers)

	processor := worker.NewBatchProcessor(advisor, cfg.Concurrency.Workers, logger)
	results := processor.ProcessProfiles(ctx, paths)

	written := 0
	for _, result := range results {
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		slug := reportSlug(result.Path)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")
		if _, err := advisor.RenderReport(result.Report, jsonPath, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, err)
			continue
		}
		written++

		mark := "✗"
		if result.Report.Satisfied {
			mark = "✓"
		}
		fmt.Fprintf(os.Stderr, "%s %s: %s\n", mark, result.Report.Student, verdictLine(result.Report.Satisfied))
	}

	summary := worker.Summarize(results)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:        %d profiles\n", summary.Total)
	fmt.Fprintf(os.Stderr, "  Satisfied:    %d\n", summary.Satisfied)
	fmt.Fprintf(os.Stderr, "  Unsatisfied:  %d\n", summary.Unsatisfied)
	fmt.Fprintf(os.Stderr, "  Failures:     %d\n", summary.Failed)
	fmt.Fprintf(os.Stderr, "  Reports:      %d in %s\n", written, outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d profiles failed", summary.Failed, summary.Total)
	}
	return nil
}

func verdictLine(satisfied bool) string {
	if satisfied {
		return "all requirement groups satisfied"
	}
	return "requirements still missing"
}

// reportSlug derives a report file name from a profile path
func reportSlug(profilePath string) string {
	name := strings.TrimSuffix(filepath.Base(profilePath), filepath.Ext(profilePath))

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	name = replacer.Replace(name)
	if name == "" || name == "." {
		name = "profile"
	}

	if len(name) > 100 {
		name = name[:100]
	}
	return name
}
