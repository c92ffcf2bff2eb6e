package worker

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/transfermatch/internal/model"
)

// Checker evaluates one student profile file
type Checker interface {
	CheckProfile(ctx context.Context, path string) (*model.Report, error)
}

// CheckJob evaluates one profile
type CheckJob struct {
	Index   int
	Path    string
	Checker Checker
}

// Execute runs the check
func (j *CheckJob) Execute(ctx context.Context) Result {
	start := time.Now()
	report, err := j.Checker.CheckProfile(ctx, j.Path)
	return &CheckResult{
		Index:    j.Index,
		Path:     j.Path,
		Report:   report,
		Error:    err,
		Duration: time.Since(start),
	}
}

// CheckResult is the outcome of one profile check
type CheckResult struct {
	Index    int
	Path     string
	Report   *model.Report
	Error    error
	Duration time.Duration
}

// Err returns the check error, if any
func (r *CheckResult) Err() error {
	return r.Error
}

// BatchSummary counts batch outcomes
type BatchSummary struct {
	Total       int
	Satisfied   int
	Unsatisfied int
	Failed      int
}

// Summarize counts satisfied, unsatisfied and failed checks
func Summarize(results []*CheckResult) BatchSummary {
	s := BatchSummary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Error != nil || r.Report == nil:
			s.Failed++
		case r.Report.Satisfied:
			s.Satisfied++
		default:
			s.Unsatisfied++
		}
	}
	return s
}

// BatchProcessor checks many profiles concurrently
type BatchProcessor struct {
	checker     Checker
	concurrency int
	logger      *slog.Logger
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(checker Checker, concurrency int, logger *slog.Logger) *BatchProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ProcessProfiles checks every profile and returns results in input order.
// Profiles not started before ctx is cancelled report ctx's error.
func (b *BatchProcessor) ProcessProfiles(ctx context.Context, paths []string) []*CheckResult {
	results := make([]*CheckResult, len(paths))
	if len(paths) == 0 {
		return results
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		defer pool.Close()
		for i, path := range paths {
			if !pool.Submit(&CheckJob{Index: i, Path: path, Checker: b.checker}) {
				return
			}
		}
	}()

	for res := range pool.Results() {
		r := res.(*CheckResult)
		results[r.Index] = r
		switch {
		case r.Error != nil:
			b.logger.Warn("profile check failed", "profile", r.Path, "error", r.Error)
		case r.Report != nil:
			b.logger.Debug("profile checked", "profile", r.Path, "satisfied", r.Report.Satisfied, "duration", r.Duration)
		}
	}

	for i, r := range results {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("profile was not checked")
			}
			results[i] = &CheckResult{Index: i, Path: paths[i], Error: err}
		}
	}
	return results
}

// ProcessFile reads a profile list and checks every profile in it
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*CheckResult, error) {
	paths, err := ReadProfileList(listPath)
	if err != nil {
		return nil, fmt.Errorf("read profile list: %w", err)
	}
	return b.ProcessProfiles(ctx, paths), nil
}

// ReadProfileList reads profile paths, one per line. Blank lines and #
// comments are skipped, duplicates dropped, and relative paths resolved
// against the list file's directory.
func ReadProfileList(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(listPath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
