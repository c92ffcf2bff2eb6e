package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/transfermatch/internal/cache"
	"github.com/ppiankov/transfermatch/internal/combo"
	"github.com/ppiankov/transfermatch/internal/explain"
	"github.com/ppiankov/transfermatch/internal/honors"
	"github.com/ppiankov/transfermatch/internal/llm"
	"github.com/ppiankov/transfermatch/internal/model"
	"github.com/ppiankov/transfermatch/internal/parse"
	"github.com/ppiankov/transfermatch/internal/satisfy"
)

// Advisor loads agreements and student profiles and produces reports
type Advisor struct {
	cfg        *model.Config
	fetcher    *Fetcher
	parser     *parse.Parser
	agreements *cache.AgreementCache
	narrator   *llm.Narrator // nil when narration is off
	renderer   *Renderer
	logger     *slog.Logger
}

// NewAdvisor creates an advisor with the given configuration
func NewAdvisor(cfg *model.Config, logger *slog.Logger) *Advisor {
	if logger == nil {
		logger = slog.Default()
	}

	var narrator *llm.Narrator
	if cfg.LLM.Provider != "" {
		n, err := llm.NewNarrator(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			logger.Warn("LLM narration disabled", "provider", cfg.LLM.Provider, "error", err)
		} else {
			narrator = n
		}
	}

	return &Advisor{
		cfg:        cfg,
		fetcher:    NewFetcher(cfg, cache.New(cfg.Cache), logger),
		parser:     parse.NewParser(cfg.Engine.MaxDepth),
		agreements: cache.NewAgreementCache(cfg.Cache.MemoryTTL),
		narrator:   narrator,
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		logger:     logger,
	}
}

// LoadProfile reads a YAML student profile. Course codes are normalized
// and a relative agreement path is resolved against the profile's directory.
func (a *Advisor) LoadProfile(path string) (model.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Profile{}, fmt.Errorf("read profile: %w", err)
	}

	var p model.Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return model.Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}

	if strings.TrimSpace(p.Agreement) == "" {
		return model.Profile{}, fmt.Errorf("profile %s: agreement is required", path)
	}
	if !IsRemote(p.Agreement) && !filepath.IsAbs(p.Agreement) {
		p.Agreement = filepath.Join(filepath.Dir(path), p.Agreement)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	p.Courses = model.NormalizeCodes(p.Courses)
	if len(p.HonorsPairs) > 0 {
		pairs := make(map[string]string, len(p.HonorsPairs))
		for h, r := range p.HonorsPairs {
			pairs[model.NormalizeCode(h)] = model.NormalizeCode(r)
		}
		p.HonorsPairs = pairs
	}

	return p, nil
}

// LoadAgreement fetches, validates and parses an agreement. Schema
// violations and unparseable parts are logged and kept as markers; the
// load only fails when nothing usable remains.
func (a *Advisor) LoadAgreement(ctx context.Context, source string) (model.Agreement, error) {
	if ag, ok := a.agreements.Get(source); ok {
		agreementLoads.WithLabelValues("parsed").Inc()
		return ag, nil
	}

	data, err := a.fetcher.Load(ctx, source)
	if err != nil {
		return model.Agreement{}, err
	}

	if err := parse.ValidateSchema(data); err != nil {
		var ve *parse.ValidationError
		if errors.As(err, &ve) {
			for _, fe := range ve.Errors {
				a.logger.Warn("agreement schema violation", "source", source, "field", fe.Field, "message", fe.Message)
			}
		} else {
			a.logger.Warn("agreement schema check skipped", "source", source, "error", err)
		}
	}

	ag, err := a.parser.DecodeAgreement(data)
	if err != nil {
		pes := parse.ParseErrors(err)
		if len(pes) == 0 || len(ag.Groups) == 0 {
			return model.Agreement{}, fmt.Errorf("load agreement %s: %w", source, err)
		}
		parseIssues.Add(float64(len(pes)))
		for _, pe := range pes {
			a.logger.Warn("unparseable agreement data", "source", source, "path", pe.Path, "message", pe.Message)
		}
	}

	if ag.SourceURL == "" && IsRemote(source) {
		ag.SourceURL = source
	}

	a.agreements.Add(source, ag)
	return ag, nil
}

// LoadAgreements loads several agreements concurrently, keyed by source
func (a *Advisor) LoadAgreements(ctx context.Context, sources []string) (map[string]model.Agreement, error) {
	results := make([]model.Agreement, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.cfg.Concurrency.Workers, 1))
	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			ag, err := a.LoadAgreement(ctx, source)
			if err != nil {
				return err
			}
			results[i] = ag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]model.Agreement, len(sources))
	for i, source := range sources {
		out[source] = results[i]
	}
	return out, nil
}

// Preload parses the agreements named by a set of profiles so that a batch
// fetches and parses each shared agreement once. Unreadable profiles are
// skipped; they fail again, with their own error, when checked.
func (a *Advisor) Preload(ctx context.Context, profilePaths []string) ([]string, error) {
	var sources []string
	seen := make(map[string]bool)
	for _, path := range profilePaths {
		p, err := a.LoadProfile(path)
		if err != nil || seen[p.Agreement] {
			continue
		}
		seen[p.Agreement] = true
		sources = append(sources, p.Agreement)
	}

	if _, err := a.LoadAgreements(ctx, sources); err != nil {
		return sources, err
	}
	return sources, nil
}

// Lint loads a raw agreement document and reports every problem found
// while reading it
func (a *Advisor) Lint(ctx context.Context, source string) (model.Agreement, []parse.Issue, error) {
	data, err := a.fetcher.Load(ctx, source)
	if err != nil {
		return model.Agreement{}, nil, err
	}
	ag, issues, err := a.parser.LintDocument(data)
	if err != nil {
		return model.Agreement{}, nil, fmt.Errorf("lint %s: %w", source, err)
	}
	return ag, issues, nil
}

// CheckProfile loads a profile file and checks it
func (a *Advisor) CheckProfile(ctx context.Context, path string) (*model.Report, error) {
	p, err := a.LoadProfile(path)
	if err != nil {
		return nil, err
	}
	return a.Check(ctx, p)
}

// Check loads the profile's agreement and evaluates the profile against it
func (a *Advisor) Check(ctx context.Context, p model.Profile) (*model.Report, error) {
	ag, err := a.LoadAgreement(ctx, p.Agreement)
	if err != nil {
		return nil, err
	}
	return a.Evaluate(ctx, p, ag), nil
}

// Evaluate checks every group of the agreement and assembles the report.
// Narration, when enabled, runs last and never changes a verdict.
func (a *Advisor) Evaluate(ctx context.Context, p model.Profile, ag model.Agreement) *model.Report {
	start := time.Now()

	courses := model.NormalizeCodes(p.Courses)
	opts := satisfy.Options{
		HonorsPairs:     p.HonorsPairs,
		DetectRedundant: a.cfg.Engine.DetectRedundant,
	}

	groups := combo.ValidateAgreement(courses, ag, opts)
	satisfied := len(groups) > 0
	for gi := range groups {
		g := &groups[gi]
		if !g.Satisfied {
			satisfied = false
		}
		groupVerdicts.WithLabelValues(verdictLabel(g.Satisfied, g.Malformed)).Inc()
		for si := range g.Sections {
			reqs := g.Sections[si].Requirements
			for ri := range reqs {
				reqs[ri].Explanation = explain.Finalize(reqs[ri].Explanation)
			}
		}
	}

	source := ag.SourceURL
	if source == "" {
		source = p.Agreement
	}

	report := &model.Report{
		RunID:       uuid.NewString(),
		Student:     p.Name,
		Major:       ag.Major,
		From:        ag.From,
		To:          ag.To,
		SourceURL:   source,
		GeneratedAt: time.Now().UTC(),
		Courses:     courses,
		Groups:      groups,
		Satisfied:   satisfied,
	}
	if a.cfg.Engine.DetectRedundant {
		report.Redundant = redundantPairs(courses, ag)
	}
	report.Signals = buildSignals(courses, p.HonorsPairs, ag, groups, report.Redundant)

	evaluationDuration.Observe(time.Since(start).Seconds())
	evaluationsTotal.WithLabelValues(verdictLabel(satisfied, false)).Inc()

	a.logger.Debug("profile evaluated",
		"student", p.Name, "major", ag.Major, "satisfied", satisfied,
		"groups", len(groups), "signals", len(report.Signals))

	if a.narrator.IsEnabled() {
		narrative, err := a.narrator.Narrate(ctx, *report, allowedCourses(courses, p.HonorsPairs, ag))
		if err != nil {
			a.logger.Warn("narration failed", "error", err)
		}
		report.Narrative = narrative
	}

	return report
}

// CourseAdvice answers what one community college course does in an agreement
type CourseAdvice struct {
	Course    string              `json:"course"`
	Reach     model.CourseReach   `json:"reach"`
	UCCourse  string              `json:"uc_course,omitempty"`
	Single    *model.SingleResult `json:"single,omitempty"`
	Logic     *model.LogicSummary `json:"logic,omitempty"`
	Accepted  string              `json:"accepted,omitempty"`
	Text      string              `json:"text"`
	SourceURL string              `json:"source_url,omitempty"`
}

// Course reports the UC courses one CCC course satisfies in the agreement.
// With ucCourse set it also answers whether the course satisfies that UC
// course on its own.
func (a *Advisor) Course(ctx context.Context, source, code, ucCourse string) (*CourseAdvice, error) {
	ag, err := a.LoadAgreement(ctx, source)
	if err != nil {
		return nil, err
	}

	advice := &CourseAdvice{
		Course:    model.NormalizeCode(code),
		Reach:     combo.CourseReach(code, ag),
		SourceURL: ag.SourceURL,
	}
	if ucCourse == "" {
		advice.Text = explain.RenderReach(advice.Reach)
		return advice, nil
	}

	req, ok := ag.FindRequirement(ucCourse)
	if !ok {
		return nil, fmt.Errorf("UC course %s is not in this agreement", model.NormalizeCode(ucCourse))
	}

	single := satisfy.Single(code, req.Logic)
	summary := satisfy.Summarize(req.Logic)
	advice.UCCourse = req.ID
	advice.Single = &single
	advice.Logic = &summary
	advice.Accepted = explain.RenderLogic(req.Logic)
	advice.Text = explain.RenderSingle(single, req.ID)
	return advice, nil
}

// RenderReport writes the requested outputs and returns the paths written
func (a *Advisor) RenderReport(report *model.Report, jsonPath, mdPath string) ([]string, error) {
	var written []string

	if jsonPath != "" {
		if err := a.renderer.RenderJSON(report, jsonPath); err != nil {
			return written, fmt.Errorf("render JSON: %w", err)
		}
		written = append(written, jsonPath)
	}

	if mdPath != "" {
		if err := a.renderer.RenderMarkdown(report, mdPath); err != nil {
			return written, fmt.Errorf("render markdown: %w", err)
		}
		written = append(written, mdPath)

		if notes := llm.RenderSeparateMarkdown(report.Narrative); notes != "" {
			notesPath := strings.TrimSuffix(mdPath, ".md") + ".advisor.md"
			if err := os.WriteFile(notesPath, []byte(notes), 0o644); err != nil {
				a.logger.Warn("writing advisor notes failed", "path", notesPath, "error", err)
			} else {
				written = append(written, notesPath)
			}
		}
	}

	return written, nil
}

// Renderer returns the advisor's renderer
func (a *Advisor) Renderer() *Renderer {
	return a.renderer
}

func verdictLabel(satisfied, malformed bool) string {
	switch {
	case malformed:
		return "malformed"
	case satisfied:
		return "satisfied"
	default:
		return "unsatisfied"
	}
}

// redundantPairs collects honors/non-honors duplicates requirement by
// requirement, so only alternatives of the same requirement are paired
func redundantPairs(courses []string, ag model.Agreement) [][2]string {
	seen := make(map[[2]string]bool)
	var out [][2]string
	for _, r := range ag.Requirements() {
		for _, pair := range honors.DetectRedundant(courses, r.Logic) {
			if !seen[pair] {
				seen[pair] = true
				out = append(out, pair)
			}
		}
	}
	return out
}

func buildSignals(courses []string, pairs map[string]string, ag model.Agreement, groups []model.GroupVerdict, redundant [][2]string) []model.Signal {
	var signals []model.Signal

	for _, pair := range redundant {
		signals = append(signals, model.Signal{
			Type:        model.SignalRedundantCourses,
			Severity:    model.SeverityWarning,
			Description: honors.ExplainEquivalence(pair[0], pair[1]),
			Data:        map[string]any{"courses": []string{pair[0], pair[1]}},
		})
	}

	for _, g := range groups {
		if g.Malformed {
			signals = append(signals, model.Signal{
				Type:        model.SignalMalformed,
				Severity:    model.SeverityCritical,
				Description: fmt.Sprintf("Group %s: %s", g.GroupID, g.Reason),
				Data:        map[string]any{"group": g.GroupID},
			})
		}
		for _, s := range g.Sections {
			if s.Malformed {
				signals = append(signals, model.Signal{
					Type:        model.SignalMalformed,
					Severity:    model.SeverityCritical,
					Description: fmt.Sprintf("Group %s section %s: %s", g.GroupID, s.SectionID, s.Reason),
					Data:        map[string]any{"group": g.GroupID, "section": s.SectionID},
				})
			}
			for _, r := range s.Requirements {
				data := map[string]any{"group": g.GroupID, "section": s.SectionID, "uc_course": r.UCCourse}
				switch {
				case r.Explanation.Unparseable:
					signals = append(signals, model.Signal{
						Type:        model.SignalUnparseable,
						Severity:    model.SeverityCritical,
						Description: fmt.Sprintf("The articulation data for %s could not be read", r.UCCourse),
						Data:        data,
					})
				case r.Explanation.NoArticulation:
					signals = append(signals, model.Signal{
						Type:        model.SignalNoArticulation,
						Severity:    model.SeverityInfo,
						Description: fmt.Sprintf("%s has no articulated course and must be completed at the university", r.UCCourse),
						Data:        data,
					})
				case r.Explanation.HonorsRequired && !r.Satisfied:
					signals = append(signals, model.Signal{
						Type:        model.SignalHonorsOnly,
						Severity:    model.SeverityInfo,
						Description: fmt.Sprintf("%s accepts only honors sections", r.UCCourse),
						Data:        data,
					})
				}
			}
		}
	}

	for _, c := range courses {
		if appears(c, ag) || (pairs[c] != "" && appears(pairs[c], ag)) {
			continue
		}
		signals = append(signals, model.Signal{
			Type:        model.SignalUnknownCourse,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("%s does not appear in this agreement", c),
			Data:        map[string]any{"course": c},
		})
	}

	return signals
}

func appears(code string, ag model.Agreement) bool {
	reach := combo.CourseReach(code, ag)
	return len(reach.Direct) > 0 || len(reach.Contributes) > 0
}

// allowedCourses is every course code narration may mention
func allowedCourses(courses []string, pairs map[string]string, ag model.Agreement) []string {
	all := append([]string(nil), courses...)
	for h, r := range pairs {
		all = append(all, h, r)
	}
	for _, req := range ag.Requirements() {
		all = append(all, req.ID)
		for _, c := range req.Logic.Leaves() {
			if !c.IsNoArticulation() {
				all = append(all, c.Code)
			}
		}
	}
	out := model.NormalizeCodes(all)
	slices.Sort(out)
	return out
}
