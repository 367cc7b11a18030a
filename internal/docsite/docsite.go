// Package docsite runs a whole documentation site generation: analyze the
// repository, lay down the template, fill it in and repair the result.
package docsite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docapply/internal/analyzer"
	"git.home.luguber.info/inful/docapply/internal/config"
	"git.home.luguber.info/inful/docapply/internal/enhance"
	derrors "git.home.luguber.info/inful/docapply/internal/errors"
	"git.home.luguber.info/inful/docapply/internal/generation"
	"git.home.luguber.info/inful/docapply/internal/lint"
	"git.home.luguber.info/inful/docapply/internal/logfields"
	"git.home.luguber.info/inful/docapply/internal/metrics"
	"git.home.luguber.info/inful/docapply/internal/placeholders"
	"git.home.luguber.info/inful/docapply/internal/prompts"
	"git.home.luguber.info/inful/docapply/internal/siteconfig"
	"git.home.luguber.info/inful/docapply/internal/validation"
)

// Stage names used in logs and metrics.
const (
	StageAnalyze     = "analyze"
	StageTemplate    = "template"
	StageSubstitute  = "substitute"
	StageEnhance     = "enhance"
	StageFrontMatter = "front_matter"
	StageValidate    = "validate"
	StageRepair      = "repair"
)

// Options describe one run.
type Options struct {
	// RepoPath is the repository documentation is generated for.
	RepoPath string
	// TemplateDir is the site skeleton copied into OutputDir. Empty reuses
	// whatever OutputDir already holds.
	TemplateDir string
	// OutputDir receives the generated site.
	OutputDir string

	Config    *config.Config
	Generator generation.Generator
	Linter    lint.ContentLinter
	Recorder  metrics.Recorder
	Logger    *slog.Logger
	// Now is the clock used for the footer year. Nil uses time.Now.
	Now func() time.Time
}

// Report is what a run did.
type Report struct {
	RunID          string
	Metadata       *analyzer.Metadata
	Substitution   placeholders.Result
	Enhancement    enhance.Summary
	FrontMatter    []string
	Valid          bool
	Issues         []validation.Issue
	ConfigCreated  bool
	ConfigRepaired bool
	SidebarChanged bool
	PackageChanged bool
}

// Runner executes runs with fixed options.
type Runner struct {
	opts Options
}

// New validates opts and fills defaults.
func New(opts Options) (*Runner, error) {
	if opts.RepoPath == "" {
		return nil, derrors.ValidationFailed("repo", "repository path is required")
	}
	if opts.OutputDir == "" {
		return nil, derrors.ValidationFailed("output", "output directory is required")
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Generator == nil {
		opts.Generator = generation.None{}
	}
	if opts.Linter == nil {
		opts.Linter = lint.NewLinter(nil)
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{opts: opts}, nil
}

// DocsDir is the docs directory inside the output tree.
func (r *Runner) DocsDir() string {
	return filepath.Join(r.opts.OutputDir, r.opts.Config.Site.DocsDir)
}

// Run executes every stage in order. Only a missing input, a workspace
// failure, strict enhancement exhaustion, a broken site config or
// cancellation stop the run; validation findings are returned in the report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	report := &Report{RunID: uuid.NewString()}
	log := r.opts.Logger.With(logfields.RunID(report.RunID))
	rec := r.opts.Recorder
	cfg := r.opts.Config

	err := r.run(ctx, log, report)

	outcome := "success"
	switch {
	case ctx.Err() != nil:
		outcome = "canceled"
	case err != nil:
		outcome = "failed"
	case !report.Valid:
		outcome = "warning"
	}
	rec.IncRunOutcome(outcome)
	rec.ObserveRunDuration(time.Since(started))
	if err != nil {
		log.Error("Run failed", logfields.Error(err))
		return report, err
	}

	log.Info("Run complete",
		slog.String("outcome", outcome),
		logfields.Path(r.opts.OutputDir),
		slog.Int("issues", len(report.Issues)),
		logfields.DurationMS(float64(time.Since(started).Microseconds())/1000))
	if cfg.Validation.FailOnIssues && !report.Valid {
		return report, derrors.New(derrors.CategoryValidation, derrors.SeverityError, "documentation has validation issues").
			WithContext("issues", len(report.Issues))
	}
	return report, nil
}

func (r *Runner) run(ctx context.Context, log *slog.Logger, report *Report) error {
	cfg := r.opts.Config
	out := r.opts.OutputDir
	docsDir := r.DocsDir()

	var meta *analyzer.Metadata
	if err := r.stage(ctx, log, StageAnalyze, func() error {
		var err error
		meta, err = analyzer.New(analyzer.Options{
			ExcludeDirs:   cfg.Analyzer.ExcludeDirs,
			IncludeHidden: cfg.Analyzer.IncludeHidden,
			Logger:        log,
		}).Scan(ctx, r.opts.RepoPath)
		return err
	}); err != nil {
		return err
	}
	report.Metadata = meta

	if err := r.stage(ctx, log, StageTemplate, func() error {
		if r.opts.TemplateDir != "" {
			if info, err := os.Stat(r.opts.TemplateDir); err != nil || !info.IsDir() {
				return derrors.NotFound(r.opts.TemplateDir)
			}
			if err := CopyTree(r.opts.TemplateDir, out); err != nil {
				return derrors.WorkspaceError("copy template", err)
			}
		}
		if err := os.MkdirAll(docsDir, 0o750); err != nil {
			return derrors.WorkspaceError("create docs directory", err)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, log, StageSubstitute, func() error {
		readme := ""
		if p := analyzer.FindReadme(meta.RootPath); p != "" {
			// #nosec G304 -- README inside the analyzed repository
			if data, err := os.ReadFile(p); err == nil {
				readme = string(data)
			}
		}
		var err error
		report.Substitution, err = placeholders.NewEngine(cfg.Substitution.Suffixes, log).
			Sweep(ctx, out, placeholders.Build(meta, readme))
		return err
	}); err != nil {
		return err
	}

	pages, err := DocPages(docsDir)
	if err != nil {
		return derrors.WorkspaceError("list docs", err)
	}

	if err := r.stage(ctx, log, StageEnhance, func() error {
		opts := append(enhance.FromConfig(cfg.Enhancement),
			enhance.WithLogger(log),
			enhance.WithRecorder(r.opts.Recorder),
			enhance.WithPromptBuilder(prompts.NewBuilder(
				prompts.NewRegistry(cfg.Enhancement.PromptsFile),
				cfg.Enhancement.Marker,
				cfg.Generator.MaxPromptLength)))
		var err error
		report.Enhancement, err = enhance.New(r.opts.Generator, r.opts.Linter, opts...).EnhanceAll(ctx, pages, meta)
		return err
	}); err != nil {
		return err
	}

	_ = r.stage(ctx, log, StageFrontMatter, func() error {
		for _, p := range pages {
			changed, err := NormalizeFrontMatter(docsDir, p)
			if err != nil {
				log.Warn("Front matter left as is", logfields.File(p), logfields.Error(err))
				continue
			}
			if changed {
				report.FrontMatter = append(report.FrontMatter, p)
			}
		}
		return nil
	})

	_ = r.stage(ctx, log, StageValidate, func() error {
		report.Valid, report.Issues = validation.New(
			validation.WithLogger(log),
			validation.WithRecorder(r.opts.Recorder),
		).ValidateAll(docsDir)
		return nil
	})

	return r.stage(ctx, log, StageRepair, func() error {
		return r.repair(log, meta, report)
	})
}

func (r *Runner) repair(log *slog.Logger, meta *analyzer.Metadata, report *Report) error {
	site := r.opts.Config.Site
	out := r.opts.OutputDir
	configPath := filepath.Join(out, site.ConfigFile)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := siteconfig.BuildSiteConfig(meta, siteconfig.Options{
			Tagline:     site.Tagline,
			URL:         site.URL,
			SidebarFile: site.SidebarFile,
			Year:        r.opts.Now().Year(),
		})
		if err := siteconfig.Save(configPath, cfg); err != nil {
			return derrors.RepairFailed(configPath, err)
		}
		report.ConfigCreated = true
	}

	repaired, err := siteconfig.RepairKnownDefects(configPath)
	if err != nil {
		return err
	}
	report.ConfigRepaired = repaired

	docs, err := siteconfig.CollectDocs(r.DocsDir())
	if err != nil {
		return derrors.RepairFailed(r.DocsDir(), err)
	}
	sidebarPath := filepath.Join(out, site.SidebarFile)
	if report.SidebarChanged, err = siteconfig.WriteSidebar(sidebarPath, docs); err != nil {
		return derrors.RepairFailed(sidebarPath, err)
	}

	packagePath := filepath.Join(out, site.PackageFile)
	if _, statErr := os.Stat(packagePath); statErr == nil {
		if report.PackageChanged, err = siteconfig.UpdatePackageDescriptor(packagePath, meta); err != nil {
			return err
		}
	} else {
		log.Debug("No package descriptor to update", logfields.Path(packagePath))
	}
	return nil
}

// stage runs fn and records its duration and result.
func (r *Runner) stage(ctx context.Context, log *slog.Logger, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	started := time.Now()
	log.Debug("Stage started", logfields.Stage(name))
	err := fn()
	r.opts.Recorder.ObserveStageDuration(name, time.Since(started))

	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case ctx.Err() != nil:
		result = metrics.ResultCanceled
	case derrors.IsFatal(err):
		result = metrics.ResultFatal
	default:
		result = metrics.ResultWarning
	}
	r.opts.Recorder.IncStageResult(name, result)
	if err != nil {
		log.Debug("Stage failed", logfields.Stage(name), logfields.Error(err))
	}
	return err
}
