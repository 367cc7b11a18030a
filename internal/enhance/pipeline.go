// Package enhance replaces content markers in generated pages with text from
// a generation capability, retrying until the result lints clean.
package enhance

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docapply/internal/analyzer"
	"git.home.luguber.info/inful/docapply/internal/config"
	derrors "git.home.luguber.info/inful/docapply/internal/errors"
	"git.home.luguber.info/inful/docapply/internal/escape"
	"git.home.luguber.info/inful/docapply/internal/generation"
	"git.home.luguber.info/inful/docapply/internal/lint"
	"git.home.luguber.info/inful/docapply/internal/logfields"
	"git.home.luguber.info/inful/docapply/internal/metrics"
	"git.home.luguber.info/inful/docapply/internal/prompts"
	"git.home.luguber.info/inful/docapply/internal/retry"
)

// Attempt records one generation request while a file is in the loop.
type Attempt struct {
	Number     int
	Content    string
	LintErrors []lint.Error
	Residual   []string
	Outcome    Outcome
}

// Pipeline runs the enhancement loop over pages.
type Pipeline struct {
	generator generation.Generator
	linter    lint.ContentLinter
	builder   *prompts.Builder
	policy    retry.Policy
	recorder  metrics.Recorder
	logger    *slog.Logger

	marker    string
	siteToken string
	keywords  []string
	strict    bool
	escape    bool

	writeFile func(name string, data []byte, perm os.FileMode) error
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPolicy sets the attempt budget and backoff.
func WithPolicy(p retry.Policy) Option { return func(pl *Pipeline) { pl.policy = p } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(pl *Pipeline) { pl.recorder = r } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(pl *Pipeline) { pl.logger = l } }

// WithPromptBuilder sets the prompt builder.
func WithPromptBuilder(b *prompts.Builder) Option { return func(pl *Pipeline) { pl.builder = b } }

// WithStrict makes an exhausted file stop the whole run.
func WithStrict(strict bool) Option { return func(pl *Pipeline) { pl.strict = strict } }

// WithEscape toggles escaping generated content before it is linted.
func WithEscape(enabled bool) Option { return func(pl *Pipeline) { pl.escape = enabled } }

// WithMarker sets the content marker and the site-wide token that must not survive generation.
func WithMarker(marker, siteToken string) Option {
	return func(pl *Pipeline) { pl.marker, pl.siteToken = marker, siteToken }
}

// WithPriorityKeywords sets the file name keywords processed first.
func WithPriorityKeywords(keywords []string) Option {
	return func(pl *Pipeline) { pl.keywords = keywords }
}

// FromConfig returns the options described by an enhancement configuration.
func FromConfig(cfg config.EnhancementConfig) []Option {
	return []Option{
		WithPolicy(retry.FromConfig(cfg)),
		WithStrict(cfg.Strict),
		WithEscape(cfg.ShouldEscape()),
		WithMarker(cfg.Marker, cfg.SiteToken),
		WithPriorityKeywords(cfg.PriorityKeywords),
	}
}

// New returns a pipeline with the defaults: ten attempts without delay,
// escaping on, the built-in prompts and the default marker.
func New(gen generation.Generator, linter lint.ContentLinter, opts ...Option) *Pipeline {
	p := &Pipeline{
		generator: gen,
		linter:    linter,
		policy:    retry.DefaultPolicy(),
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
		marker:    config.DefaultMarker,
		siteToken: config.DefaultSiteToken,
		keywords:  config.DefaultPriorityKeywords,
		escape:    true,
		writeFile: os.WriteFile,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.builder == nil {
		p.builder = prompts.NewBuilder(prompts.NewRegistry(""), p.marker, config.DefaultMaxPromptLength)
	}
	if p.linter == nil {
		p.linter = lint.NewLinter(nil)
	}
	if p.generator == nil {
		p.generator = generation.None{}
	}
	return p
}

// Summary reports what EnhanceAll did.
type Summary struct {
	Accepted  []string
	Skipped   []string
	Exhausted []string
	Failed    []string
	Attempts  int
}

// EnhanceAll enhances files in priority order. Exhausted files are logged and
// skipped unless the pipeline is strict, in which case the first one stops the
// run and its error is returned.
func (p *Pipeline) EnhanceAll(ctx context.Context, files []string, meta *analyzer.Metadata) (Summary, error) {
	var sum Summary
	for _, path := range Order(files, p.keywords) {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res, err := p.run(ctx, path, meta)
		sum.Attempts += res.attempts
		switch {
		case err == nil && res.skipped:
			sum.Skipped = append(sum.Skipped, path)
		case err == nil:
			sum.Accepted = append(sum.Accepted, path)
		case derrors.IsCategory(err, derrors.CategoryEnhancement):
			sum.Exhausted = append(sum.Exhausted, path)
			if derrors.IsFatal(err) {
				return sum, err
			}
		case ctx.Err() != nil:
			return sum, ctx.Err()
		default:
			sum.Failed = append(sum.Failed, path)
			p.logger.Warn("Skipping page", logfields.File(path), logfields.Error(err))
		}
	}
	p.logger.Info("Content enhancement complete",
		slog.Int("accepted", len(sum.Accepted)),
		slog.Int("skipped", len(sum.Skipped)),
		slog.Int("exhausted", len(sum.Exhausted)),
		logfields.Count(sum.Attempts))
	return sum, nil
}

// Enhance runs the loop for one file. It returns true when the file was
// accepted or had no marker. An exhausted budget returns false with an
// EnhancementExhausted error that is fatal only in strict mode; the file
// keeps its original content.
func (p *Pipeline) Enhance(ctx context.Context, path string, meta *analyzer.Metadata) (bool, error) {
	_, err := p.run(ctx, path, meta)
	return err == nil, err
}

type fileResult struct {
	skipped  bool
	attempts int
	last     *Attempt
}

func (p *Pipeline) run(ctx context.Context, path string, meta *analyzer.Metadata) (fileResult, error) {
	var res fileResult

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return res, derrors.NotFound(path)
		}
		return res, derrors.Wrap(err, derrors.CategoryFileSystem, derrors.SeverityWarning, "stat page").WithContext("path", path)
	}
	// #nosec G304 -- path is a page inside the output tree
	data, err := os.ReadFile(path)
	if err != nil {
		return res, derrors.Wrap(err, derrors.CategoryFileSystem, derrors.SeverityWarning, "read page").WithContext("path", path)
	}
	original := string(data)
	log := p.logger.With(logfields.File(path))
	maxAttempts := p.policy.MaxAttempts

	outcome := OutcomeNone
	if len(Residual(original, p.marker)) == 0 {
		outcome = OutcomeNoMarker
	}
	state := Next(StatePending, 0, maxAttempts, outcome)

	var (
		prompt    string
		candidate string
		generated string
		started   = time.Now()
	)
	if state == StateGenerating {
		var truncated bool
		prompt, truncated, err = p.builder.Build(path, original, prompts.NewData(meta, path))
		if err != nil {
			return res, err
		}
		if truncated {
			log.Warn("Page exceeds prompt length limit, keeping original content",
				slog.Int("size", len(original)), slog.Int("limit", p.builder.MaxLength()))
			return res, derrors.PageTooLarge(path, len(original), p.builder.MaxLength())
		}
	}

	for !state.Terminal() {
		switch state {
		case StateGenerating:
			res.attempts++
			p.recorder.IncEnhancementAttempt()
			generated, err = p.generator.Generate(ctx, prompt)
			if err != nil {
				if ctx.Err() != nil {
					return res, ctx.Err()
				}
				log.Debug("Generation returned no result", logfields.Attempt(res.attempts), logfields.Error(err))
				generated = ""
			}
			outcome = Evaluate(original, generated, nil, nil)
			res.last = &Attempt{Number: res.attempts, Content: generated, Outcome: outcome}
		case StateValidating:
			candidate = generated
			if p.escape {
				candidate = escape.Escape(candidate)
			}
			// Escaping rewrites braces, so residual tokens are looked for in the raw text.
			res.last.Residual = Residual(generated, p.marker, p.siteToken)
			res.last.LintErrors = p.linter.Lint(candidate, filepath.Base(path))
			outcome = Evaluate(original, candidate, res.last.LintErrors, res.last.Residual)
			res.last.Outcome = outcome
			if outcome == OutcomeRejected {
				log.Debug("Generated content rejected",
					logfields.Attempt(res.attempts),
					slog.Int("critical_lint_errors", len(lint.Critical(res.last.LintErrors))),
					slog.Any("residual", res.last.Residual))
			}
		case StateRetry:
			if err := p.policy.Wait(ctx, res.attempts); err != nil {
				return res, err
			}
			outcome = OutcomeNone
		}
		state = Next(state, res.attempts, maxAttempts, outcome)
	}

	switch {
	case state == StateAccepted && outcome == OutcomeNoMarker:
		res.skipped = true
		p.recorder.IncEnhancementOutcome(metrics.EnhancementSkipped)
		log.Debug("No content marker, skipping")
		return res, nil
	case state == StateAccepted:
		// #nosec G306 -- keeps the page's existing mode
		if err := p.writeFile(path, []byte(candidate), info.Mode().Perm()); err != nil {
			return res, derrors.Wrap(err, derrors.CategoryFileSystem, derrors.SeverityWarning, "write page").WithContext("path", path)
		}
		p.recorder.IncEnhancementOutcome(metrics.EnhancementSuccess)
		p.recorder.ObserveStageDuration("enhance_file", time.Since(started))
		log.Info("Page enhanced", logfields.Attempt(res.attempts), logfields.State(state.String()))
		return res, nil
	default:
		p.recorder.IncEnhancementOutcome(metrics.EnhancementExhausted)
		exhausted := derrors.EnhancementExhausted(path, res.attempts, p.strict)
		if p.strict {
			log.Error("Enhancement budget exhausted", logfields.MaxAttempts(maxAttempts), logfields.State(state.String()))
		} else {
			log.Warn("Enhancement budget exhausted, keeping original content", logfields.MaxAttempts(maxAttempts), logfields.State(state.String()))
		}
		return res, exhausted
	}
}
