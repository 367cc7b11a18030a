package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/docapply/internal/config"
	"git.home.luguber.info/inful/docapply/internal/docsite"
	"git.home.luguber.info/inful/docapply/internal/generation"
	"git.home.luguber.info/inful/docapply/internal/validation"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Repo        string `arg:"" help:"Repository to document" default:"." type:"path"`
	Template    string `short:"t" help:"Site template directory copied into the output" type:"path"`
	Output      string `short:"o" help:"Output directory for the generated site" default:"./site" type:"path"`
	Strict      bool   `help:"Stop the run when a page exhausts its enhancement attempts"`
	Provider    string `help:"Generator provider (ollama or none)"`
	Model       string `help:"Generator model"`
	Host        string `help:"Generator host URL"`
	MaxAttempts int    `name:"max-attempts" help:"Enhancement attempts per page"`
	NoEscape    bool   `name:"no-escape" help:"Do not escape generated content before linting"`
	Format      string `short:"f" default:"text" help:"Validation report format (text or json)" enum:"text,json"`
}

// Run executes the command.
func (g *GenerateCmd) Run(global *Global) error {
	cfg := global.Config
	g.apply(cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	gen, err := generation.New(cfg.Generator, global.Logger)
	if err != nil {
		return err
	}
	runner, err := docsite.New(docsite.Options{
		RepoPath:    g.Repo,
		TemplateDir: g.Template,
		OutputDir:   g.Output,
		Config:      cfg,
		Generator:   gen,
		Recorder:    global.Recorder,
		Logger:      global.Logger,
	})
	if err != nil {
		return err
	}

	report, err := runner.Run(global.Ctx)
	if report != nil && report.Metadata != nil {
		if werr := validation.Write(global.Stdout, g.Format, report.Issues, cfg.Validation.PreviewPerType); werr != nil {
			return fmt.Errorf("write validation report: %w", werr)
		}
		if g.Format == "text" {
			e := report.Enhancement
			_, _ = fmt.Fprintf(global.Stdout, "Site written to %s (enhanced %d, skipped %d, exhausted %d, failed %d)\n",
				filepath.Clean(g.Output), len(e.Accepted), len(e.Skipped), len(e.Exhausted), len(e.Failed))
		}
	}
	return err
}

// apply overlays explicit flags onto the loaded configuration.
func (g *GenerateCmd) apply(cfg *config.Config) {
	if g.Strict {
		cfg.Enhancement.Strict = true
	}
	if g.NoEscape {
		off := false
		cfg.Enhancement.EscapeOutput = &off
	}
	if g.MaxAttempts > 0 {
		cfg.Enhancement.MaxAttempts = g.MaxAttempts
	}
	if g.Provider != "" {
		cfg.Generator.Provider = g.Provider
	}
	if g.Model != "" {
		cfg.Generator.Model = g.Model
	}
	if g.Host != "" {
		cfg.Generator.Host = g.Host
	}
}
