package commands

import (
	"errors"
	"fmt"

	derrors "git.home.luguber.info/inful/docapply/internal/errors"
	"git.home.luguber.info/inful/docapply/internal/lint"
)

// errLintWarnings exits with the generic failure code.
var errLintWarnings = errors.New("lint warnings found")

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Path   string `arg:"" optional:"" help:"Path to lint (file or directory). Defaults to the configured docs directory" type:"path"`
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Quiet  bool   `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
}

// Run executes the command. Errors exit with the validation code, warnings
// with the generic failure code unless quiet.
func (l *LintCmd) Run(global *Global) error {
	path := l.Path
	detected := false
	if path == "" {
		path = global.Config.Site.DocsDir
		detected = exists(path)
		if !detected {
			path = "."
		}
	}

	linter := lint.NewLinter(&lint.Config{Quiet: l.Quiet, Format: l.Format})
	result, err := linter.LintPath(path)
	if err != nil {
		return err
	}
	if err := lint.NewFormatter(l.Format).Format(global.Stdout, result, path, detected); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	switch {
	case result.HasErrors():
		return derrors.New(derrors.CategoryValidation, derrors.SeverityError, "lint errors found").
			WithContext("errors", result.ErrorCount())
	case result.HasWarnings() && !l.Quiet:
		return errLintWarnings
	}
	return nil
}
