package commands

import (
	"fmt"

	derrors "git.home.luguber.info/inful/docapply/internal/errors"
	"git.home.luguber.info/inful/docapply/internal/validation"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	DocsDir string `arg:"" name:"docs-dir" help:"Docs directory to validate" default:"./docs" type:"path"`
	Format  string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Preview int    `help:"Issues previewed per type (0 uses the configured value)"`
}

// Run executes the command.
func (v *ValidateCmd) Run(global *Global) error {
	preview := v.Preview
	if preview <= 0 {
		preview = global.Config.Validation.PreviewPerType
	}
	validator := validation.New(
		validation.WithLogger(global.Logger),
		validation.WithRecorder(global.Recorder),
	)
	valid, issues := validator.ValidateAll(v.DocsDir)
	if err := validation.Write(global.Stdout, v.Format, issues, preview); err != nil {
		return fmt.Errorf("write validation report: %w", err)
	}
	if !valid {
		return derrors.New(derrors.CategoryValidation, derrors.SeverityWarning, "documentation has validation issues").
			WithContext("issues", len(issues))
	}
	return nil
}
