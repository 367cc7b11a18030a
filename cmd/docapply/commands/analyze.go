package commands

import (
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/docapply/internal/analyzer"
)

// AnalyzeCmd implements the 'analyze' command.
type AnalyzeCmd struct {
	Repo string `arg:"" help:"Repository to analyze" default:"." type:"path"`
}

// Run executes the command.
func (a *AnalyzeCmd) Run(global *Global) error {
	cfg := global.Config
	meta, err := analyzer.New(analyzer.Options{
		ExcludeDirs:   cfg.Analyzer.ExcludeDirs,
		IncludeHidden: cfg.Analyzer.IncludeHidden,
		Logger:        global.Logger,
	}).Scan(global.Ctx, a.Repo)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(global.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	return nil
}
