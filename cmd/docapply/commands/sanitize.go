package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docapply/internal/siteconfig"
	"git.home.luguber.info/inful/docapply/internal/version"
)

// SanitizeCmd implements the 'sanitize' command.
type SanitizeCmd struct {
	Name string `arg:"" help:"Name to sanitize"`
}

// Run executes the command.
func (s *SanitizeCmd) Run(global *Global) error {
	_, err := fmt.Fprintln(global.Stdout, siteconfig.SanitizeName(s.Name))
	return err
}

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

// Run executes the command.
func (VersionCmd) Run(global *Global) error {
	_, err := fmt.Fprintln(global.Stdout, version.String())
	return err
}
