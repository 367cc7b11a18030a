package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docapply/internal/logfields"
	"git.home.luguber.info/inful/docapply/internal/siteconfig"
)

// RepairCmd implements the 'repair' command.
type RepairCmd struct {
	ConfigFile string `arg:"" name:"config-file" help:"Site configuration file to repair" type:"path"`
}

// Run executes the command.
func (r *RepairCmd) Run(global *Global) error {
	changed, err := siteconfig.RepairKnownDefects(r.ConfigFile)
	if err != nil {
		return err
	}
	if changed {
		global.Logger.Info("Repaired site configuration", logfields.Path(r.ConfigFile))
		_, _ = fmt.Fprintf(global.Stdout, "Repaired %s\n", r.ConfigFile)
		return nil
	}
	_, _ = fmt.Fprintf(global.Stdout, "%s has no known defects\n", r.ConfigFile)
	return nil
}
