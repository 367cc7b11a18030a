package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docapply/cmd/docapply/commands"
	derrors "git.home.luguber.info/inful/docapply/internal/errors"
	"git.home.luguber.info/inful/docapply/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("docapply"),
		kong.Description("Generate a documentation site for a repository from a site template."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	global, err := cli.Setup(ctx, os.Stdout, os.Stderr)
	if err != nil {
		derrors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
		return
	}

	err = parser.Run(global)
	global.Flush()
	if err != nil {
		stop()
		derrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
