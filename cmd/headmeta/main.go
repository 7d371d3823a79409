package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/headmeta/cmd/headmeta/commands"
	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
	"git.home.luguber.info/inful/headmeta/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Stdout: os.Stdout, Stdin: os.Stdin}
	ctx := kong.Parse(cli,
		kong.Name("headmeta"),
		kong.Description("Inject title, canonical, description, Open Graph and Twitter metadata into HTML documents."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	if err := ctx.Run(global, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
