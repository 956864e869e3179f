package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/exhibitpal/cmd/exhibitpal/commands"
	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("exhibitpal"),
		kong.Description("Static exhibition site generator fed by Google Sheets."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Ctx: ctx, Logger: slog.Default()}
	if err := parser.Run(global, cli); err != nil {
		stop()
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
