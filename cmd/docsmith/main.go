package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/docsmith/docsmith/cmd/docsmith/commands"
	"github.com/docsmith/docsmith/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("docsmith"),
		kong.Description("Documentation automation: API reference stubs, builds, checks, and live preview."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	global := &commands.Global{Logger: slog.Default()}
	if err := ctx.Run(global, &cli); err != nil {
		slog.Error("command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
