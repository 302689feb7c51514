package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/docsmith/docsmith/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsmith.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate  GenerateCmd  `cmd:"" help:"Generate API reference stub pages from package sources"`
	Build     BuildCmd     `cmd:"" help:"Build the HTML documentation"`
	All       AllCmd       `cmd:"" help:"Regenerate stubs, build, and run every check session"`
	Linkcheck LinkcheckCmd `cmd:"" help:"Check documentation for broken links"`
	Spelling  SpellingCmd  `cmd:"" help:"Spell-check the documentation"`
	Coverage  CoverageCmd  `cmd:"" help:"Report documentation coverage"`
	Doctest   DoctestCmd   `cmd:"" help:"Run doctests embedded in the documentation"`
	PDF       PDFCmd       `cmd:"" name:"pdf" help:"Build the PDF documentation"`
	Preview   PreviewCmd   `cmd:"" help:"Serve the documentation locally with live reload"`
	Lint      LintCmd      `cmd:"" help:"Lint the generated reference directory"`
	Clean     CleanCmd     `cmd:"" help:"Remove build artifacts and generated stub pages"`
	Init      InitCmd      `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func loadConfig(root *CLI) (*config.Config, error) {
	return config.Load(root.Config)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
