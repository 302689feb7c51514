package commands

import (
	"log/slog"

	"github.com/docsmith/docsmith/internal/builder"
	"github.com/docsmith/docsmith/internal/logfields"
)

// AllCmd implements the 'all' command: regenerate the reference stubs, then
// run every check session in order. The first failing stage aborts the run.
type AllCmd struct{}

func (a *AllCmd) Run(global *Global, root *CLI) error {
	if err := (&GenerateCmd{Clean: true}).Run(global, root); err != nil {
		return err
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner := builder.NewRunner(cfg)
	for _, session := range []builder.Session{
		builder.HTML,
		builder.Linkcheck,
		builder.Doctest,
		builder.Coverage,
	} {
		slog.Info("Starting session", logfields.Session(session.Name))
		if err := runner.Run(ctx, session); err != nil {
			return err
		}
	}

	slog.Info("All sessions complete", logfields.Path(cfg.Docs.BuildDirectory))
	return nil
}
