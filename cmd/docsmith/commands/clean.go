package commands

import (
	"log/slog"

	"github.com/docsmith/docsmith/internal/builder"
	"github.com/docsmith/docsmith/internal/logfields"
	"github.com/docsmith/docsmith/internal/stub"
)

// CleanCmd implements the 'clean' command: it removes the build tree and the
// generated stub pages, leaving hand-written sources untouched.
type CleanCmd struct {
	Stubs bool `help:"Also remove generated reference stub pages" default:"true" negatable:""`
}

func (c *CleanCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	if err := builder.NewRunner(cfg).CleanBuild(); err != nil {
		return err
	}
	if c.Stubs {
		if err := stub.Clean(cfg.Reference.Directory, cfg.Reference.Format); err != nil {
			return err
		}
	}
	slog.Info("clean complete", logfields.Path(cfg.Docs.BuildDirectory))
	return nil
}
