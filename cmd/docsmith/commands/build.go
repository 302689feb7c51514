package commands

import (
	"log/slog"
	"os"

	"github.com/docsmith/docsmith/internal/builder"
	"github.com/docsmith/docsmith/internal/logfields"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct{}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner := builder.NewRunner(cfg)
	if err := runner.Run(ctx, builder.HTML); err != nil {
		return err
	}
	slog.Info("documentation built", logfields.Path(runner.OutDir(builder.HTML)))
	return nil
}

// LinkcheckCmd implements the 'linkcheck' command.
type LinkcheckCmd struct{}

func (l *LinkcheckCmd) Run(_ *Global, root *CLI) error {
	return runCheckSession(root, builder.Linkcheck)
}

// SpellingCmd implements the 'spelling' command.
type SpellingCmd struct{}

func (s *SpellingCmd) Run(_ *Global, root *CLI) error {
	return runCheckSession(root, builder.Spelling)
}

// CoverageCmd implements the 'coverage' command.
type CoverageCmd struct{}

func (c *CoverageCmd) Run(_ *Global, root *CLI) error {
	return runCheckSession(root, builder.Coverage)
}

// DoctestCmd implements the 'doctest' command.
type DoctestCmd struct{}

func (d *DoctestCmd) Run(_ *Global, root *CLI) error {
	return runCheckSession(root, builder.Doctest)
}

func runCheckSession(root *CLI, session builder.Session) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner := builder.NewRunner(cfg)
	if err := runner.Run(ctx, session); err != nil {
		return err
	}
	if report := runner.ReportPath(session); report != "" {
		if _, err := os.Stat(report); err == nil {
			slog.Info("session report available",
				logfields.Session(session.Name), logfields.File(report))
		}
	}
	return nil
}

// PDFCmd implements the 'pdf' command.
type PDFCmd struct{}

func (p *PDFCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner := builder.NewRunner(cfg)
	if err := runner.RunPDF(ctx); err != nil {
		return err
	}
	slog.Info("pdf built", logfields.Path(runner.OutDir(builder.Latex)))
	return nil
}
