package commands

import (
	"os"

	"github.com/docsmith/docsmith/internal/lint"
)

// LintCmd implements the 'lint' command. Exit codes mirror the usual linter
// convention: 0 clean, 1 warnings, 2 errors.
type LintCmd struct {
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Quiet  bool   `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
}

func (l *LintCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	linter := lint.NewLinter(&lint.Config{Format: cfg.Reference.Format, Quiet: l.Quiet})
	result, err := linter.LintDir(cfg.Reference.Directory)
	if err != nil {
		return err
	}

	if err := lint.NewFormatter(l.Format).Format(os.Stdout, result, cfg.Reference.Directory); err != nil {
		return err
	}

	switch {
	case result.HasErrors():
		os.Exit(2)
	case result.HasWarnings():
		os.Exit(1)
	}
	return nil
}
