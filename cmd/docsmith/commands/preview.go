package commands

import (
	"github.com/docsmith/docsmith/internal/preview"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Host string `help:"Override the configured listen host" optional:""`
	Port int    `help:"Override the configured listen port" optional:""`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if p.Host != "" {
		cfg.Preview.Host = p.Host
	}
	if p.Port != 0 {
		cfg.Preview.Port = p.Port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	return preview.NewServer(cfg).Run(ctx)
}
