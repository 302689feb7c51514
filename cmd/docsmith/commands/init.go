package commands

import (
	"fmt"

	"github.com/docsmith/docsmith/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	fmt.Printf("Configuration file created: %s\n", root.Config)
	fmt.Println("Edit it to match your project, then run 'docsmith generate'.")
	return nil
}
