package commands

import (
	"github.com/rivalz-glik/glik-go/internal/cmd/base"
	"github.com/rivalz-glik/glik-go/internal/version"
)

type VersionCommand struct {
	*base.Command
}

func (c *VersionCommand) Synopsis() string {
	return "Print the glik version"
}

func (c *VersionCommand) Help() string {
	return `Usage: glik version

  Prints the version of the glik command.`
}

func (c *VersionCommand) Run(args []string) int {
	c.UI.Output(version.Version)
	return ExitOK
}
