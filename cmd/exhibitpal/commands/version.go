package commands

import (
	"fmt"

	"git.home.luguber.info/inful/exhibitpal/internal/version"
)

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (v *VersionCmd) Run(g *Global, _ *CLI) error {
	_, _ = fmt.Fprintln(g.out(), version.String())
	return nil
}
