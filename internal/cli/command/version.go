package command

import (
	"github.com/urfave/cli/v2"

	"github.com/NerdyDuck/NerdyDuck.Collections/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			return e.print(buildinfo.Get())
		},
	}
}
