package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/NerdyDuck/NerdyDuck.Collections/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect the effective configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the merged configuration",
				Flags:  workloadFlags(),
				Action: configShow,
			},
			{
				Name:   "validate",
				Usage:  "Check the merged configuration without running",
				Flags:  workloadFlags(),
				Action: configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	if e.format != output.FormatTable {
		return e.print(e.cfg)
	}
	keys := e.loader.Keys()
	settings := make([]setting, 0, len(keys))
	for _, key := range keys {
		settings = append(settings, setting{
			Key:    key,
			Value:  e.loader.Get(key),
			Source: string(e.loader.Origin(key)),
		})
	}
	return e.print(settings)
}

// setting is one row of the table form of config show.
type setting struct {
	Key    string `json:"key"`
	Value  any    `json:"value"`
	Source string `json:"source"`
}

func configValidate(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	if err := e.cfg.Stress.Validate(); err != nil {
		return cli.Exit(err, ExitError)
	}
	_, err = fmt.Fprintln(e.out, "configuration is valid")
	return err
}
