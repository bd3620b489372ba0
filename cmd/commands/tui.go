package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/sudovinay01/Antigravity-TODO-app/clients/tui"
)

// NewTUICommand returns the tui subcommand.
func NewTUICommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive task list",
		Action: func(_ context.Context, cmd *cli.Command) error {
			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			return tui.Run(env.store, env.cfg.Locale)
		},
	}
}
