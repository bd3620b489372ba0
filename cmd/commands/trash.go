package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// NewTrashCommand returns the trash subcommand.
func NewTrashCommand() *cli.Command {
	return &cli.Command{
		Name:  "trash",
		Usage: "Manage trashed tasks",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List trashed tasks",
				Action: runTrashList,
			},
			{
				Name:      "purge",
				Usage:     "Permanently delete one trashed task",
				ArgsUsage: "<task_id>",
				Action:    runTrashPurge,
			},
			{
				Name:   "empty",
				Usage:  "Permanently delete everything in the trash",
				Action: runTrashEmpty,
			},
		},
		DefaultCommand: "list",
	}
}

func runTrashList(_ context.Context, cmd *cli.Command) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	list := env.store.Trashed()
	if len(list) == 0 {
		fmt.Println("Trash is empty.")
		return nil
	}
	return printTaskTable(list)
}

func runTrashPurge(_ context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: antigravity trash purge <task_id>")
	}

	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.store.PurgePermanently(id); err != nil {
		return err
	}

	fmt.Println("Permanently deleted.")
	return nil
}

func runTrashEmpty(_ context.Context, cmd *cli.Command) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	removed, err := env.store.EmptyTrash()
	if err != nil {
		return err
	}

	fmt.Printf("Emptied trash (%d task(s) removed).\n", removed)
	return nil
}
