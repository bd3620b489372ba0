package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sudovinay01/Antigravity-TODO-app/internal/tasks"
)

// NewArchiveCommand returns the archive subcommand.
func NewArchiveCommand() *cli.Command {
	return &cli.Command{
		Name:  "archive",
		Usage: "Manage archived tasks",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List archived tasks",
				Action: runArchiveList,
			},
			{
				Name:      "task",
				Usage:     "Archive one task",
				ArgsUsage: "<task_id>",
				Action:    runArchiveTask,
			},
			{
				Name:   "completed",
				Usage:  "Archive all completed tasks",
				Action: runArchiveCompleted,
			},
		},
		DefaultCommand: "list",
	}
}

func runArchiveList(_ context.Context, cmd *cli.Command) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	list := env.store.Archived()
	if len(list) == 0 {
		fmt.Println("Archive is empty.")
		return nil
	}
	return printTaskTable(list)
}

func runArchiveTask(_ context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: antigravity archive task <task_id>")
	}

	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	task, err := env.store.Archive(id)
	if err != nil {
		return err
	}

	fmt.Printf("Archived: %s\n", task.Text)
	return nil
}

func runArchiveCompleted(_ context.Context, cmd *cli.Command) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	moved, err := env.store.BulkArchiveCompleted()
	if err != nil {
		return err
	}

	fmt.Printf("Archived %d completed task(s).\n", moved)
	return nil
}

// NewRestoreCommand returns the restore subcommand.
func NewRestoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "Restore a task from the archive or the trash",
		ArgsUsage: "<task_id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "from",
				Usage: "archived or trashed",
				Value: "trashed",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("usage: antigravity restore <task_id>")
			}

			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			task, err := env.store.Restore(id, tasks.Collection(cmd.String("from")))
			if err != nil {
				return err
			}

			fmt.Printf("Restored: %s\n", task.Text)
			return nil
		},
	}
}
