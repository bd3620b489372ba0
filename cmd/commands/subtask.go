package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// NewSubtaskCommand returns the subtask subcommand.
func NewSubtaskCommand() *cli.Command {
	return &cli.Command{
		Name:  "subtask",
		Usage: "Manage subtasks",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a subtask",
				ArgsUsage: "<task_id> <text>",
				Action:    runSubtaskAdd,
			},
			{
				Name:      "toggle",
				Usage:     "Toggle a subtask",
				ArgsUsage: "<task_id> <subtask_id>",
				Action:    runSubtaskToggle,
			},
			{
				Name:      "edit",
				Usage:     "Edit a subtask's text",
				ArgsUsage: "<task_id> <subtask_id> <text>",
				Action:    runSubtaskEdit,
			},
			{
				Name:      "rm",
				Usage:     "Delete a subtask",
				ArgsUsage: "<task_id> <subtask_id>",
				Action:    runSubtaskRemove,
			},
		},
	}
}

func runSubtaskAdd(_ context.Context, cmd *cli.Command) error {
	taskID, text := cmd.Args().Get(0), cmd.Args().Get(1)
	if taskID == "" || text == "" {
		return fmt.Errorf("usage: antigravity subtask add <task_id> <text>")
	}

	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	sub, err := env.store.AddSubtask(taskID, text)
	if err != nil {
		return err
	}

	fmt.Printf("Added subtask %s: %s\n", sub.ID, sub.Text)
	return nil
}

func runSubtaskToggle(_ context.Context, cmd *cli.Command) error {
	taskID, subID := cmd.Args().Get(0), cmd.Args().Get(1)
	if taskID == "" || subID == "" {
		return fmt.Errorf("usage: antigravity subtask toggle <task_id> <subtask_id>")
	}

	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	sub, err := env.store.ToggleSubtask(taskID, subID)
	if err != nil {
		return err
	}

	state := "open"
	if sub.Completed {
		state = "done"
	}
	fmt.Printf("Subtask %s: %s\n", state, sub.Text)
	return nil
}

func runSubtaskEdit(_ context.Context, cmd *cli.Command) error {
	taskID, subID, text := cmd.Args().Get(0), cmd.Args().Get(1), cmd.Args().Get(2)
	if taskID == "" || subID == "" || text == "" {
		return fmt.Errorf("usage: antigravity subtask edit <task_id> <subtask_id> <text>")
	}

	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	sub, err := env.store.UpdateSubtask(taskID, subID, text)
	if err != nil {
		return err
	}

	fmt.Printf("Updated subtask: %s\n", sub.Text)
	return nil
}

func runSubtaskRemove(_ context.Context, cmd *cli.Command) error {
	taskID, subID := cmd.Args().Get(0), cmd.Args().Get(1)
	if taskID == "" || subID == "" {
		return fmt.Errorf("usage: antigravity subtask rm <task_id> <subtask_id>")
	}

	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.store.DeleteSubtask(taskID, subID); err != nil {
		return err
	}

	fmt.Println("Subtask removed.")
	return nil
}
