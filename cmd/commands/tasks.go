package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/sudovinay01/Antigravity-TODO-app/internal/tasks"
)

// NewAddCommand returns the add subcommand.
func NewAddCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a task",
		ArgsUsage: "<text>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "low, medium, or high"},
			&cli.StringFlag{Name: "due", Usage: "Due date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "category", Usage: "Category label"},
			&cli.StringFlag{Name: "recurring", Usage: "daily, weekly, or monthly"},
			&cli.StringFlag{Name: "remind", Usage: "Reminder time (HH:MM)"},
		},
		Action: runAdd,
	}
}

func runAdd(_ context.Context, cmd *cli.Command) error {
	text := cmd.Args().First()
	if text == "" {
		return fmt.Errorf("usage: antigravity add <text>")
	}

	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	task, err := env.store.Create(tasks.Draft{
		Text:         text,
		Priority:     tasks.Priority(cmd.String("priority")),
		DueDate:      cmd.String("due"),
		Category:     cmd.String("category"),
		Recurring:    tasks.Recurrence(cmd.String("recurring")),
		ReminderTime: cmd.String("remind"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added %s: %s\n", task.ID, task.Text)
	return nil
}

// NewListCommand returns the list subcommand.
func NewListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List tasks",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status", Usage: "all, active, or completed", Value: "all"},
			&cli.StringFlag{Name: "category", Usage: "Filter by category"},
			&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "Search text and category"},
			&cli.StringFlag{Name: "sort", Usage: "created, dueDate, priority, or alpha", Value: "created"},
		},
		Action: runList,
	}
}

func runList(_ context.Context, cmd *cli.Command) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	spec := tasks.ViewSpec{
		Status:   tasks.StatusFilter(cmd.String("status")),
		Category: tasks.CategoryAll,
		Search:   cmd.String("search"),
		Sort:     tasks.SortKey(cmd.String("sort")),
		Locale:   env.cfg.Locale,
	}
	if c := cmd.String("category"); c != "" {
		spec.Category = c
	}

	list := tasks.View(env.store.Active(), spec)
	if len(list) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	return printTaskTable(list)
}

func printTaskTable(list []tasks.Task) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tPRIORITY\tDUE\tCATEGORY\tSUBTASKS\tTEXT")
	for _, t := range list {
		done := " "
		if t.Completed {
			done = "x"
		}
		due := t.DueDate
		if due == "" {
			due = "-"
		}
		category := t.Category
		if category == "" {
			category = "-"
		}
		subtasks := "-"
		if len(t.Subtasks) > 0 {
			completed := 0
			for _, st := range t.Subtasks {
				if st.Completed {
					completed++
				}
			}
			subtasks = fmt.Sprintf("%d/%d", completed, len(t.Subtasks))
		}
		fmt.Fprintf(w, "%s\t[%s]\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, done, t.Priority, due, category, subtasks, t.Text)
	}
	return w.Flush()
}

// NewDoneCommand returns the done subcommand.
func NewDoneCommand() *cli.Command {
	return &cli.Command{
		Name:      "done",
		Usage:     "Toggle task completion",
		ArgsUsage: "<task_id>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("usage: antigravity done <task_id>")
			}

			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			task, err := env.store.ToggleComplete(id)
			if err != nil {
				return err
			}

			if task.Completed {
				fmt.Printf("Completed: %s\n", task.Text)
				if task.Recurring != tasks.RecurNone {
					fmt.Printf("Next %s occurrence scheduled.\n", task.Recurring)
				}
			} else {
				fmt.Printf("Reopened: %s\n", task.Text)
			}
			return nil
		},
	}
}

// NewEditCommand returns the edit subcommand.
func NewEditCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit a task",
		ArgsUsage: "<task_id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "text", Usage: "New text"},
			&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "low, medium, or high"},
			&cli.StringFlag{Name: "due", Usage: "Due date (YYYY-MM-DD), empty clears"},
			&cli.StringFlag{Name: "category", Usage: "Category label, empty clears"},
			&cli.StringFlag{Name: "recurring", Usage: "daily, weekly, monthly, or empty"},
			&cli.StringFlag{Name: "remind", Usage: "Reminder time (HH:MM), empty clears"},
		},
		Action: runEdit,
	}
}

func runEdit(_ context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: antigravity edit <task_id>")
	}

	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	var patch tasks.Patch
	if cmd.IsSet("text") {
		v := cmd.String("text")
		patch.Text = &v
	}
	if cmd.IsSet("priority") {
		v := tasks.Priority(cmd.String("priority"))
		patch.Priority = &v
	}
	if cmd.IsSet("due") {
		v := cmd.String("due")
		patch.DueDate = &v
	}
	if cmd.IsSet("category") {
		v := cmd.String("category")
		patch.Category = &v
	}
	if cmd.IsSet("recurring") {
		v := tasks.Recurrence(cmd.String("recurring"))
		patch.Recurring = &v
	}
	if cmd.IsSet("remind") {
		v := cmd.String("remind")
		patch.ReminderTime = &v
	}

	task, err := env.store.Update(id, patch)
	if err != nil {
		return err
	}

	fmt.Printf("Updated %s: %s\n", task.ID, task.Text)
	return nil
}

// NewRemoveCommand returns the rm subcommand.
func NewRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Move a task to the trash",
		ArgsUsage: "<task_id>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("usage: antigravity rm <task_id>")
			}

			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			task, _, err := env.store.SoftDelete(id)
			if err != nil {
				return err
			}

			fmt.Printf("Trashed: %s (undo with 'antigravity undo')\n", task.Text)
			return nil
		},
	}
}

// NewUndoCommand returns the undo subcommand.
func NewUndoCommand() *cli.Command {
	return &cli.Command{
		Name:  "undo",
		Usage: "Undo the last delete",
		Action: func(_ context.Context, cmd *cli.Command) error {
			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			task, err := env.store.Undo()
			if err != nil {
				return err
			}

			fmt.Printf("Restored: %s\n", task.Text)
			return nil
		},
	}
}

// NewReorderCommand returns the reorder subcommand.
func NewReorderCommand() *cli.Command {
	return &cli.Command{
		Name:      "reorder",
		Usage:     "Move a task before another (omit target to move to the end)",
		ArgsUsage: "<task_id> [before_id]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("usage: antigravity reorder <task_id> [before_id]")
			}

			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.store.Reorder(id, cmd.Args().Get(1)); err != nil {
				return err
			}

			return printTaskTable(env.store.Active())
		},
	}
}
