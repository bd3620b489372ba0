package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// NewExportCommand returns the export subcommand.
func NewExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all collections as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output file (default: stdout)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			data, err := env.store.ExportJSON()
			if err != nil {
				return err
			}

			if out := cmd.String("out"); out != "" {
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Printf("Exported to %s\n", out)
				return nil
			}

			os.Stdout.Write(data)
			return nil
		},
	}
}

// NewImportCommand returns the import subcommand.
func NewImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import tasks from an export file",
		ArgsUsage: "<file>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("usage: antigravity import <file>")
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			added, err := env.store.Import(data)
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d task(s).\n", added)
			return nil
		},
	}
}
