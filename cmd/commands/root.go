package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/sudovinay01/Antigravity-TODO-app/internal/config"
	"github.com/sudovinay01/Antigravity-TODO-app/internal/events"
	"github.com/sudovinay01/Antigravity-TODO-app/internal/storage"
	"github.com/sudovinay01/Antigravity-TODO-app/internal/tasks"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "antigravity",
		Usage: "A todo list that keeps your tasks from floating away",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.ConfigPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			NewAddCommand(),
			NewListCommand(),
			NewDoneCommand(),
			NewEditCommand(),
			NewRemoveCommand(),
			NewUndoCommand(),
			NewArchiveCommand(),
			NewRestoreCommand(),
			NewReorderCommand(),
			NewSubtaskCommand(),
			NewTrashCommand(),
			NewExportCommand(),
			NewImportCommand(),
			NewServeCommand(),
			NewTUICommand(),
			NewStatusCommand(),
		},
	}
}

// appEnv bundles the long-lived pieces a command needs.
type appEnv struct {
	cfg   *config.Config
	bus   *events.Bus
	store *tasks.Store
	gw    storage.Gateway
}

func (a *appEnv) Close() {
	if a.gw != nil {
		a.gw.Close()
	}
	if a.bus != nil {
		a.bus.Close()
	}
}

// setupEnv loads config and opens the store. Debug flag switches logging
// to text on stderr at debug level.
func setupEnv(cmd *cli.Command) (*appEnv, error) {
	if cmd.Bool("debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	gw, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	bus := events.NewBus(cfg.Events.BufferSize)

	store, err := tasks.NewStore(tasks.Options{
		Gateway:    gw,
		Bus:        bus,
		Retention:  time.Duration(cfg.Retention.TrashDays) * 24 * time.Hour,
		UndoWindow: cfg.Retention.UndoWindow.Duration(),
	})
	if err != nil {
		gw.Close()
		bus.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &appEnv{cfg: cfg, bus: bus, store: store, gw: gw}, nil
}
