package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/sudovinay01/Antigravity-TODO-app/internal/config"
	"github.com/sudovinay01/Antigravity-TODO-app/internal/gateway"
	"github.com/sudovinay01/Antigravity-TODO-app/internal/heartbeat"
	"github.com/sudovinay01/Antigravity-TODO-app/internal/scheduler"
)

// NewServeCommand returns the serve subcommand.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the Antigravity gateway server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
		},
		Action: runServe,
	}
}

func runServe(_ context.Context, cmd *cli.Command) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()
	cfg := env.cfg

	// CLI flags override config
	if cmd.IsSet("host") {
		cfg.Gateway.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Gateway.Port = int(cmd.Int("port"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Offline asset cache
	cache, err := gateway.NewCache(cfg.Cache.Dir, cfg.Cache.Generation, cfg.Gateway.Origin)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	if cfg.Gateway.Origin != "" {
		cache.Install(ctx, cfg.Cache.Shell, cfg.Cache.External)
	}

	// Background sweeps
	sched, err := scheduler.New(scheduler.Config{
		Store:        env.store,
		PurgeCron:    cfg.Scheduler.PurgeCron,
		ReminderCron: cfg.Scheduler.ReminderCron,
	})
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	// Heartbeat
	hb := heartbeat.NewWriter(filepath.Join(config.DataPath(), "heartbeat.json"), func() int {
		remaining, _, _ := env.store.Counts()
		return remaining
	})
	hb.Start()
	defer hb.Stop()

	// Gateway server
	server := gateway.NewServer(gateway.Options{
		Store:  env.store,
		Bus:    env.bus,
		Cache:  cache,
		Locale: cfg.Locale,
		Host:   cfg.Gateway.Host,
		Port:   cfg.Gateway.Port,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
