package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"contactboard/internal/boards"
	"contactboard/internal/config"
	"contactboard/internal/logging"
	"contactboard/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// app holds the components every command shares. The caller must defer Close.
type app struct {
	cfg   config.Config
	log   *logrus.Logger
	store storage.Store
	repo  *boards.Repository
}

func newApp(ctx context.Context, configDir string) (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"storage": cfg.Storage.Type,
		"key":     cfg.Storage.Key,
	}).Debug("Configuration loaded")

	store, err := storage.NewStoreFromConfig(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	repo := boards.NewRepository(store,
		boards.WithKey(cfg.Storage.Key),
		boards.WithLogger(log),
	)
	return &app{cfg: cfg, log: log, store: store, repo: repo}, nil
}

// startMaintenance runs background upkeep the backend needs until ctx ends.
func (a *app) startMaintenance(ctx context.Context) {
	if bs, ok := a.store.(*storage.BadgerStore); ok {
		go bs.RunGC(ctx, a.cfg.Storage.BadgerGCInterval)
	}
}

func (a *app) Close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Error("Error closing storage")
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:          "contactboard",
		Short:        "Organise the people you meet into boards",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config", "./configs", "directory containing config.yaml")

	// withApp opens the app for a command and closes it afterwards.
	withApp := appRunner(func(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), configDir)
			if err != nil {
				return err
			}
			defer a.Close()
			return run(cmd, args, a)
		}
	})

	root.AddCommand(
		newServeCmd(withApp),
		newBotCmd(withApp),
		newBoardsCmd(withApp),
		newContactsCmd(withApp),
		newExportCmd(withApp),
		newImportCmd(withApp),
		newImportBrowserCmd(withApp),
		newSeedCmd(withApp),
	)
	return root
}

// appRunner wraps a command body so it receives an opened app.
type appRunner func(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error
