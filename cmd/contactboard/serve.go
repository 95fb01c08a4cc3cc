package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"contactboard/internal/bot"
	"contactboard/internal/httpapi"
)

func newServeCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the boards JSON API",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			ctx := cmd.Context()
			a.startMaintenance(ctx)

			if !a.log.IsLevelEnabled(logrus.DebugLevel) {
				gin.SetMode(gin.ReleaseMode)
			}
			router := httpapi.NewRouter(httpapi.NewHandler(a.repo, a.log), a.cfg.HTTP.AllowedOrigins)
			srv := &http.Server{
				Addr:              a.cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.WithField("addr", srv.Addr).Info("HTTP API listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			a.log.Info("Shutting down HTTP API...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("http shutdown: %w", err)
			}
			a.log.Info("HTTP API shut down gracefully.")
			return nil
		}),
	}
}

func newBotCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			if err := a.cfg.RequireTelegram(); err != nil {
				return err
			}
			ctx := cmd.Context()
			a.startMaintenance(ctx)

			handler, err := bot.NewHandler(a.cfg.Telegram.Token, a.repo, a.log)
			if err != nil {
				return err
			}

			a.log.Info("Contact Boards bot is running. Press Ctrl+C to exit.")
			// Blocks until the context is cancelled (Ctrl+C)
			handler.Start(ctx)
			a.log.Info("Bot shut down gracefully.")
			return nil
		}),
	}
}
