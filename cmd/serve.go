package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmehdipour/jokecast/internal/app"
	httpSrv "github.com/jmehdipour/jokecast/internal/http"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := app.Bootstrap(cfgPath)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		stores, err := app.OpenStores(cfg)
		if err != nil {
			return err
		}
		defer stores.Close()

		snd, err := app.NewSender(cfg, stores, log)
		if err != nil {
			return fmt.Errorf("build sender: %w", err)
		}
		inv, err := app.NewInvoker(cfg, stores, log)
		if err != nil {
			return fmt.Errorf("build invoker: %w", err)
		}
		defer inv.Close()
		bc, err := app.NewBroadcaster(cfg, stores, inv, log)
		if err != nil {
			return fmt.Errorf("build broadcaster: %w", err)
		}

		deps := httpSrv.Deps{
			Registry:       app.NewRegistry(cfg, stores),
			Sender:         snd,
			Broadcaster:    bc,
			DefaultCountry: cfg.Broadcast.CountryCode,
			Log:            log,
		}
		if r := stores.Reports(cfg.Redis); r != nil {
			deps.Reports = r
		}
		if m := stores.Messages(); m != nil {
			deps.Messages = m
		}
		server := httpSrv.NewServer(deps)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Info("signal received, shutting down", zap.String("signal", sig.String()))
		case err := <-errCh:
			if err != nil {
				log.Error("http server exited", zap.Error(err))
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)

		return nil
	},
}
