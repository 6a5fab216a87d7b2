package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmehdipour/jokecast/internal/app"
	"github.com/jmehdipour/jokecast/internal/metrics"
	"github.com/jmehdipour/jokecast/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Fire the joke-of-the-day broadcast on the configured cron schedule",
	RunE:  runScheduler,
}

func runScheduler(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, log, err := app.Bootstrap(cfgPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	metrics.MustRegister(prometheus.DefaultRegisterer)

	stores, err := app.OpenStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	inv, err := app.NewInvoker(cfg, stores, log)
	if err != nil {
		return fmt.Errorf("build invoker: %w", err)
	}
	defer inv.Close()

	bc, err := app.NewBroadcaster(cfg, stores, inv, log)
	if err != nil {
		return fmt.Errorf("build broadcaster: %w", err)
	}

	sched, err := scheduler.New(cfg.Broadcast.Schedule, cfg.Broadcast.Timezone, func(ctx context.Context) {
		rep, err := bc.Run(ctx)
		if err != nil {
			log.Error("scheduled broadcast failed", zap.String("broadcast_id", rep.ID), zap.Error(err))
		}
	}, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	log.Info("scheduler stopping")
	sched.Stop()
	return nil
}
