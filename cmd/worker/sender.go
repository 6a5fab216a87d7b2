package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmehdipour/jokecast/internal/app"
	"github.com/jmehdipour/jokecast/internal/kafka"
	"github.com/jmehdipour/jokecast/internal/metrics"
	"github.com/jmehdipour/jokecast/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var senderCmd = &cobra.Command{
	Use:   "sender",
	Short: "Consume send envelopes from Kafka and text each recipient",
	RunE:  runSender,
}

func runSender(cmd *cobra.Command, args []string) error {
	// 1) config + logger
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, log, err := app.Bootstrap(cfgPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	metrics.MustRegister(prometheus.DefaultRegisterer)

	// 2) stores (ClickHouse for the message log)
	stores, err := app.OpenStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	// 3) providers -> messenger -> single-send service
	snd, err := app.NewSender(cfg, stores, log)
	if err != nil {
		return fmt.Errorf("build sender: %w", err)
	}

	// 4) kafka consumer
	groupID := cfg.Kafka.GroupID
	if groupID == "" {
		groupID = "jokecast-sender"
	}
	consumer := kafka.NewConsumer(kafka.Config{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          cfg.Kafka.Topic,
		GroupID:        groupID,
		MinBytes:       cfg.Kafka.MinBytes,
		MaxBytes:       cfg.Kafka.MaxBytes,
		CommitInterval: time.Duration(cfg.Kafka.CommitInterval) * time.Millisecond,
		Log:            log,
	})
	defer consumer.Close()

	w := worker.NewSenderKafka(consumer, snd, log)
	if cfg.Worker.Count > 0 {
		w.Workers = cfg.Worker.Count
	}
	if cfg.Worker.SendTimeout > 0 {
		w.SendTimeout = cfg.Worker.SendTimeout
	}

	// 5) graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("sender started",
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group", groupID),
		zap.Int("workers", w.Workers),
		zap.Duration("send_timeout", w.SendTimeout))

	return w.Run(ctx)
}
