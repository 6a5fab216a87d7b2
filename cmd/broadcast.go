package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmehdipour/jokecast/internal/app"
	"github.com/jmehdipour/jokecast/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var broadcastCmd = &cobra.Command{
	Use:   "broadcast",
	Short: "Run the joke-of-the-day broadcast once and print its report",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		bc, err := app.NewBroadcaster(cfg, stores, inv, log)
		if err != nil {
			inv.Close()
			return fmt.Errorf("build broadcaster: %w", err)
		}

		rep, runErr := bc.Run(cmd.Context())
		// local sends must finish before the process exits
		inv.Close()
		if runErr != nil {
			return runErr
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	},
}
