/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/twinkeys/pkg/api"
	"github.com/ssargent/twinkeys/pkg/logging"
)

func newServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the twinkey REST API server. Key conversion, array decoding,
catalog and structure operations are served under /api/v1 behind the
X-API-Key header; Prometheus metrics are served on /metrics.

Run 'twinkey init' first to create a config with an API key.

Examples:
  twinkey serve
  twinkey serve --port 9000 --bind 0.0.0.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			if cmd.Flags().Changed("port") {
				cfg.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("bind") {
				cfg.Bind, _ = cmd.Flags().GetString("bind")
			}
			if cmd.Flags().Changed("api-key") {
				cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if container == nil {
				return errors.New("dependency container not initialized")
			}

			logger := logging.New(cfg.Logging, Version)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withCatalog(cmd, func(store api.ElementStore) error {
				logger.Info("catalog opened", "data_dir", cfg.DataDir)
				starter := container.GetServerFactory().CreateServerStarter()
				return starter.StartServer(ctx, store, api.ServerConfig{
					Port:   cfg.Port,
					Bind:   cfg.Bind,
					APIKey: cfg.Security.APIKey,
					Keys:   cfg.Keys.ArrayOptions(),
				}, logger)
			})
		},
	}
	c.Flags().IntP("port", "p", 8080, "Port to listen on (overrides config)")
	c.Flags().String("bind", "127.0.0.1", "Address to bind server to (overrides config)")
	c.Flags().String("api-key", "", "API key for request authentication (overrides config)")
	return c
}
