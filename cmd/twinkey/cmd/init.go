/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/twinkeys/pkg/config"
)

func newInitCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file with a generated API key",
		Long: `Create the twinkey configuration file and data directory.

The command writes a config with a freshly generated API key for the REST
server. An existing config is left alone unless --force is given.

Examples:
  twinkey init
  twinkey init --config ./twinkey.yaml --data-dir ./data --print-key`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			showKey, _ := cmd.Flags().GetBool("print-key")
			path := configPath(cmd)

			if config.ConfigExists(path) && !force {
				cmd.Printf("Configuration already exists at %s. Use --force to replace it.\n", path)
				return nil
			}

			cfg, err := config.BootstrapConfig(path, configFrom(cmd).DataDir)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
				return err
			}

			cmd.Printf("Configuration created at %s\n", path)
			cmd.Printf("Data directory: %s\n", cfg.DataDir)
			if showKey {
				cmd.Printf("API key: %s\n", cfg.Security.APIKey)
			}
			return nil
		},
	}
	c.Flags().Bool("force", false, "Replace an existing configuration")
	c.Flags().Bool("print-key", false, "Print the generated API key")
	return c
}
