/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/ssargent/twinkeys/pkg/catalog"
	"github.com/ssargent/twinkeys/pkg/config"
	"github.com/ssargent/twinkeys/pkg/di"
	"github.com/ssargent/twinkeys/pkg/logging"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var container *di.Container

// startupLogger reports failures that happen before the config, and with it
// the configured logger, is available.
var startupLogger = logging.Default()

// SetContainer injects the dependency container used by commands that open
// the catalog or start the server.
func SetContainer(c *di.Container) {
	container = c
}

type configKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "twinkey",
		Short: "twinkey - element key codec for digital twin data",
		Long: `twinkey converts element keys between their short, full, xref, GUID
and system id forms, decodes packed key arrays, and keeps a local catalog
of elements from which facility structures are assembled.

Web-safe keys may start with '-'. Pass such keys after '--' so they are not
read as flags:
  twinkey full -- -AIDBAUGBwgJCgsMDQ4PEBESExQ`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				startupLogger.Error("failed to load config", "path", configPath(cmd), "error", err)
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	root.PersistentFlags().String("config", "", "Path to config file (default: OS-specific location)")
	root.PersistentFlags().StringP("data-dir", "d", "", "Data directory for the catalog (overrides config)")
	root.PersistentFlags().Bool("json", false, "Print results as JSON")

	root.AddCommand(
		newFullCmd(),
		newShortCmd(),
		newGUIDCmd(),
		newSysIDCmd(),
		newXrefCmd(),
		newRefsCmd(),
		newXrefsCmd(),
		newCatalogCmd(),
		newLevelsCmd(),
		newRoomsCmd(),
		newStructureCmd(),
		newStreamsCmd(),
		newSnapshotsCmd(),
		newInitCmd(),
		newServeCmd(),
	)
	return root
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	return path
}

// loadConfig reads the config file when present and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	path := configPath(cmd)
	if config.ConfigExists(path) {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

func configFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

// openCatalog opens the catalog in the configured data directory. The caller
// closes it.
func openCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	if container == nil {
		return nil, errors.New("dependency container not initialized")
	}
	cfg := configFrom(cmd)
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return nil, errors.Wrap(err, "failed to create data dir")
	}
	return container.GetCatalogOpener().OpenCatalog(cfg.DataDir)
}

func wantJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// printJSON writes v as indented JSON to the command output
func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode output")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
