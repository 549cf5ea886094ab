package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-resize/internal/logging"
	"github.com/tendant/simple-resize/pkg/imageresize/config"
)

// NewRootCommand creates the imageresize command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "imageresize",
		Short: "Resolve and generate resized image derivatives",
		Long: `Resolve resized derivatives of stored images, generating them on demand.

Storage, cache and derivative settings are read from the environment
(STORAGE_URL, STAGING_URL, CACHE_URL, DERIVATIVE_ROOT, ...), optionally
preceded by a YAML config file. A .env file in the working directory is
loaded first.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML config file (optional)")
	rootCmd.PersistentFlags().String("env-prefix", "", "prefix of the environment variables to read")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewURLCommand())
	rootCmd.AddCommand(NewPathCommand())

	return rootCmd
}

// loadConfig reads the config file named by --config, then the environment
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	prefix, _ := cmd.Flags().GetString("env-prefix")

	var opts []config.Option
	if file != "" {
		opts = append(opts, config.WithFile(file))
	}
	opts = append(opts, config.WithEnv(prefix))

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// buildRuntime loads configuration and assembles the service
func buildRuntime(ctx context.Context, cmd *cobra.Command, logger *slog.Logger) (*config.Runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cfg.BuildService(ctx, logger)
}

func newLogger() *slog.Logger {
	logger := logging.FromEnv()
	slog.SetDefault(logger)
	return logger
}
