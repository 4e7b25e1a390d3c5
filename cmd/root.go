package main

import (
	"fmt"
	"io"
	"os"

	"invoice-service/internal/config"
	"invoice-service/internal/logger"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoice-service",
	Short: "Invoice lifecycle and payment reconciliation service",
	Long: `invoice-service runs the multi-tenant invoice API: uploads and manual
entry, extraction callbacks, confirmation, payments and reminder tracking.

Configuration is read from the environment, with a .env file loaded first
when one is present.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		l := logger.WithComponent("cmd")
		l.Error().Err(err).Msg("command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads the config and installs the global logger.
func bootstrap(validate bool) (*config.InvoiceServiceConfig, io.Closer, error) {
	cfg := config.Load()

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogCfg.Level
	logCfg.Format = cfg.LogCfg.Format
	logCfg.Output = cfg.LogCfg.Output
	closer, err := logger.Setup(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	if validate {
		if err := cfg.Validate(); err != nil {
			closer.Close()
			return nil, nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return cfg, closer, nil
}
