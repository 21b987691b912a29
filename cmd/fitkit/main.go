package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"alcyxob/fitness-testkit/internal/backend"
	"alcyxob/fitness-testkit/internal/config"
	"alcyxob/fitness-testkit/internal/harness"
	"alcyxob/fitness-testkit/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configDir string
	verbose   bool
	backendID string

	cfg    config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fitkit",
	Short: "Emulator fixtures for the fitness app test suites",
	Long: `fitkit seeds and clears emulator-backed test data for the fitness app.

It creates disposable users, writes the nested program hierarchy
(programs, weeks, workouts, exercises, sets), clears collections between
runs and serves the same operations over HTTP for non-Go test suites.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if backendID != "" {
			cfg.Backend = backendID
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		logger, err = logging.New(cfg.Log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "Directory holding config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&backendID, "backend", "", "Override the configured backend (firebase, mongo, memory)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(settingsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openHarness initializes the harness against the configured backend.
// The returned func shuts it down.
func openHarness(ctx context.Context) (*harness.Harness, func(), error) {
	conn, err := backend.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	h, err := harness.Initialize(ctx, harness.Options{
		Connector: conn,
		ProjectID: cfg.ProjectID,
		Emulator:  cfg.Emulator,
		Logger:    logger,
	})
	if err != nil {
		_ = conn.Close(ctx)
		return nil, nil, fmt.Errorf("initialize harness: %w", err)
	}
	return h, func() {
		if err := harness.Shutdown(context.Background()); err != nil {
			logger.Warn("harness shutdown failed", zap.Error(err))
		}
	}, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
