package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/config"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "0.1.0"

var (
	logLevel      string
	pollInterval  time.Duration
	traceEndpoint string

	logger        *zap.Logger
	shutdownTrace func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "fdpipeline",
	Short: "Fraud Detector ML pipeline",
	Long: `fdpipeline trains Amazon Fraud Detector models, deploys detectors with their
rules and models, and tears them down again.

Settings are read from the environment and an optional .env file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.InitializeConfig()

		level := config.PipelineConfig.LogLevel
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		var err error
		logger, err = observability.NewLogger(level)
		if err != nil {
			return err
		}

		if traceEndpoint != "" {
			shutdownTrace, err = observability.InitTracer(cmd.Context(), "fdpipeline", version, traceEndpoint)
			if err != nil {
				logger.Warn("Tracing disabled", zap.Error(err))
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if shutdownTrace != nil {
			if err := shutdownTrace(context.Background()); err != nil {
				logger.Warn("Failed to flush traces", zap.Error(err))
			}
		}
		_ = logger.Sync()
	},
}

func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().DurationVar(&pollInterval, "poll-interval", 0, "status poll interval (default $FD_POLL_INTERVAL or 60s)")
	rootCmd.PersistentFlags().StringVar(&traceEndpoint, "trace-endpoint", "", "OTLP gRPC endpoint for traces, e.g. localhost:4317")
}
