package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SarthakGarg19/social-support-ai/internal/config"
	"github.com/SarthakGarg19/social-support-ai/internal/container"
	"github.com/SarthakGarg19/social-support-ai/pkg/utils"
)

var (
	cfgFile  string
	logLevel string
	version  = "dev"
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Social support application intake",
		Long: `intake runs benefit applications through extraction, validation,
eligibility scoring and program matching from the command line, and inspects
what the service has recorded.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "configs/config.yaml", "config file; empty runs on defaults and environment")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logger.level (debug, info, warn, error)")

	cmd.AddCommand(processCmd())
	cmd.AddCommand(statusCmd())
	cmd.AddCommand(graphCmd())
	cmd.AddCommand(migrateCmd())

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads configuration for one-shot commands. Logs go to stderr so
// stdout carries only command output, and the background worker is off.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	cfg.Worker.Enabled = false
	cfg.Logger.OutputPath = "stderr"
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}

	logger, err := utils.NewLogger(cfg.ToLoggerConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

// startContainer builds every component for commands that need the engine or store
func startContainer(ctx context.Context) (*container.Container, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		return nil, err
	}
	if err := c.Start(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
