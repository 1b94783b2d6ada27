package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/SarthakGarg19/social-support-ai/internal/config"
	"github.com/SarthakGarg19/social-support-ai/internal/container"
	httpserver "github.com/SarthakGarg19/social-support-ai/internal/interfaces/http"
	"github.com/SarthakGarg19/social-support-ai/pkg/utils"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(cfg.ToLoggerConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting social support intake service",
		zap.String("version", "1.0.0"),
		zap.String("config", configPath),
		zap.Int("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Build and start every component
	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		logger.Fatal("Failed to create container", zap.Error(err))
	}
	if err := c.Start(ctx); err != nil {
		logger.Fatal("Failed to start container", zap.Error(err))
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("Container shutdown reported errors", zap.Error(err))
		}
	}()

	deps := httpserver.Dependencies{
		Engine:  c.WorkflowEngine(),
		Store:   c.Store(),
		Cache:   c.Cache(),
		Files:   c.FileStorage(),
		Health:  c,
		Metrics: c.MetricsHandler(),
	}
	if intake := c.IntakeWorker(); intake != nil {
		deps.Queue = intake
	}

	serverCfg := httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}
	server := httpserver.NewServer(serverCfg, deps, container.NewZapAdapter(logger))

	// Blocks until SIGINT/SIGTERM, then shuts the listener down gracefully
	if err := server.Start(ctx); err != nil {
		logger.Error("HTTP server stopped with error", zap.Error(err))
	}

	logger.Info("Server exited")
}
