// Package main is the entry point for the virtual world renderer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/virtual-world/internal/app"
	"github.com/Faultbox/virtual-world/internal/config"
	"github.com/Faultbox/virtual-world/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Virtual World ===")
	if src := cfg.Source(); src != "" {
		logger.Info("config loaded", zap.String("file", src))
	}
	logger.Sugar.Debugf("Config: %+v", cfg)

	w, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to create world", zap.Error(err))
		os.Exit(1)
	}
	defer w.Close()

	if err := w.Run(); err != nil {
		logger.Error("world error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("world closed normally")
}
