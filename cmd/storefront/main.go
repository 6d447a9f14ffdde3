package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/storefront/pkg/admin"
	"github.com/example/storefront/pkg/api"
	"github.com/example/storefront/pkg/cart"
	"github.com/example/storefront/pkg/catalog"
	"github.com/example/storefront/pkg/checkout"
	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/monitor"
	"github.com/example/storefront/pkg/webui"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	configPath := "config/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := buildLogger(&cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting storefront client",
		zap.String("primary", cfg.Backend.PrimaryURL),
		zap.Int("fallbacks", len(cfg.Backend.FallbackURLs)))

	// Wire components
	client := api.NewClient(&cfg.Backend, logger)
	mon := monitor.New(client, &cfg.Backend, logger)
	cat := catalog.NewCache(client, logger)
	crt := cart.New(cat)
	flow := checkout.New(client, crt, &cfg.Checkout, logger)
	adm := admin.NewManager(client, cat, logger)

	// Initial probe and catalog load. Failures are not fatal: the panel
	// stays interactive on the offline catalog.
	ctx := context.Background()
	if !mon.Probe(ctx) {
		logger.Warn("Backend unreachable at startup")
	}
	if err := cat.Reload(ctx); err != nil {
		logger.Warn("Initial catalog load failed", zap.Error(err))
	}

	// Create panel server
	server := webui.NewServer(cfg, logger, mon, cat, crt, flow, adm)
	server.SetupRoutes()

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			serverErr <- err
		}
	}()

	logger.Info("Storefront panel started",
		zap.String("host", cfg.Web.Host),
		zap.Int("port", cfg.Web.Port))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Fatal("Panel server error", zap.Error(err))
	}

	logger.Info("Storefront stopped")
}

func buildLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.Encoding != "" {
		zcfg.Encoding = cfg.Encoding
	}
	if len(cfg.OutputPaths) > 0 {
		zcfg.OutputPaths = cfg.OutputPaths
	}
	return zcfg.Build()
}
