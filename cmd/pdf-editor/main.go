package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourorg/pdf-editor-service/pkg/api"
	"github.com/yourorg/pdf-editor-service/pkg/auth"
	"github.com/yourorg/pdf-editor-service/pkg/config"
	"github.com/yourorg/pdf-editor-service/pkg/editor"
	"github.com/yourorg/pdf-editor-service/pkg/engine"
	"github.com/yourorg/pdf-editor-service/pkg/httpservice"
	"github.com/yourorg/pdf-editor-service/pkg/logging"
	"github.com/yourorg/pdf-editor-service/pkg/notify"
	"github.com/yourorg/pdf-editor-service/pkg/storage"
	"github.com/yourorg/pdf-editor-service/pkg/telemetry"
)

func main() {
	// Load configuration, optionally layered over a config file.
	var cfg *config.Config
	var err error
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		cfg, err = config.LoadConfigFromFile(path)
	} else {
		cfg, err = config.LoadConfigFromEnv()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(logger)

	logger.Info("Starting PDF editor service",
		logging.NewField("version", cfg.AppVersion),
		logging.NewField("environment", cfg.Environment),
	)

	// PDF engine licensing
	if cfg.UnidocLicenseKey != "" {
		if err := engine.SetLicenseKey(cfg.UnidocLicenseKey); err != nil {
			logger.Error("Failed to set PDF engine license", logging.NewField("error", err))
			os.Exit(1)
		}
	}

	// Create document store
	var store storage.Store
	switch cfg.StorageBackend {
	case "azure":
		store, err = storage.NewAzureBlobStore(cfg.BlobAccountName, cfg.BlobAccountKey, cfg.BlobContainer, logger)
		if err != nil {
			logger.Error("Failed to create blob store", logging.NewField("error", err))
			os.Exit(1)
		}
	case "local":
		store, err = storage.NewLocalStore(cfg.StorageDir, logger)
		if err != nil {
			logger.Error("Failed to create local store", logging.NewField("error", err))
			os.Exit(1)
		}
	default:
		logger.Error("Unknown storage backend", logging.NewField("backend", cfg.StorageBackend))
		os.Exit(1)
	}

	// Create upload event notifier (no-op for local development)
	var notifier notify.Notifier
	if cfg.ServiceBusNamespace == "" {
		logger.Info("Upload notifications disabled (no Service Bus namespace configured)")
		notifier = notify.NopNotifier{}
	} else {
		notifier, err = notify.NewServiceBusNotifier(
			cfg.ServiceBusNamespace,
			cfg.ServiceBusKeyName,
			cfg.ServiceBusKeyValue,
			cfg.ServiceBusQueue,
			logger,
		)
		if err != nil {
			logger.Error("Failed to create Service Bus notifier", logging.NewField("error", err))
			os.Exit(1)
		}
	}

	// Optional bearer-token auth
	var authMiddleware gin.HandlerFunc
	if cfg.JWTSecret != "" {
		tokenService, err := auth.NewService(cfg.JWTSecret, 0)
		if err != nil {
			logger.Error("Failed to create auth service", logging.NewField("error", err))
			os.Exit(1)
		}
		authMiddleware = auth.Middleware(tokenService, logger)
		logger.Info("Bearer token auth enabled")
	}

	// Optional telemetry
	nrClient, err := telemetry.NewNewRelicClient(telemetry.NewRelicConfig{
		LicenseKey: cfg.NewRelicLicenseKey,
		AppName:    cfg.NewRelicAppName,
	}, logger)
	if err != nil {
		logger.Error("Failed to create New Relic client", logging.NewField("error", err))
		os.Exit(1)
	}

	handler := api.NewHandler(api.Config{
		Service:  editor.NewService(store, engine.NewUniPDFEngine(), logger),
		Notifier: notifier,
		Auth:     authMiddleware,
		Logger:   logger,
	})

	server, err := httpservice.NewServer(httpservice.ServerConfig{
		Port:           cfg.Port,
		ReadTimeout:    time.Duration(cfg.HTTPReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.HTTPWriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.HTTPIdleTimeout) * time.Second,
		Logger:         logger,
		MaxBodySize:    cfg.MaxUploadBytes,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Extra:          []gin.HandlerFunc{nrClient.Middleware()},
	}, handler)
	if err != nil {
		logger.Error("Failed to create server", logging.NewField("error", err))
		os.Exit(1)
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", logging.NewField("error", err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", logging.NewField("error", err))
	}

	nrClient.Shutdown(10 * time.Second)
}
