package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"network_manager/internal/app/service"
	"network_manager/internal/domain/entity"
	"network_manager/internal/infrastructure/bus"
	"network_manager/internal/infrastructure/configloader"
	"network_manager/internal/infrastructure/network/client"
	"network_manager/internal/infrastructure/network/healthcheck"
	"network_manager/internal/infrastructure/restapi"
	"network_manager/internal/infrastructure/store"
	"network_manager/internal/pkg/logger"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

const defaultConfigPath = "config/config.yaml"

// parseLogLevel maps the configured level string onto a zap level, falling
// back to info for anything unrecognized.
func parseLogLevel(s string) zapcore.Level {
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func main() {
	// Bootstrap logger for everything that happens before the real logging
	// stack is configured.
	boot := logrus.New()
	boot.SetFormatter(&logrus.JSONFormatter{})
	boot.SetOutput(os.Stdout)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := configloader.Load(configPath)
	if err != nil {
		boot.WithError(err).Fatalf("failed to load config from %s", configPath)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(parseLogLevel(cfg.Logging.Level))
	zapLogger, err := zapConfig.Build()
	if err != nil {
		boot.WithError(err).Fatal("failed to initialize zap logger")
	}
	defer zapLogger.Sync() //nolint:errcheck

	// Route the global slog logger through the zap core so the whole process
	// emits one stream.
	logger.SetHandler(zapslog.NewHandler(zapLogger.Core()))
	appLogger := logger.NewSlogAdapter()

	logger.Info("starting network connection manager", "configPath", configPath)

	notifBus := bus.NewInMemoryBus(zapLogger.Named("bus"))
	stateStore := store.NewFileStore(cfg.State.FilePath, zapLogger.Named("store"))
	healthTracker := healthcheck.NewTracker(
		time.Duration(cfg.Health.RecordTTLSeconds)*time.Second,
		time.Duration(cfg.Health.PingTimeoutSeconds)*time.Second,
		zapLogger.Named("health"),
	)
	factory := client.NewEVMClientFactory(cfg, zapLogger.Named("client"))

	manager := service.NewConnectionService(factory, notifBus, stateStore, healthTracker, appLogger, cfg)

	notifBus.Subscribe(entity.EventNetworkBlocked, func(entity.Event) {
		logger.Warn("active network reported as blocked by provider")
	})
	notifBus.Subscribe(entity.EventNetworkUnblocked, func(entity.Event) {
		logger.Info("active network reported as not blocked")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.Initialize(ctx); err != nil {
		logger.Fatal("failed to initialize network connection", "error", err)
	}

	handler := restapi.NewNetworkHandler(manager, healthTracker, appLogger)
	router := restapi.SetupRouter(handler, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("admin API listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("admin API server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin API shutdown failed", "error", err)
	}

	manager.Shutdown()
	logger.Info("network connection manager stopped")
}
