package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rragul902/voice-banking-assistant/voicebank/config"
	"github.com/rragul902/voice-banking-assistant/voicebank/ledger"
	"github.com/rragul902/voice-banking-assistant/voicebank/pipeline"
	"github.com/rragul902/voice-banking-assistant/voicebank/server"
	"github.com/rragul902/voice-banking-assistant/voicebank/transfer"
	"github.com/rragul902/voice-banking-assistant/voicebank/verify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("configuration invalid", zap.Error(err))
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("logger setup failed", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	store, cleanup, err := buildStore(cfg, logger)
	if err != nil {
		logger.Fatal("ledger store setup failed", zap.Error(err))
	}
	defer cleanup()

	p := pipeline.New(pipeline.Config{
		Store: store,
		Verifier: verify.NewSimulator(verify.SimulatorConfig{
			Threshold:  cfg.VerifyThreshold,
			DemoUserID: cfg.DemoUserID,
			Delay:      cfg.VerifyDelay,
		}),
		Limits: transfer.Limits{
			PerTransaction:      cfg.PerTransactionLimit,
			LargeAmountAdvisory: cfg.LargeAmountAdvisory,
		},
		VerifyTimeout: cfg.VerifyTimeout,
		Logger:        logger,
	})

	srv := server.New(p, logger)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))

		if err := srv.Listen(":" + cfg.Port); err != nil {
			logger.Error("server stopped", zap.Error(err))
		}
	}()

	<-stop
	logger.Info("shutting down")

	if err := srv.Shutdown(); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)

	return cfg.Build()
}

// buildStore picks the ledger store: Redis when configured, in-memory
// otherwise. The returned cleanup closes any opened connection.
func buildStore(cfg config.Config, logger *zap.Logger) (ledger.Store, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info("using in-memory ledger store")

		return ledger.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, nil, err
	}

	logger.Info("using redis ledger store", zap.String("addr", cfg.RedisAddr))

	return ledger.NewRedisStore(client), func() { _ = client.Close() }, nil
}
