// cmd/career-advisor/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"career-advisor/internal/common/config"
	"career-advisor/internal/common/database"
	apphttp "career-advisor/internal/common/http"
	"career-advisor/internal/common/logger"
	"career-advisor/internal/common/observability"
	"career-advisor/internal/form"
	"career-advisor/internal/prediction"
	"career-advisor/internal/web"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting career advisor...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability setup failed", zap.Error(err))
	}

	endpoint := ""
	if cfg.Tracing.Enabled {
		endpoint = cfg.Tracing.JaegerEndpoint
	}
	tracing, err := observability.NewTracing(cfg.App.Name, cfg.App.Version, endpoint)
	if err != nil {
		zapLog.Fatal("tracing setup failed", zap.Error(err))
	}

	predictor := prediction.NewClient(&prediction.Config{
		BaseURL:     cfg.Prediction.BaseURL,
		PredictPath: cfg.Prediction.PredictPath,
		HealthPath:  cfg.Prediction.HealthPath,
	}, apphttp.NewClient(), log)

	checks := []web.ReadinessCheck{{Name: "prediction", Check: predictor.Health}}

	// --- Submission guard ---
	var guard form.Guard
	var rdb *database.RedisClient
	if cfg.Database.Redis.Enabled {
		rdb = database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return rdb.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis unavailable after retries", zap.Error(err))
		}
		zapLog.Info("Redis connected successfully", zap.String("address", cfg.Database.Redis.Address))

		guard = form.NewRedisGuard(rdb.Client, cfg.LockTTL())
		checks = append(checks, web.ReadinessCheck{Name: "redis", Check: rdb.Ping})
	} else {
		zapLog.Info("Redis disabled, using in-process submission guard")
		guard = form.NewLocalGuard(cfg.LockTTL())
	}

	handler := form.NewHandler(&form.Config{
		Timeout: config.GetDuration(cfg.Prediction.Timeout),
	}, predictor, guard, obs, log)

	srv, err := web.NewServer(handler, log, checks...)
	if err != nil {
		zapLog.Fatal("web server setup failed", zap.Error(err))
	}

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			zapLog.Error("Error closing Redis client", zap.Error(err))
		}
	}
	if err := tracing.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing traces", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down metrics", zap.Error(err))
	}

	zapLog.Info("Career advisor stopped gracefully")
}
