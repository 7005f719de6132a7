package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prokizzle/feeling-mindful-website/internal/config"
	"github.com/prokizzle/feeling-mindful-website/internal/infra"
	"github.com/prokizzle/feeling-mindful-website/internal/logging"
	"github.com/prokizzle/feeling-mindful-website/internal/notification"
	"github.com/prokizzle/feeling-mindful-website/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	store, err := infra.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open document store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close document store", "error", err)
		}
	}()

	cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if cache != nil {
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
	}

	notifier, err := buildNotifier(ctx, cfg, logger)
	if err != nil {
		logger.Error("configure notifications", "error", err)
		os.Exit(1)
	}

	srv, err := server.New(cfg, store, cache, notifier, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()
	logger.Info("server started", "addr", cfg.Address(), "env", cfg.AppEnv, "store", cfg.StoreDriver, "redis", cache != nil)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}

// buildNotifier always logs notifications. With an AWS region it also sends
// deletion confirmations through SES and team alerts through SNS.
func buildNotifier(ctx context.Context, cfg config.Config, logger *slog.Logger) (notification.Notifier, error) {
	notifiers := notification.Multi{notification.NewLoggerNotifier(logger)}
	if cfg.AWSRegion == "" {
		return notifiers, nil
	}

	awsCfg, err := infra.NewAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}
	if cfg.EmailSender != "" {
		ses := notification.NewSESNotifier(awsCfg, cfg.EmailSender)
		notifiers = append(notifiers, notification.Filter(ses, notification.KindDeletionConfirmation))
	}
	if cfg.AdminTopicARN != "" {
		sns := notification.NewSNSNotifier(awsCfg, cfg.AdminTopicARN)
		notifiers = append(notifiers, notification.Filter(sns, notification.KindBetaSignup, notification.KindDeletionRequest))
	}
	return notifiers, nil
}
