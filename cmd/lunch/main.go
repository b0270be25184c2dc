// Package main запускает HTTP-сервер сервиса заказа обедов.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/lunch-app/internal/config"
	"github.com/mmeshcher/lunch-app/internal/handler"
	"github.com/mmeshcher/lunch-app/internal/lock"
	"github.com/mmeshcher/lunch-app/internal/middleware"
	"github.com/mmeshcher/lunch-app/internal/notify"
	"github.com/mmeshcher/lunch-app/internal/repository"
	"github.com/mmeshcher/lunch-app/internal/service"
)

const financeLockTTL = 30 * time.Second

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}
	defer repo.Close()

	var (
		notifier notify.Notifier = notify.NewLogSender(logger, cfg.MailFrom)
		locker   lock.Locker     = lock.NopLocker{}
	)
	if cfg.RedisAddress != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, financeLockTTL)

		queue := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddress})
		defer queue.Close()
		notifier = notify.NewQueueNotifier(queue)

		sugar.Infow("mail queue and finance lock enabled", "redis", cfg.RedisAddress)
	} else {
		sugar.Warn("redis address is empty, mail is logged instead of queued and the daily reminder runs only via /api/send_daily_reminder")
	}

	svc := service.NewService(repo, notifier, locker, logger)
	defer svc.Close()

	authMiddleware := middleware.NewAuthMiddleware(cfg.AuthSecret, repo)
	h := handler.NewHandler(svc, logger, authMiddleware)

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: h.SetupRouter(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting lunch server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
