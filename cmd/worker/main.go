// Package main запускает воркер asynq: доставку писем и ежедневное напоминание о заказе.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/lunch-app/internal/config"
	"github.com/mmeshcher/lunch-app/internal/notify"
	"github.com/mmeshcher/lunch-app/internal/repository"
	"github.com/mmeshcher/lunch-app/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}
	if cfg.RedisAddress == "" {
		sugar.Fatal("redis address is required for the worker")
	}
	cronSpec, err := notify.ReminderCronSpec(cfg.ReminderTime)
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddress}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 4,
		Queues:      map[string]int{notify.QueueMail: 2, notify.QueueReminder: 1},
		Logger:      sugar,
	})

	mux := asynq.NewServeMux()
	mux.Handle(notify.TaskTypeSendMail, notify.HandleSendMailTask(notify.NewLogSender(logger, cfg.MailFrom)))

	var scheduler *asynq.Scheduler
	if cronSpec != "" {
		repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
		if err != nil {
			sugar.Fatalw("database initialization error", "error", err.Error())
		}
		defer repo.Close()

		queue := asynq.NewClient(redisOpt)
		defer queue.Close()

		svc := service.NewService(repo, notify.NewQueueNotifier(queue), nil, logger)
		mux.Handle(notify.TaskTypeDailyReminder, notify.HandleDailyReminderTask(svc, logger))

		scheduler = asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: time.Local, Logger: sugar})
		if _, err := scheduler.Register(cronSpec, notify.NewDailyReminderTask(), asynq.Queue(notify.QueueReminder)); err != nil {
			sugar.Fatalw("register daily reminder", "error", err.Error())
		}
		sugar.Infow("daily reminder scheduled", "cron", cronSpec)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting worker", "redis", cfg.RedisAddress)
		if err := srv.Start(mux); err != nil {
			return fmt.Errorf("worker start error: %w", err)
		}
		if scheduler != nil {
			if err := scheduler.Start(); err != nil {
				return fmt.Errorf("scheduler start error: %w", err)
			}
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down worker...")
		if scheduler != nil {
			scheduler.Shutdown()
		}
		srv.Shutdown()
		sugar.Info("worker stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("worker terminated with error", "error", err)
	}
}
