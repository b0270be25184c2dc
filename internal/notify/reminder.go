package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	// QueueReminder - очередь периодических задач напоминаний.
	QueueReminder = "reminder"
	// TaskTypeDailyReminder - тип периодической задачи ежедневного напоминания о заказе.
	TaskTypeDailyReminder = "reminder:daily"
)

// DailyReminderSender рассылает ежедневное напоминание и возвращает число получателей.
type DailyReminderSender interface {
	SendDailyReminder(ctx context.Context) (int, error)
}

// NewDailyReminderTask создаёт задачу ежедневного напоминания.
func NewDailyReminderTask() *asynq.Task {
	return asynq.NewTask(TaskTypeDailyReminder, nil, asynq.MaxRetry(3), asynq.Timeout(time.Minute))
}

// ReminderCronSpec переводит время суток HH:MM в cron-выражение
// для ежедневного запуска. Пустое время означает, что расписание не нужно.
func ReminderCronSpec(at string) (string, error) {
	if at == "" {
		return "", nil
	}
	t, err := time.Parse("15:04", at)
	if err != nil {
		return "", fmt.Errorf("parse reminder time %q: %w", at, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}

// HandleDailyReminderTask возвращает обработчик задач TaskTypeDailyReminder.
func HandleDailyReminderTask(sender DailyReminderSender, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		n, err := sender.SendDailyReminder(ctx)
		if err != nil {
			return fmt.Errorf("daily reminder: %w", err)
		}
		logger.Info("daily reminder sent", zap.Int("recipients", n))
		return nil
	}
}
