package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	// QueueMail - очередь задач доставки писем.
	QueueMail = "mail"
	// TaskTypeSendMail - тип задачи доставки одного письма.
	TaskTypeSendMail = "mail:send"
)

// Notifier передаёт письмо на доставку.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Enqueuer ставит задачу в очередь; реализуется *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier ставит письма в очередь asynq; доставку выполняет воркер.
type QueueNotifier struct {
	client Enqueuer
}

// NewQueueNotifier создаёт Notifier поверх клиента asynq.
func NewQueueNotifier(client Enqueuer) *QueueNotifier {
	return &QueueNotifier{client: client}
}

// NewSendMailTask упаковывает письмо в задачу asynq.
func NewSendMailTask(msg Message) (*asynq.Task, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal mail: %w", err)
	}
	return asynq.NewTask(TaskTypeSendMail, data, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// Send ставит письмо в очередь. Письмо без получателей не отправляется.
func (n *QueueNotifier) Send(ctx context.Context, msg Message) error {
	if len(msg.Recipients) == 0 {
		return nil
	}
	task, err := NewSendMailTask(msg)
	if err != nil {
		return err
	}
	if _, err := n.client.EnqueueContext(ctx, task, asynq.Queue(QueueMail)); err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}
	return nil
}

// LogSender "доставляет" письмо записью в журнал. Транспорт SMTP
// подключается снаружи сервиса.
type LogSender struct {
	logger *zap.Logger
	from   string
}

// NewLogSender создаёт LogSender с адресом отправителя from.
func NewLogSender(logger *zap.Logger, from string) *LogSender {
	return &LogSender{logger: logger, from: from}
}

// Send записывает письмо в журнал.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	if len(msg.Recipients) == 0 {
		return nil
	}
	s.logger.Info("mail delivered",
		zap.String("from", s.from),
		zap.String("to", strings.Join(msg.Recipients, ",")),
		zap.String("subject", msg.Subject),
		zap.Int("body_len", len(msg.Body)),
	)
	return nil
}

// HandleSendMailTask возвращает обработчик задач TaskTypeSendMail.
func HandleSendMailTask(sender Notifier) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var msg Message
		if err := json.Unmarshal(t.Payload(), &msg); err != nil {
			return fmt.Errorf("decode mail: %w: %w", err, asynq.SkipRetry)
		}
		if len(msg.Recipients) == 0 {
			return errors.Join(errors.New("mail without recipients"), asynq.SkipRetry)
		}
		return sender.Send(ctx, msg)
	}
}
