// Package lock содержит распределённую блокировку на Redis,
// сериализующую сверку оплат за один месяц.
package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotAcquired возвращается, если блокировку не удалось получить до истечения ожидания.
	ErrNotAcquired = errors.New("lock not acquired")
	// ErrLockLost возвращается при освобождении, если блокировка уже истекла
	// или принадлежит другому владельцу.
	ErrLockLost = errors.New("lock lost before release")
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// FinanceKey строит ключ блокировки сверки оплат за месяц.
func FinanceKey(year, month int) string {
	return fmt.Sprintf("lunch:finance:%04d-%02d:lock", year, month)
}

// Locker выдаёт блокировки с ограниченным временем жизни.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func() error, err error)
}

// RedisLocker реализует Locker через SET NX PX.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
	wait   time.Duration
}

// NewRedisLocker создаёт блокировщик поверх клиента Redis.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		retry:  50 * time.Millisecond,
		wait:   5 * time.Second,
	}
}

// Acquire ожидает освобождения ключа и захватывает его.
// Возвращённую функцию release нужно вызвать по завершении работы.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func() error, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		if ok {
			return func() error {
				return l.release(key, token)
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrNotAcquired, key)
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *RedisLocker) release(key, token string) error {
	n, err := releaseScript.Run(context.Background(), l.client, []string{key}, token).Int64()
	if err != nil {
		return fmt.Errorf("unlock %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrLockLost, key)
	}
	return nil
}

// NopLocker не блокирует ничего; используется, когда Redis не настроен.
type NopLocker struct{}

// Acquire сразу возвращает пустую функцию освобождения.
func (NopLocker) Acquire(context.Context, string) (func() error, error) {
	return func() error { return nil }, nil
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
