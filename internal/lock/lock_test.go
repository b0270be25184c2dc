package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLocker(client, time.Minute)
	l.wait = 100 * time.Millisecond
	l.retry = 10 * time.Millisecond
	return l, mr
}

func TestRedisLocker_AcquireRelease(t *testing.T) {
	l, mr := newTestLocker(t)
	key := FinanceKey(2015, 2)

	release, err := l.Acquire(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))

	require.NoError(t, release())
	assert.False(t, mr.Exists(key))

	release, err = l.Acquire(context.Background(), key)
	require.NoError(t, err)
	require.NoError(t, release())
}

func TestRedisLocker_Contention(t *testing.T) {
	l, _ := newTestLocker(t)
	key := FinanceKey(2015, 2)

	release, err := l.Acquire(context.Background(), key)
	require.NoError(t, err)
	defer func() { _ = release() }()

	_, err = l.Acquire(context.Background(), key)
	if !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("expected ErrNotAcquired, got %v", err)
	}
}

func TestRedisLocker_ReleaseDoesNotDropForeignLock(t *testing.T) {
	l, mr := newTestLocker(t)
	key := FinanceKey(2015, 3)

	release, err := l.Acquire(context.Background(), key)
	require.NoError(t, err)

	// Блокировка истекла и была захвачена другим владельцем.
	mr.FastForward(2 * time.Minute)
	require.NoError(t, mr.Set(key, "other-owner"))

	assert.ErrorIs(t, release(), ErrLockLost)
	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "other-owner", got)
}

func TestRedisLocker_ReleaseReportsExpiredLock(t *testing.T) {
	l, mr := newTestLocker(t)
	key := FinanceKey(2015, 4)

	release, err := l.Acquire(context.Background(), key)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	require.False(t, mr.Exists(key))

	assert.ErrorIs(t, release(), ErrLockLost)
}

func TestRedisLocker_ReleaseReportsRedisFailure(t *testing.T) {
	l, mr := newTestLocker(t)
	key := FinanceKey(2015, 5)

	release, err := l.Acquire(context.Background(), key)
	require.NoError(t, err)

	mr.Close()

	err = release()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLockLost)
}

func TestNopLocker(t *testing.T) {
	release, err := NopLocker{}.Acquire(context.Background(), FinanceKey(2015, 2))
	require.NoError(t, err)
	assert.NoError(t, release())
}

func TestFinanceKey(t *testing.T) {
	assert.Equal(t, "lunch:finance:2015-02:lock", FinanceKey(2015, 2))
}
