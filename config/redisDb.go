package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when another migration run holds the lock.
var ErrLockHeld = errors.New("another migration run holds the lock")

// RedisRunLock serialises migration runs across hosts. Two concurrent runs could both see a
// natural key as absent and insert it twice.
type RedisRunLock struct {
	rdb    *redis.Client
	locker *redislock.Client
	key    string
	ttl    time.Duration
}

// ConnectRedisLock pings addr once; migrations should not start without the lock they asked for.
func ConnectRedisLock(ctx context.Context, addr string, key string, ttl time.Duration) (*RedisRunLock, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
		PoolSize: 2,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return NewRedisRunLock(rdb, key, ttl), nil
}

func NewRedisRunLock(rdb *redis.Client, key string, ttl time.Duration) *RedisRunLock {
	return &RedisRunLock{
		rdb:    rdb,
		locker: redislock.New(rdb),
		key:    key,
		ttl:    ttl,
	}
}

// Acquire obtains the lock and keeps refreshing it until release is called.
func (l *RedisRunLock) Acquire(ctx context.Context) (func(context.Context) error, error) {
	lock, err := l.locker.Obtain(ctx, l.key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockHeld
	} else if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", l.key, err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(l.ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := lock.Refresh(context.Background(), l.ttl, nil); err != nil {
					return
				}
			}
		}
	}()

	return func(ctx context.Context) error {
		close(stop)
		<-done
		return lock.Release(ctx)
	}, nil
}

func (l *RedisRunLock) Close() error {
	return l.rdb.Close()
}
