package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRunLock_SecondRunIsRefused(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDRESS not set")
	}
	ctx := context.Background()
	key := "lock:portal-migrate:test:" + uuid.NewString()

	first, err := ConnectRedisLock(ctx, addr, key, 2*time.Second)
	require.NoError(t, err)
	defer first.Close()
	second, err := ConnectRedisLock(ctx, addr, key, 2*time.Second)
	require.NoError(t, err)
	defer second.Close()

	release, err := first.Acquire(ctx)
	require.NoError(t, err)

	_, err = second.Acquire(ctx)
	assert.ErrorIs(t, err, ErrLockHeld)

	// Outlives the ttl because the holder keeps refreshing.
	time.Sleep(3 * time.Second)
	_, err = second.Acquire(ctx)
	assert.ErrorIs(t, err, ErrLockHeld)

	require.NoError(t, release(ctx))
	releaseAgain, err := second.Acquire(ctx)
	require.NoError(t, err)
	require.NoError(t, releaseAgain(ctx))
}
