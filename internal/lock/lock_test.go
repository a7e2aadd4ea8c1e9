package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseMutualExclusion(t *testing.T, locker Locker) {
	t.Helper()

	var inside int32
	var maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := With(context.Background(), locker, "attendance:u1:2025-11-14", func() error {
				current := atomic.AddInt32(&inside, 1)
				for {
					seen := atomic.LoadInt32(&maxInside)
					if current <= seen || atomic.CompareAndSwapInt32(&maxInside, seen, current) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestLocalMutualExclusion(t *testing.T) {
	locker := NewLocal()
	exerciseMutualExclusion(t, locker)
	assert.Zero(t, locker.size())
}

func TestLocalRespectsContext(t *testing.T) {
	locker := NewLocal()
	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocalKeysAreIndependent(t *testing.T) {
	locker := NewLocal()
	unlockA, err := locker.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := locker.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
	unlockB()
}

func TestRedisLocker(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	locker := NewRedis(client)
	locker.Retry = time.Millisecond
	exerciseMutualExclusion(t, locker)

	assert.False(t, server.Exists("hrdesk:lock:attendance:u1:2025-11-14"))
}

func TestRedisLockerTimesOut(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	locker := NewRedis(client)
	unlock, err := locker.Lock(context.Background(), "payroll:u1:2025:11")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "payroll:u1:2025:11")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "payroll:abc:2025:11", Key("payroll", "abc", 2025, 11))
}
