package lock_test

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

	"github.com/jhoicas/facility-inventory-api/internal/application/inventory"
	"github.com/jhoicas/facility-inventory-api/internal/domain"
	"github.com/jhoicas/facility-inventory-api/internal/infrastructure/lock"
	"github.com/jhoicas/facility-inventory-api/pkg/logger"
)

func newRedisLocker(t *testing.T, retries int) *lock.RedisLocker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return lock.NewRedisLocker(client, 10*time.Second, retries, logger.Nop())
}

func TestRedisLocker_ClaveOcupada(t *testing.T) {
	l := newRedisLocker(t, 0)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "distribution:warehouse:Widget")
	require.NoError(t, err)

	_, err = l.Lock(ctx, "distribution:warehouse:Widget")
	assert.ErrorIs(t, err, domain.ErrLockNotObtained)

	// otra clave no se ve afectada
	other, err := l.Lock(ctx, "distribution:warehouse:Bolt")
	require.NoError(t, err)
	other()

	unlock()
	again, err := l.Lock(ctx, "distribution:warehouse:Widget")
	require.NoError(t, err)
	again()
}

func TestRedisLocker_ReintentaHastaLiberar(t *testing.T) {
	l := newRedisLocker(t, 20)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "idgen:warehouse:WI")
	require.NoError(t, err)
	go func() {
		time.Sleep(150 * time.Millisecond)
		unlock()
	}()

	second, err := l.Lock(ctx, "idgen:warehouse:WI")
	require.NoError(t, err)
	second()
}

func TestLocalLocker_Timeout(t *testing.T) {
	l := lock.NewLocalLocker(50 * time.Millisecond)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "k")
	require.NoError(t, err)
	defer unlock()

	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrLockNotObtained)
}

func TestLocalLocker_ContextoCancelado(t *testing.T) {
	l := lock.NewLocalLocker(0)
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalLocker_UnlockIdempotente(t *testing.T) {
	l := lock.NewLocalLocker(time.Second)
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	unlock()
	unlock()

	again, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	again()
}

func TestLocalLocker_ExclusionMutua(t *testing.T) {
	var l inventory.KeyLocker = lock.NewLocalLocker(0)
	var (
		inside  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "k")
			if err != nil {
				return
			}
			n := inside.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
}
