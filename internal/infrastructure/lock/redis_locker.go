// Package lock implementa bloqueos por clave: distribuido sobre Redis o en proceso.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/facility-inventory-api/internal/application/inventory"
	"github.com/jhoicas/facility-inventory-api/internal/domain"
	"github.com/jhoicas/facility-inventory-api/pkg/logger"
)

var _ inventory.KeyLocker = (*RedisLocker)(nil)

const (
	keyPrefix      = "lock:"
	defaultBackoff = 100 * time.Millisecond
)

// RedisLocker bloqueo distribuido (redislock) para varias réplicas de la API.
type RedisLocker struct {
	locker  *redislock.Client
	ttl     time.Duration
	retries int
	backoff time.Duration
	log     *logger.Logger
}

// NewRedisLocker construye el locker. ttl acota cuánto puede quedar tomado un bloqueo
// si el proceso muere; retries son los reintentos antes de ErrLockNotObtained.
func NewRedisLocker(client *redis.Client, ttl time.Duration, retries int, log *logger.Logger) *RedisLocker {
	if retries < 0 {
		retries = 0
	}
	return &RedisLocker{
		locker:  redislock.New(client),
		ttl:     ttl,
		retries: retries,
		backoff: defaultBackoff,
		log:     log,
	}
}

// Lock obtiene el bloqueo de key reintentando con backoff lineal.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lk, err := l.locker.Obtain(ctx, keyPrefix+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(l.backoff), l.retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", domain.ErrLockNotObtained, key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}

	return func() {
		// contexto propio: el del request puede estar cancelado al liberar
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lk.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("key", key).Msg("lock release failed")
		}
	}, nil
}
