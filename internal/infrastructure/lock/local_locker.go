package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/facility-inventory-api/internal/application/inventory"
	"github.com/jhoicas/facility-inventory-api/internal/domain"
)

var _ inventory.KeyLocker = (*LocalLocker)(nil)

type localEntry struct {
	ch   chan struct{}
	refs int
}

// LocalLocker bloqueo por clave dentro del proceso (una sola réplica, sin Redis).
type LocalLocker struct {
	mu      sync.Mutex
	entries map[string]*localEntry
	wait    time.Duration
}

// NewLocalLocker wait es la espera máxima antes de ErrLockNotObtained (<= 0: esperar al contexto).
func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{entries: make(map[string]*localEntry), wait: wait}
}

// Lock bloquea key hasta que se llame a unlock.
func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	e := l.acquire(key)

	var timeout <-chan time.Time
	if l.wait > 0 {
		timer := time.NewTimer(l.wait)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key)
		return nil, ctx.Err()
	case <-timeout:
		l.release(key)
		return nil, fmt.Errorf("%w: %s", domain.ErrLockNotObtained, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(key)
		})
	}, nil
}

func (l *LocalLocker) acquire(key string) *localEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &localEntry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

// release descuenta la referencia y elimina la entrada cuando nadie la usa.
func (l *LocalLocker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.entries[key]
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
