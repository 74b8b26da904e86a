package rate

import (
	"context"
	"sync"
	"time"

	xrate "golang.org/x/time/rate"
)

// MemoryLimiter: token bucket por clave. Limit intentos por Window, con
// ráfaga igual a Limit. Los buckets inactivos se descartan en barridos perezosos.
type MemoryLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     int
	window    time.Duration
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	lim  *xrate.Limiter
	seen time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
		idleTTL: 2 * window,
		now:     time.Now,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) > m.idleTTL {
		for k, b := range m.buckets {
			if now.Sub(b.seen) > m.idleTTL {
				delete(m.buckets, k)
			}
		}
		m.lastSweep = now
	}

	b, ok := m.buckets[key]
	if !ok {
		every := m.window / time.Duration(max(m.limit, 1))
		b = &bucket{lim: xrate.NewLimiter(xrate.Every(every), m.limit)}
		m.buckets[key] = b
	}
	b.seen = now

	if b.lim.AllowN(now, 1) {
		return Result{
			Allowed:   true,
			Remaining: int64(b.lim.TokensAt(now)),
		}, nil
	}

	r := b.lim.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return Result{Allowed: false, RetryAfter: delay}, nil
}
