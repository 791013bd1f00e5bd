// Package rate throttles repeated login attempts per key.
package rate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxKeys bounds the tracked key set. Past the cap the oldest unused
// limiters are evicted, which at worst re-admits one early attempt.
const maxKeys = 4096

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter enforces a per-key attempt rate, keyed by email or remote host.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	every   time.Duration
	burst   int
}

// New allows burst immediate attempts per key, refilling one every interval.
func New(every time.Duration, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		entries: make(map[string]*entry),
		every:   every,
		burst:   burst,
	}
}

// Allow reports whether key may attempt now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		if len(l.entries) >= maxKeys {
			l.evictOldest()
		}
		e = &entry{limiter: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter.Allow()
}

func (l *Limiter) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, e := range l.entries {
		if oldestKey == "" || e.lastSeen.Before(oldest) {
			oldestKey = key
			oldest = e.lastSeen
		}
	}
	if oldestKey != "" {
		delete(l.entries, oldestKey)
	}
}
