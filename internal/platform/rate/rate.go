// Package rate wraps golang.org/x/time/rate with the small surface sleuth
// needs: a shared limiter for outbound API calls and a per-key limiter for
// inbound requests.
package rate

import (
	"context"
	"sync"
	"time"

	xrate "golang.org/x/time/rate"
)

// Limiter is a token bucket limiter.
type Limiter struct {
	lim *xrate.Limiter
}

// New creates a limiter allowing rps operations per second with the given
// burst. Non-positive values are raised to 1.
func New(rps float64, burst int) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{lim: xrate.NewLimiter(xrate.Limit(rps), burst)}
}

// Wait blocks until one token is available or ctx ends.
func (l *Limiter) Wait(ctx context.Context) error { return l.lim.Wait(ctx) }

// Allow reports whether one operation may proceed now, consuming a token
// if so.
func (l *Limiter) Allow() bool { return l.lim.Allow() }

// AllowN reports whether n operations may proceed now.
func (l *Limiter) AllowN(n int) bool { return l.lim.AllowN(time.Now(), n) }

// SetRate changes the refill rate.
func (l *Limiter) SetRate(rps float64) {
	if rps <= 0 {
		rps = 1
	}
	l.lim.SetLimit(xrate.Limit(rps))
}

// SetBurst changes the bucket size.
func (l *Limiter) SetBurst(burst int) {
	if burst <= 0 {
		burst = 1
	}
	l.lim.SetBurst(burst)
}

// Rate returns the refill rate in tokens per second.
func (l *Limiter) Rate() float64 { return float64(l.lim.Limit()) }

// Burst returns the bucket size.
func (l *Limiter) Burst() int { return l.lim.Burst() }

// Tokens returns the tokens currently available.
func (l *Limiter) Tokens() float64 { return l.lim.Tokens() }

// KeyedLimiter keeps one Limiter per key, for example per client address.
// Keys idle for longer than the TTL are forgotten on the next sweep.
type KeyedLimiter struct {
	rps   float64
	burst int
	ttl   time.Duration

	mu        sync.Mutex
	entries   map[string]*keyedEntry
	lastSweep time.Time
	now       func() time.Time
}

type keyedEntry struct {
	limiter *Limiter
	seen    time.Time
}

// NewKeyed creates a per-key limiter. A zero ttl keeps keys for ten
// minutes.
func NewKeyed(rps float64, burst int, ttl time.Duration) *KeyedLimiter {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &KeyedLimiter{
		rps:     rps,
		burst:   burst,
		ttl:     ttl,
		entries: make(map[string]*keyedEntry),
		now:     time.Now,
	}
}

// Allow reports whether key may proceed now.
func (k *KeyedLimiter) Allow(key string) bool {
	return k.get(key).Allow()
}

// Len returns the number of tracked keys.
func (k *KeyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

func (k *KeyedLimiter) get(key string) *Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if now.Sub(k.lastSweep) > k.ttl {
		for key, e := range k.entries {
			if now.Sub(e.seen) > k.ttl {
				delete(k.entries, key)
			}
		}
		k.lastSweep = now
	}

	e, ok := k.entries[key]
	if !ok {
		e = &keyedEntry{limiter: New(k.rps, k.burst)}
		k.entries[key] = e
	}
	e.seen = now
	return e.limiter
}
