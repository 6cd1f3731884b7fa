package service

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MatchRateLimiter limita la frecuencia de busquedas de matches por usuario.
type MatchRateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// sweepEvery es cada cuantas llamadas se eliminan las claves sin hits en la ventana.
const sweepEvery = 256

type memoryRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
	calls  int
	now    func() time.Time
}

// NewMatchRateLimiter crea un rate limiter en memoria de ventana deslizante.
func NewMatchRateLimiter(window time.Duration, max int) MatchRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *memoryRateLimiter) Allow(_ context.Context, key string) bool {
	key = normalizeLimiterKey(key)
	if key == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	cutoff := now.Add(-l.window)

	l.calls++
	if l.calls%sweepEvery == 0 {
		l.sweep(cutoff)
	}

	kept := recentHits(l.hits[key], cutoff)
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}

// sweep borra las claves cuya ventana quedo vacia.
func (l *memoryRateLimiter) sweep(cutoff time.Time) {
	for key, entries := range l.hits {
		if len(recentHits(entries, cutoff)) == 0 {
			delete(l.hits, key)
		}
	}
}

func (l *memoryRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

// recentHits filtra en el lugar los hits posteriores a cutoff.
func recentHits(entries []time.Time, cutoff time.Time) []time.Time {
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}

func normalizeLimiterKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
