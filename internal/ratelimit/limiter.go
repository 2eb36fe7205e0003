package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// KeyLimiter keeps one token bucket per client key (the remote IP for the
// auth routes).
type KeyLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Config
}

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 5,
		BurstSize:         10,
	}
}

func NewKeyLimiter(config Config) *KeyLimiter {
	return &KeyLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func (l *KeyLimiter) limiter(key string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[key]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists = l.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(l.defaults.RequestsPerSecond), l.defaults.BurstSize)
	l.limiters[key] = limiter
	return limiter
}

// Allow reports whether the key may make another attempt right now.
func (l *KeyLimiter) Allow(key string) bool {
	return l.limiter(key).Allow()
}
