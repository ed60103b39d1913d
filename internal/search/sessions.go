package search

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSessions bounds how many callers keep a coordinator at once.
const DefaultSessions = 1024

// Sessions hands out one Coordinator per caller key. Least recently used keys are evicted.
type Sessions struct {
	search Func
	window time.Duration

	mu    sync.Mutex
	cache *lru.Cache[string, *Coordinator]
}

func NewSessions(size int, window time.Duration, fn Func) (*Sessions, error) {
	if size <= 0 {
		size = DefaultSessions
	}
	cache, err := lru.New[string, *Coordinator](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create search session cache: %w", err)
	}
	return &Sessions{search: fn, window: window, cache: cache}, nil
}

// For returns the caller's coordinator. An empty key gets a fresh, unshared one.
func (s *Sessions) For(key string) *Coordinator {
	if key == "" {
		return NewCoordinator(s.search, s.window)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cache.Get(key); ok {
		return c
	}
	c := NewCoordinator(s.search, s.window)
	s.cache.Add(key, c)
	return c
}

// Len reports how many sessions are tracked.
func (s *Sessions) Len() int {
	return s.cache.Len()
}
