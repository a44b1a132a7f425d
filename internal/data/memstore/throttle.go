package memstore

import (
	"context"
	"sync"
	"time"
)

type throttleEntry struct {
	count     int
	expiresAt time.Time
}

// Throttle is the in-process fixed window counter used when Redis is off.
type Throttle struct {
	mu      sync.Mutex
	entries map[string]*throttleEntry
	now     func() time.Time
}

func NewThrottle() *Throttle {
	return &Throttle{
		entries: make(map[string]*throttleEntry),
		now:     time.Now,
	}
}

func (t *Throttle) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	entry, ok := t.entries[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &throttleEntry{expiresAt: now.Add(window)}
		t.entries[key] = entry
	}
	entry.count++

	return entry.count <= limit, nil
}
