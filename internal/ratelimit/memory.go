package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	dur   time.Duration
	count int
}

// MemoryStore keeps counter windows in a process-local map. State is not
// shared across instances; good enough when redis is down or absent.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]*window)}
}

// Incr implements Store. Never fails.
func (m *MemoryStore) Incr(_ context.Context, key string, win time.Duration, now time.Time) (int, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if !ok || now.Sub(w.start) >= win {
		w = &window{start: now, dur: win, count: 1}
		m.windows[key] = w
		return w.count, w.start, nil
	}
	w.count++
	return w.count, w.start, nil
}

// Prune removes identifiers whose window had fully expired by now. Expired
// entries are otherwise reset lazily on the next Incr, so pruning only
// bounds memory, not correctness.
func (m *MemoryStore) Prune(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, w := range m.windows {
		if now.Sub(w.start) >= w.dur {
			delete(m.windows, key)
		}
	}
}

// Len reports the number of tracked identifiers.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}
