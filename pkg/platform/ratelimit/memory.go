package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory is a sliding-window store for a single process. Windows are
// tracked as raw timestamps, so budget never renews in bursts at window
// boundaries. Keys whose windows have fully drained are swept at most
// once per window, keeping the map bounded by active clients.
type Memory struct {
	mu        sync.Mutex
	windows   map[string][]time.Time
	nextSweep time.Time
}

func NewMemory() *Memory {
	return &Memory{windows: make(map[string][]time.Time)}
}

func (m *Memory) Allow(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)

	if now.After(m.nextSweep) {
		m.sweep(cutoff)
		m.nextSweep = now.Add(window)
	}

	kept := m.windows[key][:0]
	for _, ts := range m.windows[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= limit {
		m.windows[key] = kept
		return Result{
			Allowed: false,
			Limit:   limit,
			ResetAt: kept[0].Add(window),
		}, nil
	}

	kept = append(kept, now)
	m.windows[key] = kept
	return Result{
		Allowed:   true,
		Remaining: limit - len(kept),
		Limit:     limit,
		ResetAt:   kept[0].Add(window),
	}, nil
}

// sweep drops keys whose newest timestamp fell out of the window. Must
// be called holding m.mu.
func (m *Memory) sweep(cutoff time.Time) {
	for key, stamps := range m.windows {
		if len(stamps) == 0 || !stamps[len(stamps)-1].After(cutoff) {
			delete(m.windows, key)
		}
	}
}
