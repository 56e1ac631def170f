package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryList keeps revoked token ids in-process. Entries are dropped lazily
// on lookup once their deadline passes.
type MemoryList struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemoryList() *MemoryList {
	return &MemoryList{revoked: make(map[string]time.Time)}
}

func (l *MemoryList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (l *MemoryList) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	deadline, ok := l.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(deadline) {
		delete(l.revoked, jti)
		return false, nil
	}
	return true, nil
}
