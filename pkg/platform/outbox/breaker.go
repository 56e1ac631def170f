package outbox

import (
	"sync"
	"time"
)

// CircuitBreaker keeps the relay from hammering a down broker. After
// threshold consecutive failures the circuit opens for cooldown; the first
// attempt after cooldown is the half-open probe.
type CircuitBreaker struct {
	mu sync.RWMutex

	threshold int
	cooldown  time.Duration

	failures  int
	openUntil time.Time
	isOpen    bool
}

// NewCircuitBreaker creates a breaker. Zero or negative arguments fall back
// to 5 failures / 1 minute.
func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	return &CircuitBreaker{threshold: threshold, cooldown: cooldown}
}

// Allow reports whether an attempt may proceed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.RLock()
	if !cb.isOpen {
		cb.mu.RUnlock()
		return true
	}
	expired := time.Now().After(cb.openUntil)
	cb.mu.RUnlock()

	if !expired {
		return false
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.isOpen && time.Now().After(cb.openUntil) {
		cb.isOpen = false
		cb.failures = 0
	}
	return !cb.isOpen
}

// RecordSuccess closes the circuit.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.isOpen = false
}

// RecordFailure counts a failure and opens the circuit at the threshold.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures++
	if cb.failures >= cb.threshold {
		cb.isOpen = true
		cb.openUntil = time.Now().Add(cb.cooldown)
	}
}
