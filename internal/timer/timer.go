// Package timer measures pause intervals before they are added to the
// running period.
package timer

import (
	"sync"
	"time"
)

type Timer struct {
	mu      sync.RWMutex
	now     func() time.Time
	started time.Time
	running bool
}

func NewWithClock(now func() time.Time) *Timer {
	return &Timer{now: now}
}

// Start begins measuring. It does nothing if the timer is already running.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}

	t.running = true
	t.started = t.now()
}

// Stop ends the measurement and returns how long the timer ran. A
// stopped timer returns 0.
func (t *Timer) Stop() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return 0
	}

	t.running = false
	return max(t.now().Sub(t.started), 0)
}

// Reset discards the current measurement.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.running = false
	t.started = time.Time{}
}

func (t *Timer) Elapsed() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.running {
		return 0
	}
	return max(t.now().Sub(t.started), 0)
}

func (t *Timer) Running() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}
