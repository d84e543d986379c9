package session

import (
	"sync"
	"time"
)

// RestTimer counts down between sets. Start and Pause are the only
// transitions; a countdown that reaches zero calls onComplete once and
// returns the timer to inactive.
type RestTimer struct {
	mu         sync.Mutex
	interval   time.Duration
	onComplete func()

	remaining int
	startedAt time.Time
	stop      chan struct{}
}

// NewRestTimer creates an inactive timer. onComplete may be nil.
func NewRestTimer(onComplete func()) *RestTimer {
	return &RestTimer{interval: time.Second, onComplete: onComplete}
}

// Start begins a countdown of seconds, replacing any running one. A
// non-positive value stops the timer.
func (t *RestTimer) Start(seconds int) {
	t.mu.Lock()
	t.stopLocked()
	if seconds <= 0 {
		t.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	t.remaining = seconds
	t.startedAt = time.Now()
	t.stop = stop
	interval := t.interval
	t.mu.Unlock()

	go t.run(stop, interval)
}

// Pause clears the countdown. It cannot be resumed.
func (t *RestTimer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Remaining returns the seconds left and whether a countdown is running.
func (t *RestTimer) Remaining() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining, t.stop != nil
}

// Active reports whether a countdown is running.
func (t *RestTimer) Active() bool {
	_, ok := t.Remaining()
	return ok
}

// StartedAt returns when the running countdown began, or the zero time.
func (t *RestTimer) StartedAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startedAt
}

func (t *RestTimer) stopLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	t.remaining = 0
	t.startedAt = time.Time{}
}

func (t *RestTimer) run(stop chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		t.mu.Lock()
		// A newer Start or a Pause owns the timer now.
		if t.stop != stop {
			t.mu.Unlock()
			return
		}
		t.remaining--
		if t.remaining > 0 {
			t.mu.Unlock()
			continue
		}
		t.stop = nil
		t.remaining = 0
		t.startedAt = time.Time{}
		cb := t.onComplete
		t.mu.Unlock()

		if cb != nil {
			cb()
		}
		return
	}
}
