package session

import (
	"sync/atomic"
	"testing"
	"time"
)

func fastTimer(onComplete func()) *RestTimer {
	t := NewRestTimer(onComplete)
	t.interval = 2 * time.Millisecond
	return t
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// TestRestTimerCompletesOnce verifies the callback fires exactly once and the timer clears itself.
func TestRestTimerCompletesOnce(t *testing.T) {
	var calls atomic.Int32
	timer := fastTimer(func() { calls.Add(1) })
	timer.Start(3)
	if !timer.Active() || timer.StartedAt().IsZero() {
		t.Fatal("timer not active after Start")
	}

	waitFor(t, func() bool { return calls.Load() == 1 })
	time.Sleep(20 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("callbacks = %d, want 1", n)
	}
	if rem, active := timer.Remaining(); active || rem != 0 {
		t.Errorf("Remaining = %d, %v, want 0, false", rem, active)
	}
	if !timer.StartedAt().IsZero() {
		t.Error("StartedAt not cleared")
	}
}

// TestRestTimerPause verifies a paused countdown never completes.
func TestRestTimerPause(t *testing.T) {
	var calls atomic.Int32
	timer := NewRestTimer(func() { calls.Add(1) })
	timer.interval = 5 * time.Millisecond
	timer.Start(4)
	timer.Pause()
	time.Sleep(50 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("callbacks = %d, want 0", n)
	}
	if timer.Active() {
		t.Error("timer active after Pause")
	}
}

// TestRestTimerLastStartWins verifies a restart replaces the running countdown.
func TestRestTimerLastStartWins(t *testing.T) {
	var calls atomic.Int32
	timer := NewRestTimer(func() { calls.Add(1) })
	timer.Start(1000)
	timer.interval = 2 * time.Millisecond
	timer.Start(2)

	waitFor(t, func() bool { return calls.Load() == 1 })
	time.Sleep(20 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("callbacks = %d, want 1", n)
	}
}

// TestRestTimerNonPositive verifies Start(0) leaves the timer inactive.
func TestRestTimerNonPositive(t *testing.T) {
	timer := fastTimer(nil)
	timer.Start(5)
	timer.Start(0)
	if timer.Active() {
		t.Error("timer active after Start(0)")
	}
}
