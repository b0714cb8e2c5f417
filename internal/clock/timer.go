package clock

import (
	"sync"
	"time"
)

// Timer is a local match timer implementing Source. It tracks elapsed
// seconds per half and notifies listeners on every state change so
// pollers can re-evaluate immediately instead of waiting for the next
// tick.
type Timer struct {
	mu        sync.RWMutex
	snapshot  Snapshot
	listeners []func()

	// now is swappable for tests.
	now func() time.Time
}

// NewTimer constructs a stopped timer at the start of half 1.
func NewTimer(minutesPerHalf int) *Timer {
	t := &Timer{now: time.Now}
	t.snapshot = Snapshot{
		MinutesPerHalf: minutesPerHalf,
		CurrentHalf:    1,
		LastUpdate:     t.now(),
	}
	return t
}

// ReadClock implements Source.
func (t *Timer) ReadClock() (*Snapshot, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snap := t.snapshot
	return &snap, nil
}

// AddListener registers a callback invoked after every state change.
func (t *Timer) AddListener(fn func()) {
	t.mu.Lock()
	t.listeners = append(t.listeners, fn)
	t.mu.Unlock()
}

// Start begins (or resumes) the clock.
func (t *Timer) Start() {
	t.update(func(s *Snapshot) {
		s.IsRunning = true
	})
}

// Pause freezes the clock, folding wall-clock drift into the recorded
// elapsed seconds.
func (t *Timer) Pause() {
	t.update(func(s *Snapshot) {
		if s.IsRunning {
			s.ElapsedSeconds += int(t.now().Sub(s.LastUpdate).Seconds())
			s.IsRunning = false
		}
	})
}

// StartSecondHalf moves the timer to the beginning of half 2, stopped.
func (t *Timer) StartSecondHalf() {
	t.update(func(s *Snapshot) {
		s.CurrentHalf = 2
		s.ElapsedSeconds = 0
		s.IsRunning = false
	})
}

// FullTime stops the clock at the end of half 2.
func (t *Timer) FullTime() {
	t.update(func(s *Snapshot) {
		s.CurrentHalf = 2
		s.ElapsedSeconds = s.MinutesPerHalf * 60
		s.IsRunning = false
	})
}

// SetElapsed jumps the clock to the given position. Used by operator
// corrections and tests.
func (t *Timer) SetElapsed(half, elapsedSeconds int) {
	t.update(func(s *Snapshot) {
		s.CurrentHalf = half
		s.ElapsedSeconds = elapsedSeconds
	})
}

func (t *Timer) update(mutate func(*Snapshot)) {
	t.mu.Lock()
	mutate(&t.snapshot)
	t.snapshot.LastUpdate = t.now()
	listeners := append([]func(){}, t.listeners...)
	t.mu.Unlock()

	// Notify outside the lock to avoid deadlocks with re-entrant reads.
	for _, fn := range listeners {
		fn()
	}
}
