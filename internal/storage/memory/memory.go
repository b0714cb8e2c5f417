// internal/storage/memory/memory.go
package memory

import (
	"sync"

	"github.com/igniteclubhq/pitchboard/internal/model"
)

// Backend keeps the pitch-state snapshot in memory. It is the default
// store for a single-process pitch board and the backend every test
// uses.
type Backend struct {
	mu      sync.RWMutex
	state   *model.PitchState
	subs    map[int]func()
	nextSub int
}

// New creates a new memory backend.
func New() *Backend {
	return &Backend{
		subs: make(map[int]func()),
	}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// ReadPitchState returns a deep copy of the current snapshot, or
// (nil, nil) when nothing has been written yet.
func (b *Backend) ReadPitchState() (*model.PitchState, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state.Clone(), nil
}

// WritePitchState replaces the snapshot and notifies subscribers.
func (b *Backend) WritePitchState(state *model.PitchState) error {
	b.mu.Lock()
	b.state = state.Clone()
	subs := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	// Notify outside the lock so a subscriber may read back.
	for _, fn := range subs {
		fn()
	}
	return nil
}

// Subscribe registers a change callback and returns an unsubscribe
// function.
func (b *Backend) Subscribe(fn func()) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}
