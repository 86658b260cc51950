package relay

import (
	"errors"
	"fmt"
	"sync"
)

// Bank holds the logical state of every channel behind a single mutex.
// Channel identity is the index, fixed for the lifetime of the bank.
type Bank struct {
	mu     sync.Mutex
	states []State
}

// NewBank creates a bank of n channels, all OFF.
func NewBank(n int) *Bank {
	return &Bank{states: make([]State, n)}
}

// Len returns the number of channels.
func (b *Bank) Len() int {
	return len(b.states)
}

// SetChannel sets a single channel (0-based index).
// An index outside the bank leaves the bank unchanged and returns ErrOutOfRange.
func (b *Bank) SetChannel(index int, s State) error {
	if index < 0 || index >= len(b.states) {
		return fmt.Errorf("set channel %d of %d: %w", index, len(b.states), ErrOutOfRange)
	}
	b.mu.Lock()
	b.states[index] = s
	b.mu.Unlock()
	return nil
}

// SetAll sets every channel to s.
func (b *Bank) SetAll(s State) {
	for i := range b.states {
		// Cannot fail: i is always in range.
		_ = b.SetChannel(i, s)
	}
}

// SetRange sets channels start..end (1-based, inclusive).
// Each write is locked independently. Indices outside the bank are reported
// in the returned error; the in-range part of the range is still applied.
func (b *Bank) SetRange(start, end int, s State) error {
	var errs []error
	for ch := start - 1; ch < end; ch++ {
		if err := b.SetChannel(ch, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetRangeByLength sets length channels beginning at start (1-based).
func (b *Bank) SetRangeByLength(start, length int, s State) error {
	return b.SetRange(start, start+length-1, s)
}

// Snapshot returns a consistent copy of all channel states.
// It is a value - safe to use after the lock is released.
func (b *Bank) Snapshot() []State {
	b.mu.Lock()
	out := make([]State, len(b.states))
	copy(out, b.states)
	b.mu.Unlock()
	return out
}
