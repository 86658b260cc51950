package gpio

import "sync"

// FakeWriter is a test double that records every write.
// Safe for concurrent use: the output updater writes while tests inspect.
type FakeWriter struct {
	mu sync.Mutex

	// writes contains a copy of every level vector written, in order.
	writes [][]int

	// closes counts Close calls.
	closes int

	// WriteError, if set, will be returned by Write().
	WriteError error

	// CloseError, if set, will be returned by Close().
	CloseError error
}

// NewFakeWriter creates a FakeWriter.
func NewFakeWriter() *FakeWriter {
	return &FakeWriter{}
}

// Write records a copy of levels.
func (f *FakeWriter) Write(levels []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.WriteError != nil {
		return f.WriteError
	}
	cp := make([]int, len(levels))
	copy(cp, levels)
	f.writes = append(f.writes, cp)
	return nil
}

// Close counts the call.
func (f *FakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closes++
	return f.CloseError
}

// Writes returns a copy of all recorded writes.
func (f *FakeWriter) Writes() [][]int {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([][]int, len(f.writes))
	copy(out, f.writes)
	return out
}

// Last returns the most recent write, or nil.
func (f *FakeWriter) Last() []int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.writes) == 0 {
		return nil
	}
	return f.writes[len(f.writes)-1]
}

// Closes returns the number of Close calls.
func (f *FakeWriter) Closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}
