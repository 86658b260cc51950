package display

import (
	"io"
	"sync"
)

// Terminal is the text output sink.
type Terminal interface {
	// Clear erases previous output.
	Clear() error

	// WriteFrame writes one rendered frame.
	WriteFrame(frame string) error
}

// clearScreen moves the cursor home and erases the screen.
const clearScreen = "\x1b[H\x1b[2J"

// ANSITerminal writes frames to an ANSI-capable writer (usually stdout).
type ANSITerminal struct {
	w io.Writer
}

// NewANSITerminal creates a terminal writing to w.
func NewANSITerminal(w io.Writer) *ANSITerminal {
	return &ANSITerminal{w: w}
}

// Clear erases the screen.
func (t *ANSITerminal) Clear() error {
	_, err := io.WriteString(t.w, clearScreen)
	return err
}

// WriteFrame writes frame verbatim.
func (t *ANSITerminal) WriteFrame(frame string) error {
	_, err := io.WriteString(t.w, frame)
	return err
}

// FakeTerminal records frames for test assertions. Safe for concurrent use.
type FakeTerminal struct {
	mu     sync.Mutex
	frames []string
	clears int

	// Err, if set, is returned by Clear and WriteFrame.
	Err error
}

// NewFakeTerminal creates a FakeTerminal.
func NewFakeTerminal() *FakeTerminal {
	return &FakeTerminal{}
}

// Clear counts the call.
func (f *FakeTerminal) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.clears++
	return nil
}

// WriteFrame records the frame.
func (f *FakeTerminal) WriteFrame(frame string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.frames = append(f.frames, frame)
	return nil
}

// Frames returns a copy of the recorded frames.
func (f *FakeTerminal) Frames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.frames))
	copy(out, f.frames)
	return out
}

// Clears returns the number of Clear calls.
func (f *FakeTerminal) Clears() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clears
}
