// Package sequence drives the relay bank through the fixed demonstration pattern.
// Time is injectable via the Sleep field so the pattern can be tested without waiting.
package sequence

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/sweeney/relay-sim/internal/relay"
)

// Phase identifies one segment of the demonstration cycle (1-based).
type Phase int

const (
	PhaseOddChase Phase = iota + 1
	PhaseBlink
	PhaseEvenChase
	PhaseBlinkAgain
	PhaseBlocks
)

// String returns a short name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseOddChase:
		return "odd-chase"
	case PhaseBlink, PhaseBlinkAgain:
		return "blink"
	case PhaseEvenChase:
		return "even-chase"
	case PhaseBlocks:
		return "alternate-blocks"
	}
	return "unknown"
}

// Pattern constants.
const (
	BlinkRepeats = 5
	BlockRepeats = 10
	BlockSize    = 4
)

// Observer is notified of sequencer progress. Calls happen on the sequencer goroutine.
type Observer interface {
	PhaseStarted(p Phase)
	CycleCompleted(cycles int)
}

type nopObserver struct{}

func (nopObserver) PhaseStarted(Phase) {}
func (nopObserver) CycleCompleted(int) {}

// Sequencer is the sole writer of the bank.
type Sequencer struct {
	bank     *relay.Bank
	step     time.Duration
	observer Observer

	// Sleep blocks for one step. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// New creates a Sequencer. A nil observer is allowed.
func New(bank *relay.Bank, step time.Duration, observer Observer) *Sequencer {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Sequencer{
		bank:     bank,
		step:     step,
		observer: observer,
		Sleep:    time.Sleep,
	}
}

// Run repeats the demonstration cycle until running becomes false.
// The flag is checked after every step, so shutdown latency is at most one step.
func (s *Sequencer) Run(running *atomic.Bool) error {
	cycles := 0
	for running.Load() {
		if !s.cycle(running) {
			break
		}
		cycles++
		s.observer.CycleCompleted(cycles)
	}
	return nil
}

// cycle runs all five phases in order. Returns false if stopped part way.
func (s *Sequencer) cycle(running *atomic.Bool) bool {
	phases := []struct {
		phase Phase
		run   func(*atomic.Bool) bool
	}{
		{PhaseOddChase, func(r *atomic.Bool) bool { return s.chase(r, 1) }},
		{PhaseBlink, s.blink},
		{PhaseEvenChase, func(r *atomic.Bool) bool { return s.chase(r, 0) }},
		{PhaseBlinkAgain, s.blink},
		{PhaseBlocks, s.blocks},
	}
	for _, p := range phases {
		s.observer.PhaseStarted(p.phase)
		if !p.run(running) {
			return false
		}
	}
	return true
}

// chase clears the bank, then walks every channel in ascending order turning on
// those whose index parity matches. One step per channel, whether or not it changed.
func (s *Sequencer) chase(running *atomic.Bool, parity int) bool {
	s.bank.SetAll(relay.Off)
	for i := 0; i < s.bank.Len(); i++ {
		if i%2 == parity {
			s.set(i, relay.On)
		}
		if !s.pause(running) {
			return false
		}
	}
	return true
}

func (s *Sequencer) blink(running *atomic.Bool) bool {
	for i := 0; i < BlinkRepeats; i++ {
		s.bank.SetAll(relay.Off)
		if !s.pause(running) {
			return false
		}
		s.bank.SetAll(relay.On)
		if !s.pause(running) {
			return false
		}
	}
	return true
}

func (s *Sequencer) blocks(running *atomic.Bool) bool {
	for i := 0; i < BlockRepeats; i++ {
		s.alternate(relay.On)
		if !s.pause(running) {
			return false
		}
		s.alternate(relay.Off)
		if !s.pause(running) {
			return false
		}
	}
	return true
}

// alternate sets consecutive blocks of BlockSize channels, the first block to
// first and each following block to the opposite of its predecessor.
// With 8 channels: [1..4]=first [5..8]=!first. With 16 the pattern repeats.
func (s *Sequencer) alternate(first relay.State) {
	state := first
	for start := 1; start <= s.bank.Len(); start += BlockSize {
		if err := s.bank.SetRangeByLength(start, BlockSize, state); err != nil {
			log.Printf("sequence: %v", err)
		}
		state = invert(state)
	}
}

func (s *Sequencer) set(i int, st relay.State) {
	if err := s.bank.SetChannel(i, st); err != nil {
		log.Printf("sequence: %v", err)
	}
}

func (s *Sequencer) pause(running *atomic.Bool) bool {
	s.Sleep(s.step)
	return running.Load()
}

func invert(s relay.State) relay.State {
	if s == relay.On {
		return relay.Off
	}
	return relay.On
}

// StepsPerCycle returns the number of step sleeps in one full cycle for n channels.
func StepsPerCycle(n int) int {
	return n + 2*BlinkRepeats + n + 2*BlinkRepeats + 2*BlockRepeats
}
