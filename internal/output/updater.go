// Package output mirrors the relay bank onto the GPIO lines.
package output

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sweeney/relay-sim/internal/gpio"
	"github.com/sweeney/relay-sim/internal/relay"
)

// Updater periodically writes a bank snapshot to the hardware sink.
type Updater struct {
	bank     *relay.Bank
	writer   gpio.Writer
	polarity gpio.Polarity
	period   time.Duration

	// Sleep blocks between refreshes. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// New creates an Updater refreshing every period.
func New(bank *relay.Bank, writer gpio.Writer, polarity gpio.Polarity, period time.Duration) *Updater {
	return &Updater{
		bank:     bank,
		writer:   writer,
		polarity: polarity,
		period:   period,
		Sleep:    time.Sleep,
	}
}

// Run refreshes the outputs until running becomes false.
// A write failure stops the loop and is returned to the caller.
func (u *Updater) Run(running *atomic.Bool) error {
	for running.Load() {
		if err := u.Refresh(); err != nil {
			return err
		}
		u.Sleep(u.period)
	}
	return nil
}

// Refresh writes the current bank state once.
func (u *Updater) Refresh() error {
	if err := u.writer.Write(Levels(u.bank.Snapshot(), u.polarity)); err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}
	return nil
}

// Levels translates logical states into electrical levels.
func Levels(states []relay.State, p gpio.Polarity) []int {
	levels := make([]int, len(states))
	for i, s := range states {
		levels[i] = p.Level(s == relay.On)
	}
	return levels
}
