package display

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/sweeney/relay-sim/internal/relay"
)

// Updater periodically renders the bank to a terminal.
type Updater struct {
	bank     *relay.Bank
	renderer *Renderer
	term     Terminal
	period   time.Duration

	// failing is true while the terminal keeps returning errors, so a broken
	// terminal is logged once rather than on every refresh.
	failing bool

	// Sleep blocks between refreshes. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// New creates an Updater refreshing every period.
func New(bank *relay.Bank, renderer *Renderer, term Terminal, period time.Duration) *Updater {
	return &Updater{
		bank:     bank,
		renderer: renderer,
		term:     term,
		period:   period,
		Sleep:    time.Sleep,
	}
}

// Run redraws until running becomes false. Terminal errors are logged, never fatal.
func (u *Updater) Run(running *atomic.Bool) error {
	for running.Load() {
		u.Refresh()
		u.Sleep(u.period)
	}
	return nil
}

// Refresh draws the current bank state once.
func (u *Updater) Refresh() {
	frame := u.renderer.Render(u.bank.Snapshot())

	err := u.term.Clear()
	if err == nil {
		err = u.term.WriteFrame(frame)
	}
	if err != nil {
		if !u.failing {
			log.Printf("display: write frame: %v", err)
			u.failing = true
		}
		return
	}
	u.failing = false
}
