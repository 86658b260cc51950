package mqtt

import (
	"log"
	"slices"
	"sync/atomic"
	"time"

	"github.com/sweeney/relay-sim/internal/relay"
)

// Mirror periodically publishes the bank whenever it differs from the last
// published state.
type Mirror struct {
	bank   *relay.Bank
	labels []string
	pub    Publisher
	period time.Duration

	last    []relay.State
	failing bool

	// Now and Sleep are injectable for tests.
	Now   func() time.Time
	Sleep func(time.Duration)
}

// NewMirror creates a Mirror polling every period.
func NewMirror(bank *relay.Bank, labels []string, pub Publisher, period time.Duration) *Mirror {
	return &Mirror{
		bank:   bank,
		labels: labels,
		pub:    pub,
		period: period,
		Now:    time.Now,
		Sleep:  time.Sleep,
	}
}

// Run publishes changes until running becomes false. Publish errors are logged, never fatal.
func (m *Mirror) Run(running *atomic.Bool) error {
	for running.Load() {
		m.Refresh()
		m.Sleep(m.period)
	}
	return nil
}

// Refresh publishes the bank if it changed. Returns true if a message was sent.
func (m *Mirror) Refresh() bool {
	snap := m.bank.Snapshot()
	if m.last != nil && slices.Equal(snap, m.last) {
		return false
	}

	err := m.pub.Publish(StateEvent{Timestamp: m.Now(), Channels: snap, Labels: m.labels})
	if err != nil {
		// Don't crash on publish failure; retry on the next refresh.
		if !m.failing {
			log.Printf("mqtt: publish state: %v", err)
			m.failing = true
		}
		return false
	}
	m.failing = false
	m.last = snap
	return true
}
