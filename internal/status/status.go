// Package status provides a thread-safe status tracker for the relay simulator.
// It is read by the HTTP handlers and the MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/relay-sim/internal/relay"
	"github.com/sweeney/relay-sim/internal/sequence"
)

// Config contains daemon configuration for display.
type Config struct {
	Channels int
	StepMs   int64
	Simulate bool
	Polarity string
	Broker   string
	HTTPAddr string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type - safe to use after the lock is released.
type Snapshot struct {
	Channels      []relay.State
	Labels        []string
	Phase         sequence.Phase
	Cycles        int
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// OnCount returns the number of channels currently ON.
func (s Snapshot) OnCount() int {
	n := 0
	for _, st := range s.Channels {
		if st == relay.On {
			n++
		}
	}
	return n
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Tracker holds sequencer progress behind an RWMutex and reads channel
// states from the bank on every snapshot.
type Tracker struct {
	bank   *relay.Bank
	labels []string

	mu        sync.RWMutex
	phase     sequence.Phase
	cycles    int
	mqtt      ConnectionStatus
	startTime time.Time
	config    Config
}

// NewTracker creates a Tracker for bank with the given start time and config.
func NewTracker(startTime time.Time, bank *relay.Bank, labels []string, cfg Config) *Tracker {
	return &Tracker{
		bank:      bank,
		labels:    labels,
		startTime: startTime,
		config:    cfg,
	}
}

// PhaseStarted records the phase the sequencer is running.
func (t *Tracker) PhaseStarted(p sequence.Phase) {
	t.mu.Lock()
	t.phase = p
	t.mu.Unlock()
}

// CycleCompleted records the number of full cycles run.
func (t *Tracker) CycleCompleted(cycles int) {
	t.mu.Lock()
	t.cycles = cycles
	t.mu.Unlock()
}

// SetMQTT sets the source of MQTT connection status. Nil means disconnected.
func (t *Tracker) SetMQTT(cs ConnectionStatus) {
	t.mu.Lock()
	t.mqtt = cs
	t.mu.Unlock()
}

// Cycles returns the number of completed cycles.
func (t *Tracker) Cycles() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cycles
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := Snapshot{
		Labels:    t.labels,
		Phase:     t.phase,
		Cycles:    t.cycles,
		StartTime: t.startTime,
		Config:    t.config,
	}
	cs := t.mqtt
	t.mu.RUnlock()
	if cs != nil {
		s.MQTTConnected = cs.IsConnected()
	}
	s.Channels = t.bank.Snapshot()
	s.Now = time.Now()
	return s
}
