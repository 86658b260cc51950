package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/relay-sim/internal/relay"
	"github.com/sweeney/relay-sim/internal/sequence"
)

// connected is a fixed ConnectionStatus.
type connected bool

func (c connected) IsConnected() bool { return bool(c) }

var labels8 = []string{"14", "15", "18", "23", "24", "25", "8", "7"}

func newTestTracker(start time.Time) (*Tracker, *relay.Bank) {
	bank := relay.NewBank(8)
	cfg := Config{Channels: 8, StepMs: 500, Polarity: "active-low", Broker: "tcp://localhost:1883", HTTPAddr: ":8080"}
	return NewTracker(start, bank, labels8, cfg), bank
}

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr, _ := newTestTracker(start)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.StepMs != 500 {
		t.Errorf("Config.StepMs: got %d, want 500", snap.Config.StepMs)
	}
	if snap.Phase != 0 {
		t.Errorf("Phase: got %v, want none", snap.Phase)
	}
	if snap.Cycles != 0 {
		t.Errorf("Cycles: got %d, want 0", snap.Cycles)
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
	if len(snap.Channels) != 8 {
		t.Errorf("Channels: got %d, want 8", len(snap.Channels))
	}
}

func TestObserverUpdates(t *testing.T) {
	tr, _ := newTestTracker(time.Now())

	tr.PhaseStarted(sequence.PhaseBlocks)
	tr.CycleCompleted(3)
	tr.SetMQTT(connected(true))

	snap := tr.Snapshot()
	if snap.Phase != sequence.PhaseBlocks {
		t.Errorf("Phase: got %v, want %v", snap.Phase, sequence.PhaseBlocks)
	}
	if snap.Cycles != 3 || tr.Cycles() != 3 {
		t.Errorf("Cycles: got %d/%d, want 3", snap.Cycles, tr.Cycles())
	}
	if !snap.MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}
}

func TestSnapshotReadsBank(t *testing.T) {
	tr, bank := newTestTracker(time.Now())
	bank.SetRange(1, 3, relay.On)

	snap := tr.Snapshot()
	if snap.OnCount() != 3 {
		t.Errorf("OnCount: got %d, want 3", snap.OnCount())
	}
	if snap.Channels[2] != relay.On || snap.Channels[3] != relay.Off {
		t.Errorf("Channels: got %v", snap.Channels)
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Now().Add(-90 * time.Second)
	tr, _ := newTestTracker(start)

	up := tr.Snapshot().Uptime()
	if up < 90*time.Second || up > 95*time.Second {
		t.Errorf("Uptime: got %v, want ~90s", up)
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr, bank := newTestTracker(start)
	bank.SetChannel(1, relay.On)
	tr.PhaseStarted(sequence.PhaseOddChase)
	tr.CycleCompleted(2)

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := parsed.Status
	if s.Phase != "odd-chase" || s.PhaseNumber != 1 {
		t.Errorf("Phase: got %q/%d, want odd-chase/1", s.Phase, s.PhaseNumber)
	}
	if s.Cycles != 2 {
		t.Errorf("Cycles: got %d, want 2", s.Cycles)
	}
	if len(s.Channels) != 8 {
		t.Fatalf("Channels: got %d, want 8", len(s.Channels))
	}
	if s.Channels[1] != (ChannelJSON{Channel: 2, Label: "15", State: "ON"}) {
		t.Errorf("Channels[1]: got %+v", s.Channels[1])
	}
	if s.Channels[0].State != "OFF" {
		t.Errorf("Channels[0].State: got %q, want OFF", s.Channels[0].State)
	}
	if s.OnCount != 1 {
		t.Errorf("OnCount: got %d, want 1", s.OnCount)
	}
	if s.StartTime != "2026-01-01T00:00:00Z" {
		t.Errorf("StartTime: got %q", s.StartTime)
	}
	if s.Config.Polarity != "active-low" {
		t.Errorf("Config.Polarity: got %q", s.Config.Polarity)
	}
	if s.Event != "" || s.Reason != "" {
		t.Errorf("web JSON must not carry event/reason, got %q/%q", s.Event, s.Reason)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr, _ := newTestTracker(time.Now())

	var parsed StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGINT"), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("Event: got %q, want SHUTDOWN", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGINT" {
		t.Errorf("Reason: got %q, want SIGINT", parsed.Status.Reason)
	}
	if parsed.Status.Phase != "" {
		t.Errorf("Phase before start: got %q, want empty", parsed.Status.Phase)
	}
}

func TestFormatStatusEventOmitsReasonWhenEmpty(t *testing.T) {
	tr, _ := newTestTracker(time.Now())

	var raw map[string]map[string]any
	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "STARTUP", ""), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := raw["status"]["reason"]; ok {
		t.Error("reason should be omitted when empty")
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr, bank := newTestTracker(time.Now())
	var wg sync.WaitGroup

	// Writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.PhaseStarted(sequence.Phase(i%5 + 1))
			tr.CycleCompleted(i)
			tr.SetMQTT(connected(i%2 == 0))
			bank.SetAll(relay.StateOf(i%2 == 0))
		}
	}()

	// Reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = snap.Uptime()
			_ = FormatJSON(snap)
		}
	}()

	wg.Wait()
}
