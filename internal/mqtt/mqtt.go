// Package mqtt mirrors relay state and lifecycle events to an MQTT broker,
// with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/relay-sim/internal/relay"
)

// Topic is the MQTT topic for relay state changes.
const Topic = "relay/sim/state"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "relay/sim/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a relay state change to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event StateEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// StateEvent is the full bank state at one instant.
type StateEvent struct {
	Timestamp time.Time
	Channels  []relay.State
	Labels    []string
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "OFFLINE"
	Reason     string // e.g., "SIGTERM", "SIGINT", "FAULT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Relays RelaysPayload `json:"relays"`
}

// RelaysPayload contains the relay state details.
type RelaysPayload struct {
	Timestamp string         `json:"timestamp"`
	OnCount   int            `json:"on_count"`
	Channels  []ChannelState `json:"channels"`
}

// ChannelState represents a single channel's state.
type ChannelState struct {
	Channel int    `json:"channel"`
	Label   string `json:"label"`
	State   string `json:"state"`
}

// FormatPayload creates the JSON payload for a state event.
func FormatPayload(event StateEvent) ([]byte, error) {
	p := RelaysPayload{
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339Nano),
		Channels:  make([]ChannelState, len(event.Channels)),
	}
	for i, st := range event.Channels {
		label := ""
		if i < len(event.Labels) {
			label = event.Labels[i]
		}
		if st == relay.On {
			p.OnCount++
		}
		p.Channels[i] = ChannelState{Channel: i + 1, Label: label, State: st.String()}
	}
	return json.Marshal(Payload{Relays: p})
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
