package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string        `json:"event,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	Phase         string        `json:"phase"`
	PhaseNumber   int           `json:"phase_number"`
	Cycles        int           `json:"cycles"`
	OnCount       int           `json:"on_count"`
	Channels      []ChannelJSON `json:"channels"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	StartTime     string        `json:"start_time"`
	Timestamp     string        `json:"timestamp"`
	MQTT          MQTTStatus    `json:"mqtt"`
	Config        ConfigJSON    `json:"config"`
}

// ChannelJSON is one relay channel.
type ChannelJSON struct {
	Channel int    `json:"channel"`
	Label   string `json:"label"`
	State   string `json:"state"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Channels int    `json:"channels"`
	StepMs   int64  `json:"step_ms"`
	Simulate bool   `json:"simulate"`
	Polarity string `json:"polarity"`
	Broker   string `json:"broker"`
	HTTPAddr string `json:"http_addr"`
}

// Channels builds the per-channel JSON list, numbering channels from 1.
func Channels(snap Snapshot) []ChannelJSON {
	out := make([]ChannelJSON, len(snap.Channels))
	for i, st := range snap.Channels {
		label := ""
		if i < len(snap.Labels) {
			label = snap.Labels[i]
		}
		out[i] = ChannelJSON{Channel: i + 1, Label: label, State: st.String()}
	}
	return out
}

func buildInner(snap Snapshot) StatusInner {
	phase := ""
	if snap.Phase != 0 {
		phase = snap.Phase.String()
	}
	return StatusInner{
		Phase:         phase,
		PhaseNumber:   int(snap.Phase),
		Cycles:        snap.Cycles,
		OnCount:       snap.OnCount(),
		Channels:      Channels(snap),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			Channels: snap.Config.Channels,
			StepMs:   snap.Config.StepMs,
			Simulate: snap.Config.Simulate,
			Polarity: snap.Config.Polarity,
			Broker:   snap.Config.Broker,
			HTTPAddr: snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
