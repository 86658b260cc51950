// Package relay holds the shared channel state of the relay bank.
// This package has NO hardware or terminal dependencies; electrical levels and
// rendering are applied by the consumers of a snapshot.
package relay

import "errors"

// State represents the logical state of a relay channel.
// The zero value is Off so a freshly allocated bank is all OFF.
type State uint8

const (
	Off State = iota
	On
)

// String returns "ON" or "OFF".
func (s State) String() string {
	if s == On {
		return "ON"
	}
	return "OFF"
}

// StateOf converts a boolean (true = ON) to a State.
func StateOf(on bool) State {
	if on {
		return On
	}
	return Off
}

// ErrOutOfRange is returned when a channel index is outside the bank.
var ErrOutOfRange = errors.New("channel out of range")

// Supported channel counts.
const (
	Channels8  = 8
	Channels16 = 16
)
