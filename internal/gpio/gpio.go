// Package gpio provides relay output writing with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The null implementation is used in simulation mode; the fake allows testing without hardware.
package gpio

import "strconv"

// Writer drives the relay output lines.
// Lines are configured as outputs when the Writer is created.
type Writer interface {
	// Write sets every line to the given electrical level (0 or 1), in pin order.
	Write(levels []int) error

	// Close releases GPIO resources.
	Close() error
}

// DefaultChip is the GPIO character device on a Raspberry Pi.
const DefaultChip = "gpiochip0"

// DefaultPins is the relay HAT wiring (BCM numbering), channel 1 first.
// An 8-channel board uses the first eight entries.
var DefaultPins = []int{14, 15, 18, 23, 24, 25, 8, 7, 4, 17, 27, 22, 10, 9, 11, 0}

// Polarity maps a logical ON/OFF to an electrical level.
type Polarity int

const (
	// ActiveLow drives the line low to energise the relay (typical opto-isolated boards).
	ActiveLow Polarity = iota
	ActiveHigh
)

// Level returns the electrical level for a logical state.
func (p Polarity) Level(on bool) int {
	if on == (p == ActiveHigh) {
		return 1
	}
	return 0
}

// String returns "active-low" or "active-high".
func (p Polarity) String() string {
	if p == ActiveHigh {
		return "active-high"
	}
	return "active-low"
}

// Labels returns display labels for n channels: the BCM pin numbers, or 1..n
// when simulating.
func Labels(pins []int, n int, simulate bool) []string {
	labels := make([]string, n)
	for i := range labels {
		if simulate || i >= len(pins) {
			labels[i] = strconv.Itoa(i + 1)
		} else {
			labels[i] = strconv.Itoa(pins[i])
		}
	}
	return labels
}
