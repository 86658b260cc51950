//go:build linux

package gpio

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealWriter drives relay lines on actual hardware using Linux GPIO character device.
type RealWriter struct {
	chip  *gpiocdev.Chip
	lines *gpiocdev.Lines
}

// NewRealWriter requests pins on chip as outputs, all set to initial.
func NewRealWriter(chip string, pins []int, initial int) (*RealWriter, error) {
	c, err := gpiocdev.NewChip(chip, gpiocdev.WithConsumer("relay-sim"))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	values := make([]int, len(pins))
	for i := range values {
		values[i] = initial
	}

	lines, err := c.RequestLines(pins, gpiocdev.AsOutput(values...))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("request relay pins %v: %w", pins, err)
	}

	return &RealWriter{
		chip:  c,
		lines: lines,
	}, nil
}

// Write sets all relay lines in a single request.
func (w *RealWriter) Write(levels []int) error {
	if err := w.lines.SetValues(levels); err != nil {
		return fmt.Errorf("set relay pins: %w", err)
	}
	return nil
}

// Close releases GPIO resources.
// Reconfigures lines to input (matching Pi boot defaults) before closing so the
// relay board is released when the process exits.
func (w *RealWriter) Close() error {
	var errs []error

	if w.lines != nil {
		if err := w.lines.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure relay pins: %w", err))
		}
		if err := w.lines.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close relay pins: %w", err))
		}
	}
	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	return errors.Join(errs...)
}
