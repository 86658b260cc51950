package gpio

// NullWriter discards all writes. Used when no relay hardware is attached.
type NullWriter struct{}

// Write does nothing.
func (NullWriter) Write(levels []int) error { return nil }

// Close does nothing.
func (NullWriter) Close() error { return nil }
