package gpio

import (
	"errors"
	"testing"
)

func TestFakeWriterRecordsCopies(t *testing.T) {
	f := NewFakeWriter()

	levels := []int{1, 0, 1}
	if err := f.Write(levels); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	levels[0] = 0

	got := f.Last()
	if got[0] != 1 {
		t.Error("recorded write must not alias caller's slice")
	}
	if len(f.Writes()) != 1 {
		t.Errorf("writes: got %d, want 1", len(f.Writes()))
	}
}

func TestFakeWriterError(t *testing.T) {
	f := NewFakeWriter()
	f.WriteError = errors.New("simulated error")

	err := f.Write([]int{1})
	if err == nil || err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
	if len(f.Writes()) != 0 {
		t.Error("failed write must not be recorded")
	}
}

func TestFakeWriterClose(t *testing.T) {
	f := NewFakeWriter()

	if f.Closes() != 0 {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if f.Closes() != 1 {
		t.Errorf("closes: got %d, want 1", f.Closes())
	}
}

func TestNullWriter(t *testing.T) {
	var w Writer = NullWriter{}
	if err := w.Write([]int{0, 1}); err != nil {
		t.Errorf("Write: unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: unexpected error: %v", err)
	}
}

func TestPolarityLevel(t *testing.T) {
	if ActiveLow.Level(true) != 0 {
		t.Error("active-low ON should be 0")
	}
	if ActiveLow.Level(false) != 1 {
		t.Error("active-low OFF should be 1")
	}
	if ActiveHigh.Level(true) != 1 {
		t.Error("active-high ON should be 1")
	}
	if ActiveHigh.Level(false) != 0 {
		t.Error("active-high OFF should be 0")
	}
}

func TestDefaultPins(t *testing.T) {
	if len(DefaultPins) != 16 {
		t.Fatalf("len: got %d, want 16", len(DefaultPins))
	}
	want := []int{14, 15, 18, 23, 24, 25, 8, 7}
	for i, p := range want {
		if DefaultPins[i] != p {
			t.Errorf("pin %d: got %d, want %d", i, DefaultPins[i], p)
		}
	}
}

func TestLabels(t *testing.T) {
	got := Labels(DefaultPins, 8, false)
	want := []string{"14", "15", "18", "23", "24", "25", "8", "7"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("hardware label %d: got %q, want %q", i, got[i], want[i])
		}
	}

	sim := Labels(DefaultPins, 16, true)
	if sim[0] != "1" || sim[15] != "16" {
		t.Errorf("simulated labels: got %q..%q, want 1..16", sim[0], sim[15])
	}
}
