package mqtt

import (
	"fmt"
	"testing"
)

func msg(i int) pendingMsg {
	return pendingMsg{topic: "t", payload: []byte(fmt.Sprint(i)), qos: 1}
}

func TestBacklogFlushOrder(t *testing.T) {
	b := newBacklog(4)
	for i := 0; i < 3; i++ {
		b.add(msg(i))
	}
	if b.len() != 3 {
		t.Fatalf("len: got %d, want 3", b.len())
	}

	got := b.flush()
	for i, m := range got {
		if string(m.payload) != fmt.Sprint(i) {
			t.Errorf("msg %d: got %s", i, m.payload)
		}
	}
	if b.len() != 0 {
		t.Errorf("len after flush: got %d, want 0", b.len())
	}
}

func TestBacklogDropsOldest(t *testing.T) {
	b := newBacklog(3)
	for i := 0; i < 5; i++ {
		b.add(msg(i))
	}
	if b.len() != 3 {
		t.Fatalf("len: got %d, want 3", b.len())
	}
	if !b.dropping {
		t.Error("expected dropping flag")
	}

	got := b.flush()
	want := []string{"2", "3", "4"}
	for i := range want {
		if string(got[i].payload) != want[i] {
			t.Errorf("msg %d: got %s, want %s", i, got[i].payload, want[i])
		}
	}
	if b.dropping {
		t.Error("flush should reset dropping flag")
	}
}

func TestBacklogFlushEmpty(t *testing.T) {
	b := newBacklog(2)
	if got := b.flush(); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestBacklogReusableAfterFlush(t *testing.T) {
	b := newBacklog(2)
	b.add(msg(1))
	b.flush()
	b.add(msg(2))

	got := b.flush()
	if len(got) != 1 || string(got[0].payload) != "2" {
		t.Errorf("got %v", got)
	}
}
