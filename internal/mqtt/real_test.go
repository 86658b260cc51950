package mqtt

import (
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

type doneToken struct{}

func (doneToken) Wait() bool                     { return true }
func (doneToken) WaitTimeout(time.Duration) bool { return true }
func (doneToken) Error() error                   { return nil }
func (doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// stubClient implements the parts of paho.Client the publisher uses.
type stubClient struct {
	paho.Client

	mu        sync.Mutex
	open      bool
	onClosed  func() // called when IsConnectionOpen reports false
	published []string
}

func (c *stubClient) IsConnectionOpen() bool {
	c.mu.Lock()
	open, hook := c.open, c.onClosed
	c.mu.Unlock()
	if !open && hook != nil {
		hook()
	}
	return open
}

func (c *stubClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, topic)
	return doneToken{}
}

func (c *stubClient) setOpen(open bool) {
	c.mu.Lock()
	c.open = open
	c.mu.Unlock()
}

func (c *stubClient) topics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.published...)
}

func TestRealPublisherQueuesWhileDisconnected(t *testing.T) {
	client := &stubClient{}
	p := &RealPublisher{client: client, pending: newBacklog(8)}

	if err := p.Publish(StateEvent{Timestamp: time.Now()}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := p.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "STARTUP"}); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}
	if got := len(client.topics()); got != 0 {
		t.Fatalf("published while disconnected: got %d, want 0", got)
	}

	client.setOpen(true)
	p.replay()

	got := client.topics()
	want := []string{Topic, TopicSystem}
	if len(got) != len(want) {
		t.Fatalf("replayed: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if p.pending.len() != 0 {
		t.Errorf("backlog: got %d, want 0", p.pending.len())
	}
}

func TestRealPublisherReconnectDuringPublish(t *testing.T) {
	client := &stubClient{}
	p := &RealPublisher{client: client, pending: newBacklog(8)}

	// The connection comes up right after publish sees it closed. The
	// connect handler runs concurrently and must still deliver the message.
	replayed := make(chan struct{})
	client.onClosed = func() {
		client.mu.Lock()
		client.open = true
		client.onClosed = nil
		client.mu.Unlock()
		go func() {
			p.replay()
			close(replayed)
		}()
	}

	if err := p.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "STARTUP"}); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}

	select {
	case <-replayed:
	case <-time.After(2 * time.Second):
		t.Fatal("replay did not finish")
	}

	got := client.topics()
	if len(got) != 1 || got[0] != TopicSystem {
		t.Errorf("published: got %v, want [%s]", got, TopicSystem)
	}
	p.mu.Lock()
	n := p.pending.len()
	p.mu.Unlock()
	if n != 0 {
		t.Errorf("backlog: got %d, want 0", n)
	}
}
