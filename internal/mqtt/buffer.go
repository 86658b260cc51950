package mqtt

import "log"

// pendingMsg stores a serialized MQTT message for replay after reconnection.
type pendingMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// backlog is a bounded FIFO of messages published while disconnected.
// When full the oldest message is dropped. Not safe for concurrent use.
type backlog struct {
	msgs     []pendingMsg
	limit    int
	dropping bool // true once a message has been dropped since the last flush
}

func newBacklog(limit int) *backlog {
	return &backlog{
		msgs:  make([]pendingMsg, 0, limit),
		limit: limit,
	}
}

func (b *backlog) add(msg pendingMsg) {
	if len(b.msgs) == b.limit {
		if !b.dropping {
			log.Printf("mqtt: backlog full (%d messages), dropping oldest", b.limit)
			b.dropping = true
		}
		copy(b.msgs, b.msgs[1:])
		b.msgs[len(b.msgs)-1] = msg
		return
	}
	b.msgs = append(b.msgs, msg)
}

// flush returns the queued messages oldest first and empties the backlog.
func (b *backlog) flush() []pendingMsg {
	if len(b.msgs) == 0 {
		return nil
	}
	out := make([]pendingMsg, len(b.msgs))
	copy(out, b.msgs)
	b.msgs = b.msgs[:0]
	b.dropping = false
	return out
}

func (b *backlog) len() int {
	return len(b.msgs)
}
