package mqtt

import "log"

// DefaultBufferSize is how many messages are kept while the broker is
// unreachable.
const DefaultBufferSize = 100

// pending is a serialized message waiting for the broker.
type pending struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// backlog is a bounded FIFO of pending messages. When full, the oldest
// message is dropped. Callers synchronize access.
type backlog struct {
	msgs    []pending
	start   int
	n       int
	dropped int
}

func newBacklog(size int) *backlog {
	if size < 1 {
		size = 1
	}
	return &backlog{msgs: make([]pending, size)}
}

func (b *backlog) add(m pending) {
	size := len(b.msgs)
	if b.n < size {
		b.msgs[(b.start+b.n)%size] = m
		b.n++
		return
	}
	if b.dropped == 0 {
		log.Printf("mqtt: backlog full (%d messages), dropping oldest", size)
	}
	b.dropped++
	b.msgs[b.start] = m
	b.start = (b.start + 1) % size
}

// take returns the queued messages oldest first and empties the backlog.
func (b *backlog) take() []pending {
	if b.n == 0 {
		return nil
	}
	out := make([]pending, 0, b.n)
	for i := 0; i < b.n; i++ {
		out = append(out, b.msgs[(b.start+i)%len(b.msgs)])
	}
	if b.dropped > 0 {
		log.Printf("mqtt: %d messages dropped while disconnected", b.dropped)
	}
	b.start, b.n, b.dropped = 0, 0, 0
	return out
}

func (b *backlog) len() int {
	return b.n
}
