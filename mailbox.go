package pipemsg

import "sync"

// mailbox is the single-slot holder of the most recently received
// message. The receiver goroutine is its only writer, the caller its
// only reader; a new arrival overwrites any unread prior value.
type mailbox struct {
	mu  sync.Mutex
	msg string
}

func (m *mailbox) publish(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msg = msg
}

func (m *mailbox) read() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.msg
}

func (m *mailbox) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msg = ""
}
