package pipemsg

import (
	"errors"
	"net"
	"time"
)

// StartReceiver spawns the background goroutine that keeps the pipe
// drained into the mailbox. Idempotent: at most one receiver runs per
// endpoint, and a second call while one is running is a no-op. Starting
// before a connection is established produces a receiver that observes
// a dead channel and exits immediately.
func (e *Endpoint) StartReceiver() {
	if !e.receiving.CompareAndSwap(false, true) {
		return
	}

	e.mu.Lock()
	conn := e.conn
	e.mu.Unlock()
	if conn == nil {
		e.receiving.Store(false)
		return
	}

	go e.receiveLoop(conn)
}

// receiveLoop blocks on reads so the peer's writes never stall on a
// full OS buffer, publishing each chunk into the mailbox. The pause
// between cycles gives a consumer a window to observe a value before a
// rapid follow-up overwrites it. Any read error, including the handle
// close performed by Disconnect, ends the loop; the cause is logged and
// never surfaced to the caller.
func (e *Endpoint) receiveLoop(conn net.Conn) {
	defer e.receiving.Store(false)

	buf := make([]byte, e.bufferSize)
	for e.connected.Load() {
		n, err := conn.Read(buf)
		if n > 0 {
			e.mailbox.publish(string(buf[:n]))
		}
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				e.logger.Debug("receiver stopped", "pipe", e.name, "error", err)
			}
			e.markDisconnected()
			return
		}

		select {
		case <-e.done:
			return
		case <-time.After(e.pollInterval):
		}
	}
}
