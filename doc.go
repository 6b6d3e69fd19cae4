// Package pipemsg is a small handshake-oriented IPC primitive over a
// duplex named pipe: named pipes on Windows, unix domain sockets
// elsewhere. One process hosts a server Endpoint, another attaches as a
// client, and both exchange short UTF-8 text messages while continuing
// other work.
//
// A background receiver goroutine, started explicitly with
// StartReceiver, keeps the pipe perpetually drained into a single-slot
// mailbox that ReadMessage returns without blocking. The mailbox holds
// only the latest message: a new arrival overwrites any unread prior
// value, and messages arriving faster than the poll interval (100 ms by
// default) can be missed by the consumer entirely. Messages are sent as
// raw bytes with no framing, so the receiver's buffer size (1024 bytes
// by default) is the practical per-message ceiling; longer messages
// truncate. These limits are intentional: the package targets a
// disciplined request/acknowledge cadence with at most one unread
// message in flight and a single connected peer.
//
// Transport failures seen by the receiver are not surfaced; the
// receiver terminates and the endpoint drifts to disconnected, which
// later WriteMessage and ReadMessage calls report as ErrNotConnected.
// There is no reconnection: after Disconnect, construct a fresh
// Endpoint. When tearing down a pair, disconnect the client before the
// server; both sides tolerate the reverse order by treating the
// resulting I/O failures as ordinary disconnect signals.
package pipemsg
