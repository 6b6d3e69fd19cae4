package pipemsg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rbright/pipemsg/internal/npipe"
)

// Role distinguishes the connection-establishing side of an Endpoint.
// Everything after establishment is identical between the two.
type Role string

const (
	RoleServer Role = "server"
	RoleClient Role = "client"
)

var (
	// ErrNotConnected is returned by WriteMessage and ReadMessage when
	// the endpoint has no live connection.
	ErrNotConnected = errors.New("pipemsg: endpoint not connected")

	// ErrAlreadyConnected is returned when a connect operation is
	// attempted on an endpoint that is already connecting or connected.
	ErrAlreadyConnected = errors.New("pipemsg: endpoint already connected")

	// ErrClosed is returned when a connect operation is attempted after
	// Disconnect. Teardown is terminal; construct a fresh Endpoint to
	// reconnect.
	ErrClosed = errors.New("pipemsg: endpoint closed")

	// ErrWrongRole is returned when a server-only operation is called
	// on a client endpoint or vice versa.
	ErrWrongRole = errors.New("pipemsg: operation not valid for this role")
)

// Endpoint is one side of a duplex named-pipe link. A server endpoint
// waits for exactly one peer; a client endpoint dials with a timeout.
// Both then exchange unframed UTF-8 text messages through WriteMessage
// and the mailbox behind ReadMessage.
type Endpoint struct {
	role Role
	host string
	name string

	connectTimeout time.Duration
	pollInterval   time.Duration
	bufferSize     int
	logger         *slog.Logger

	mu    sync.Mutex // guards conn and state transitions
	conn  net.Conn
	state State

	mailbox mailbox

	connected atomic.Bool
	receiving atomic.Bool
	closed    atomic.Bool

	closeOnce sync.Once
	done      chan struct{}
}

// NewServer creates a server-role endpoint hosting the named pipe.
func NewServer(name string, opts ...Option) *Endpoint {
	return newEndpoint(RoleServer, npipe.LocalHost, name, opts)
}

// NewClient creates a client-role endpoint targeting the named pipe on
// host. Host "." (DefaultHost) addresses the local machine.
func NewClient(host, name string, opts ...Option) *Endpoint {
	if host == "" {
		host = DefaultHost
	}
	return newEndpoint(RoleClient, host, name, opts)
}

func newEndpoint(role Role, host, name string, opts []Option) *Endpoint {
	e := &Endpoint{
		role:           role,
		host:           host,
		name:           name,
		connectTimeout: DefaultConnectTimeout,
		pollInterval:   DefaultPollInterval,
		bufferSize:     DefaultBufferSize,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:          StateDisconnected,
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Role reports which side of the link this endpoint establishes.
func (e *Endpoint) Role() Role { return e.role }

// Name reports the pipe name the endpoint was constructed with.
func (e *Endpoint) Name() string { return e.name }

// Connected reports whether the endpoint currently holds a live
// connection. A transport failure detected by the receiver clears it.
func (e *Endpoint) Connected() bool { return e.connected.Load() }

// State reports the connection lifecycle position.
func (e *Endpoint) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// WaitForConnection blocks until exactly one peer connects to the named
// pipe, then marks the endpoint connected. Server role only. There is
// no timeout; cancel ctx to give up, which returns ctx's error.
func (e *Endpoint) WaitForConnection(ctx context.Context) error {
	if e.role != RoleServer {
		return fmt.Errorf("%w: WaitForConnection requires %s", ErrWrongRole, RoleServer)
	}
	if err := e.beginConnect(); err != nil {
		return err
	}

	listener, err := npipe.Listen(e.name)
	if err != nil {
		e.failConnect()
		return fmt.Errorf("host pipe %s: %w", e.name, err)
	}

	// Capacity is one peer: the listener closes after the first accept.
	// The watcher also closes it on cancellation or teardown so Accept
	// cannot block forever.
	accepted := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = listener.Close()
		case <-e.done:
			_ = listener.Close()
		case <-accepted:
		}
	}()

	conn, err := listener.Accept()
	close(accepted)
	_ = listener.Close()
	if err != nil {
		e.failConnect()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if e.closed.Load() {
			return ErrClosed
		}
		return fmt.Errorf("accept peer on pipe %s: %w", e.name, err)
	}

	if !e.finishConnect(conn) {
		return ErrClosed
	}
	e.logger.Debug("peer connected", "pipe", e.name)
	return nil
}

// TryConnect attempts to attach to the named pipe within the configured
// connect timeout. Client role only. It reports success as a bare
// boolean; the underlying cause of a failure is logged, not returned.
func (e *Endpoint) TryConnect(ctx context.Context) bool {
	if e.role != RoleClient {
		e.logger.Warn("TryConnect called on server endpoint", "pipe", e.name)
		return false
	}
	if err := e.beginConnect(); err != nil {
		e.logger.Warn("connect attempt rejected", "pipe", e.name, "error", err)
		return false
	}

	conn, err := npipe.Dial(ctx, e.host, e.name, e.connectTimeout)
	if err != nil {
		e.failConnect()
		e.logger.Debug("connect failed", "pipe", e.name, "host", e.host, "error", err)
		return false
	}

	if !e.finishConnect(conn) {
		return false
	}
	e.logger.Debug("connected", "pipe", e.name, "host", e.host)
	return true
}

func (e *Endpoint) beginConnect() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed.Load() {
		return ErrClosed
	}
	next, err := transition(e.state, eventDial)
	if err != nil {
		return ErrAlreadyConnected
	}
	e.state = next
	return nil
}

// finishConnect installs the freshly established connection. It
// reports false when Disconnect won the race during establishment, in
// which case the connection is closed instead of installed.
func (e *Endpoint) finishConnect(conn net.Conn) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed.Load() {
		_ = conn.Close()
		e.state, _ = transition(e.state, eventDisconnect)
		return false
	}
	e.state, _ = transition(e.state, eventEstablished)
	if e.conn != nil {
		_ = e.conn.Close()
	}
	e.conn = conn
	e.connected.Store(true)
	return true
}

// markDisconnected records a transport drop detected outside an
// explicit Disconnect call. The pipe handle stays open until Disconnect
// disposes it.
func (e *Endpoint) markDisconnected() {
	e.connected.Store(false)
	e.mu.Lock()
	e.state, _ = transition(e.state, eventDisconnect)
	e.mu.Unlock()
}

func (e *Endpoint) failConnect() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state, _ = transition(e.state, eventDialFailed)
}

// WriteMessage sends text to the peer as raw UTF-8 bytes, blocking
// until the OS has accepted them. There is no framing; the peer's read
// buffer size is the practical message size ceiling.
func (e *Endpoint) WriteMessage(text string) error {
	if !e.connected.Load() {
		return ErrNotConnected
	}
	e.mu.Lock()
	conn := e.conn
	e.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	if _, err := conn.Write([]byte(text)); err != nil {
		// A failed write after the peer went away is a disconnect
		// signal, not a crash.
		e.markDisconnected()
		e.logger.Debug("write failed", "pipe", e.name, "error", err)
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// ReadMessage returns the most recently received message without
// blocking. It returns "" when nothing has arrived yet, after
// ResetMessage, or when the receiver has not been started; the return
// value alone cannot distinguish those cases.
func (e *Endpoint) ReadMessage() (string, error) {
	if !e.connected.Load() {
		return "", ErrNotConnected
	}
	return e.mailbox.read(), nil
}

// ResetMessage clears the mailbox so a consumer can poll for the next
// non-empty value to detect a fresh arrival.
func (e *Endpoint) ResetMessage() {
	e.mailbox.reset()
}

// Disconnect tears the endpoint down: it clears the connected flag,
// signals the receiver goroutine to stop, and closes the pipe handle
// exactly once. Safe to call repeatedly and before connecting. Teardown
// is terminal; a fresh Endpoint is needed to reconnect.
func (e *Endpoint) Disconnect() error {
	e.connected.Store(false)

	var err error
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		close(e.done)

		e.mu.Lock()
		conn := e.conn
		e.conn = nil
		e.state, _ = transition(e.state, eventDisconnect)
		e.mu.Unlock()

		if conn != nil {
			err = conn.Close()
		}
		e.logger.Debug("disconnected", "pipe", e.name)
	})
	return err
}
