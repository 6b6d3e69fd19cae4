package pipemsg

import (
	"log/slog"
	"time"
)

const (
	// DefaultHost addresses pipes on the local machine.
	DefaultHost = "."

	// DefaultConnectTimeout bounds a client's TryConnect attempt.
	DefaultConnectTimeout = 5 * time.Second

	// DefaultPollInterval is the pause between receiver read cycles. It
	// gives a consumer a window to observe a message before the next
	// arrival overwrites it.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultBufferSize is the receiver's per-read buffer and the
	// practical per-message size ceiling; longer messages truncate.
	DefaultBufferSize = 1024
)

// Option adjusts an Endpoint at construction time.
type Option func(*Endpoint)

// WithConnectTimeout sets how long a client's TryConnect blocks before
// reporting failure.
func WithConnectTimeout(d time.Duration) Option {
	return func(e *Endpoint) {
		if d > 0 {
			e.connectTimeout = d
		}
	}
}

// WithPollInterval sets the pause between receiver read cycles.
func WithPollInterval(d time.Duration) Option {
	return func(e *Endpoint) {
		if d > 0 {
			e.pollInterval = d
		}
	}
}

// WithBufferSize sets the receiver's per-read buffer size in bytes.
func WithBufferSize(n int) Option {
	return func(e *Endpoint) {
		if n > 0 {
			e.bufferSize = n
		}
	}
}

// WithLogger routes the endpoint's diagnostics — connect failure detail
// and receiver termination causes that the public surface swallows —
// to the given logger. The default discards them.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Endpoint) {
		if logger != nil {
			e.logger = logger
		}
	}
}
