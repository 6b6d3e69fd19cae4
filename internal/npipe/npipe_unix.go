//go:build !windows

package npipe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Addr maps a pipe name to a unix socket path. The socket lives under
// XDG_RUNTIME_DIR when set, otherwise the system temp directory. The
// host scope is ignored on unix; only local pipes exist here.
func Addr(_, name string) string {
	dir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR"))
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, name+".pipe")
}

// Listen opens a unix socket listener for the named pipe, removing any
// stale socket file left behind by a previous owner.
func Listen(name string) (net.Listener, error) {
	path := Addr(LocalHost, name)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket %s: %w", path, err)
	}
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen unix %s: %w", path, err)
	}
	return listener, nil
}

// Dial connects to the named pipe's unix socket, retrying until the
// socket appears or timeout elapses. A unix dial against a missing
// socket fails instantly, so a single attempt would never honor the
// caller's connect window.
func Dial(ctx context.Context, host, name string, timeout time.Duration) (net.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	path := Addr(host, name)
	var dialer net.Dialer
	for {
		conn, err := dialer.DialContext(dialCtx, "unix", path)
		if err == nil {
			return conn, nil
		}
		select {
		case <-dialCtx.Done():
			return nil, err
		case <-time.After(retryInterval):
		}
	}
}
