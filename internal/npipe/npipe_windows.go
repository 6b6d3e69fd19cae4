//go:build windows

package npipe

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Microsoft/go-winio"
)

// Addr maps a host scope and pipe name to the Windows pipe namespace.
// Host "." addresses the local machine.
func Addr(host, name string) string {
	if host == "" {
		host = LocalHost
	}
	return `\\` + host + `\pipe\` + name
}

// Listen opens a named pipe listener on the local machine.
func Listen(name string) (net.Listener, error) {
	listener, err := winio.ListenPipe(Addr(LocalHost, name), nil)
	if err != nil {
		return nil, fmt.Errorf("listen pipe %s: %w", name, err)
	}
	return listener, nil
}

// Dial connects to the named pipe, retrying while the pipe does not
// exist until timeout elapses. winio waits out a busy pipe on its own
// but fails immediately when no server has created it yet.
func Dial(ctx context.Context, host, name string, timeout time.Duration) (net.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addr := Addr(host, name)
	for {
		conn, err := winio.DialPipeContext(dialCtx, addr)
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
