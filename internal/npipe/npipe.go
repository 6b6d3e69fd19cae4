// Package npipe resolves pipe names to OS addresses and opens the
// platform-appropriate duplex channel: named pipes on Windows, unix
// domain sockets elsewhere.
package npipe

import "time"

// LocalHost is the scope identifier for pipes on the local machine.
const LocalHost = "."

// retryInterval paces repeated dial attempts while the pipe does not
// exist yet. Dialing keeps attempting until the caller's timeout
// elapses rather than failing on the first miss.
const retryInterval = 50 * time.Millisecond
