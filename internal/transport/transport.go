// Package transport implements the connection-method abstraction: one
// non-blocking io.ReadWriteCloser-shaped interface behind raw TCP, telnet,
// rlogin, SSH, a local co-process (pty), and serial variants. The dispatcher
// drives every variant the same way: poll for readiness, read or write
// without blocking, and classify any error through internal/ioerr.
package transport

import "time"

// Transport is the capability surface the dispatcher drives. Read and Write
// never block: they return ioerr.ErrWouldBlock immediately when no data or
// buffer space is currently available, so a single-threaded event loop can
// poll many transports without a reader goroutine per connection.
type Transport interface {
	// Read returns up to len(p) bytes already available, or
	// (0, ioerr.ErrWouldBlock) if none are ready yet.
	Read(p []byte) (int, error)
	// Write enqueues bytes for the wire, returning (0, ioerr.ErrWouldBlock)
	// if the underlying send buffer is currently full.
	Write(p []byte) (int, error)
	// PollReadable reports whether a Read would return data right now,
	// waiting up to timeout for readiness (0 means return immediately).
	PollReadable(timeout time.Duration) bool
	// IsConnected reports whether the transport believes the link is live.
	IsConnected() bool
	// Close tears the connection down immediately, discarding any
	// unflushed output.
	Close() error
	// CloseGraceful attempts an orderly shutdown (e.g. TCP half-close,
	// SSH channel EOF) before the transport becomes unusable.
	CloseGraceful() error
}

// Resizer is implemented by transports that can propagate a terminal
// geometry change to the remote end (SSH window-change, telnet NAWS, pty
// ioctl). Transports that can't (raw TCP, serial) simply don't implement it.
type Resizer interface {
	Resize(cols, rows int) error
}

// Dialer opens a Transport to an address. No variant implements it: the
// network variants are opened with their own functions (DialRawSocket,
// DialTelnet, DialRlogin, DialSSH), and local process and serial have
// their own constructors since they don't dial a network address.
type Dialer interface {
	Dial(addr string, timeout time.Duration) (Transport, error)
}
