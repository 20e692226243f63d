package transport

import (
	"errors"
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"qodem/internal/ioerr"
)

// RawSocket is the unadorned TCP transport: bytes flow in both directions
// with no protocol framing, used for a host that speaks nothing but its own
// application protocol over a bare socket.
type RawSocket struct {
	conn      net.Conn
	connected bool
	// pushback holds a byte pulled out by PollReadable's readiness probe,
	// since net.Conn has no peek primitive; Read drains this before the
	// socket.
	pushback []byte
}

// DialRawSocket opens a TCP connection with the given dial timeout.
func DialRawSocket(addr string, timeout time.Duration) (*RawSocket, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return &RawSocket{conn: conn, connected: true}, nil
}

func (r *RawSocket) Read(p []byte) (int, error) {
	if len(r.pushback) > 0 {
		n := copy(p, r.pushback)
		r.pushback = r.pushback[n:]
		return n, nil
	}
	_ = r.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
	n, err := r.conn.Read(p)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, ioerr.ErrWouldBlock
		}
		r.connected = false
		return n, classifyNetErr(err)
	}
	return n, nil
}

func (r *RawSocket) Write(p []byte) (int, error) {
	_ = r.conn.SetWriteDeadline(time.Now().Add(time.Millisecond))
	n, err := r.conn.Write(p)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, ioerr.ErrWouldBlock
		}
		r.connected = false
		return n, classifyNetErr(err)
	}
	return n, nil
}

// PollReadable waits up to timeout for the socket's file descriptor to
// become readable via poll(2), rather than racing a deadline against Read
// as the other transports without a raw fd have to.
func (r *RawSocket) PollReadable(timeout time.Duration) bool {
	if len(r.pushback) > 0 {
		return true
	}
	sc, ok := r.conn.(syscall.Conn)
	if !ok {
		return r.pollViaDeadline(timeout)
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return r.pollViaDeadline(timeout)
	}
	ready := false
	_ = raw.Control(func(fd uintptr) {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, _ := unix.Poll(fds, int(timeout/time.Millisecond))
		ready = n > 0 && fds[0].Revents&unix.POLLIN != 0
	})
	return ready
}

// pollViaDeadline is the fallback for a net.Conn implementation with no
// SyscallConn (none of net's own types lack one, but an embedder's mock
// might), reusing the one-byte-peek-via-deadline trick.
func (r *RawSocket) pollViaDeadline(timeout time.Duration) bool {
	_ = r.conn.SetReadDeadline(time.Now().Add(timeout))
	one := make([]byte, 1)
	n, err := r.conn.Read(one)
	_ = r.conn.SetReadDeadline(time.Time{})
	if n > 0 {
		r.pushback = append(r.pushback, one[:n]...)
		return true
	}
	return err == nil
}

func (r *RawSocket) IsConnected() bool { return r.connected }

func (r *RawSocket) Close() error {
	r.connected = false
	return r.conn.Close()
}

func (r *RawSocket) CloseGraceful() error {
	if tc, ok := r.conn.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
	}
	r.connected = false
	return r.conn.Close()
}

func classifyNetErr(err error) error {
	if errors.Is(err, net.ErrClosed) {
		return ioerr.ErrEOF
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ioerr.ErrConnReset
	}
	return ioerr.ErrOther
}
