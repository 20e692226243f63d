package transport

import (
	"fmt"
	"time"

	"qodem/internal/ioerr"
)

// RloginTransport implements the rlogin client handshake (RFC 1282): one
// null byte, then "localuser\x00remoteuser\x00termtype/speed\x00", after
// which the link carries raw bytes with no further framing.
type RloginTransport struct {
	sock        *RawSocket
	handshook   bool
	ackSeen     bool
	outHandshake []byte
}

// DialRlogin opens the TCP connection and queues the handshake bytes; the
// handshake is flushed lazily on the first Write/Read so dialing never blocks.
func DialRlogin(addr string, timeout time.Duration, localUser, remoteUser, termType string, speed int) (*RloginTransport, error) {
	sock, err := DialRawSocket(addr, timeout)
	if err != nil {
		return nil, err
	}
	hs := []byte{0}
	hs = append(hs, []byte(localUser)...)
	hs = append(hs, 0)
	hs = append(hs, []byte(remoteUser)...)
	hs = append(hs, 0)
	hs = append(hs, []byte(fmt.Sprintf("%s/%d", termType, speed))...)
	hs = append(hs, 0)
	return &RloginTransport{sock: sock, outHandshake: hs}, nil
}

func (r *RloginTransport) flushHandshake() {
	for len(r.outHandshake) > 0 {
		n, err := r.sock.Write(r.outHandshake)
		if n > 0 {
			r.outHandshake = r.outHandshake[n:]
		}
		if err != nil {
			return
		}
	}
}

func (r *RloginTransport) Read(p []byte) (int, error) {
	r.flushHandshake()
	if len(r.outHandshake) > 0 {
		return 0, ioerr.ErrWouldBlock
	}
	n, err := r.sock.Read(p)
	if !r.ackSeen && n > 0 {
		// rlogin servers send a single NUL ack before the session begins;
		// strip exactly one leading NUL if present.
		if p[0] == 0 {
			copy(p, p[1:n])
			n--
		}
		r.ackSeen = true
	}
	return n, err
}

func (r *RloginTransport) Write(p []byte) (int, error) {
	r.flushHandshake()
	if len(r.outHandshake) > 0 {
		return 0, ioerr.ErrWouldBlock
	}
	return r.sock.Write(p)
}

func (r *RloginTransport) PollReadable(timeout time.Duration) bool {
	return r.sock.PollReadable(timeout)
}

func (r *RloginTransport) IsConnected() bool    { return r.sock.IsConnected() }
func (r *RloginTransport) Close() error         { return r.sock.Close() }
func (r *RloginTransport) CloseGraceful() error { return r.sock.CloseGraceful() }
