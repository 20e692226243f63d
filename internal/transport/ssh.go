package transport

import (
	"io"
	"net"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"qodem/internal/ioerr"
)

// SSHTransport is a client-side SSH session: one "session" channel with a
// pty-req and shell request, exposing the channel's stdin/stdout as the
// non-blocking Transport seam the dispatcher expects.
//
// Grounded on the server-side channel plumbing of the predecessor's SSH
// proxy (accept, open channel, relay requests), adapted from a relaying
// server into a dialing client: qodem owns the session end users type into,
// not a pass-through between two peers.
type SSHTransport struct {
	client  *ssh.Client
	channel ssh.Channel

	mu        sync.Mutex
	buf       []byte
	readErr   error
	connected bool

	readySignal chan struct{}
}

// DialSSH connects, authenticates, opens a session channel, and issues
// pty-req + shell requests for the given terminal type and geometry.
func DialSSH(addr, user string, auth []ssh.AuthMethod, hostKeyCB ssh.HostKeyCallback, timeout time.Duration, term string, cols, rows int) (*SSHTransport, error) {
	config := &ssh.ClientConfig{
		User:            user,
		Auth:            auth,
		HostKeyCallback: hostKeyCB,
		Timeout:         timeout,
	}
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, err
	}
	channel, reqs, err := client.OpenChannel("session", nil)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	go ssh.DiscardRequests(reqs)

	ptyOK, err := channel.SendRequest("pty-req", true, encodePtyReq(term, cols, rows))
	if err != nil || !ptyOK {
		_ = channel.Close()
		_ = client.Close()
		return nil, &net.OpError{Op: "pty-req", Err: io.ErrUnexpectedEOF}
	}
	shellOK, err := channel.SendRequest("shell", true, nil)
	if err != nil || !shellOK {
		_ = channel.Close()
		_ = client.Close()
		return nil, &net.OpError{Op: "shell", Err: io.ErrUnexpectedEOF}
	}

	t := &SSHTransport{
		client:      client,
		channel:     channel,
		connected:   true,
		readySignal: make(chan struct{}, 1),
	}
	go t.pumpReads()
	return t, nil
}

// pumpReads is the one background goroutine this transport needs: the
// x/crypto/ssh Channel has no non-blocking read primitive, so a dedicated
// reader drains it into a buffer the dispatcher's single-threaded loop can
// poll without ever blocking itself.
func (t *SSHTransport) pumpReads() {
	chunk := make([]byte, 4096)
	for {
		n, err := t.channel.Read(chunk)
		t.mu.Lock()
		if n > 0 {
			t.buf = append(t.buf, chunk[:n]...)
		}
		if err != nil {
			t.readErr = err
			t.connected = false
		}
		t.mu.Unlock()
		select {
		case t.readySignal <- struct{}{}:
		default:
		}
		if err != nil {
			return
		}
	}
}

func (t *SSHTransport) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.buf) > 0 {
		n := copy(p, t.buf)
		t.buf = t.buf[n:]
		return n, nil
	}
	if t.readErr != nil {
		if t.readErr == io.EOF {
			return 0, ioerr.ErrEOF
		}
		return 0, ioerr.ErrConnReset
	}
	return 0, ioerr.ErrWouldBlock
}

func (t *SSHTransport) Write(p []byte) (int, error) {
	n, err := t.channel.Write(p)
	if err != nil {
		t.mu.Lock()
		t.connected = false
		t.mu.Unlock()
		return n, ioerr.ErrConnReset
	}
	return n, nil
}

func (t *SSHTransport) PollReadable(timeout time.Duration) bool {
	t.mu.Lock()
	ready := len(t.buf) > 0 || t.readErr != nil
	t.mu.Unlock()
	if ready || timeout <= 0 {
		return ready
	}
	select {
	case <-t.readySignal:
		return true
	case <-time.After(timeout):
		t.mu.Lock()
		defer t.mu.Unlock()
		return len(t.buf) > 0 || t.readErr != nil
	}
}

func (t *SSHTransport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

func (t *SSHTransport) Close() error {
	_ = t.channel.Close()
	return t.client.Close()
}

func (t *SSHTransport) CloseGraceful() error {
	_ = t.channel.CloseWrite()
	return nil
}

// Resize sends a window-change channel request.
func (t *SSHTransport) Resize(cols, rows int) error {
	_, err := t.channel.SendRequest("window-change", false, encodeWindowChange(cols, rows))
	return err
}
