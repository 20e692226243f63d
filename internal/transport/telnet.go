package transport

import (
	"time"

	"qodem/internal/ioerr"
	"qodem/internal/telnet"
)

// TelnetTransport layers IAC option negotiation over a RawSocket, exposing
// only the negotiated DATA stream to callers.
type TelnetTransport struct {
	sock *RawSocket
	neg  *telnet.Negotiator
	cols, rows int

	inbound  []byte
	outReady []byte
}

// DialTelnet opens a TCP connection and immediately queues the client's
// initial option offers.
func DialTelnet(addr string, timeout time.Duration, hooks telnet.Hooks) (*TelnetTransport, error) {
	sock, err := DialRawSocket(addr, timeout)
	if err != nil {
		return nil, err
	}
	neg := telnet.NewNegotiator(hooks)
	t := &TelnetTransport{sock: sock, neg: neg}
	t.outReady = append(t.outReady, neg.InitialNegotiation()...)
	return t, nil
}

func (t *TelnetTransport) pump() {
	buf := make([]byte, 4096)
	for {
		n, err := t.sock.Read(buf)
		if n > 0 {
			data, reply := t.neg.Feed(buf[:n])
			t.inbound = append(t.inbound, data...)
			t.outReady = append(t.outReady, reply...)
		}
		if err != nil {
			return
		}
		if n < len(buf) {
			return
		}
	}
}

func (t *TelnetTransport) Read(p []byte) (int, error) {
	t.pump()
	t.flushReplies()
	if len(t.inbound) == 0 {
		return 0, ioerr.ErrWouldBlock
	}
	n := copy(p, t.inbound)
	t.inbound = t.inbound[n:]
	return n, nil
}

func (t *TelnetTransport) flushReplies() {
	for len(t.outReady) > 0 {
		n, err := t.sock.Write(t.outReady)
		if n > 0 {
			t.outReady = t.outReady[n:]
		}
		if err != nil {
			return
		}
	}
}

func (t *TelnetTransport) Write(p []byte) (int, error) {
	encoded := t.neg.EncodeOutbound(p)
	for len(encoded) > 0 {
		n, err := t.sock.Write(encoded)
		if err != nil {
			// a partial write of the encoded form can't be mapped back to
			// a partial count of p, so any error reports nothing written.
			return 0, err
		}
		encoded = encoded[n:]
	}
	return len(p), nil
}

func (t *TelnetTransport) PollReadable(timeout time.Duration) bool {
	if len(t.inbound) > 0 {
		return true
	}
	ready := t.sock.PollReadable(timeout)
	if ready {
		t.pump()
	}
	return len(t.inbound) > 0
}

func (t *TelnetTransport) IsConnected() bool { return t.sock.IsConnected() }
func (t *TelnetTransport) Close() error      { return t.sock.Close() }
func (t *TelnetTransport) CloseGraceful() error { return t.sock.CloseGraceful() }

// Resize re-announces the window geometry via NAWS.
func (t *TelnetTransport) Resize(cols, rows int) error {
	t.cols, t.rows = cols, rows
	if naws := t.neg.SendNAWS(cols, rows); len(naws) > 0 {
		t.outReady = append(t.outReady, naws...)
		t.flushReplies()
	}
	return nil
}
