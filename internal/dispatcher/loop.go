package dispatcher

import (
	"io"
	"time"

	"qodem/internal/capture"
	"qodem/internal/emulator"
	"qodem/internal/ioerr"
	"qodem/internal/logging"
	"qodem/internal/transfer"
	"qodem/internal/transport"
)

// TickInterval is the selector wait ceiling per iteration: block on
// transport readiness for at most this long before running the timeout
// checks (capture flush, idle/keepalive, carrier/process liveness).
const TickInterval = 20 * time.Millisecond

// Timeouts bundles the wall-clock thresholds the loop checks every
// iteration, plus the keepalive payload.
type Timeouts struct {
	IdleTimeout      time.Duration
	KeepaliveTimeout time.Duration
	KeepaliveBytes   []byte
	CaptureFlushAge  time.Duration
}

// Loop is the single-threaded cooperative event loop: it owns a Transport,
// a console Bridge, an optional active transfer.Engine, an optional script
// co-process target, and an optional capture sink, and pumps bytes between
// them on every call to Step. There are no background goroutines here; the
// only concurrency observed is the transport's own (SSH channel reads,
// child process I/O).
//
// Grounded on the buffering and mode-routing primitives already built for
// this package (Ring, ModeGate). The bounded selector wait itself is just
// TickInterval passed to every Transport's PollReadable, SSH included —
// SSHTransport already turns that into a channel wait with its own timeout,
// so no separate forced-wake ticker is needed.
type Loop struct {
	transport transport.Transport
	console   *emulator.Bridge
	scriptCo  io.ReadWriteCloser // nil unless a script co-process is attached

	mode   Mode
	engine transfer.Engine

	autostart AutostartConfig

	captureFile *capture.File
	log         *logging.Logger

	inRaw  *Ring
	outRaw *Ring

	timeouts Timeouts
	lastSent time.Time
	lastRecv time.Time

	closed   bool
	closeErr error
}

// NewLoop returns a ready-to-pump Loop over t, rendering console output
// through console.
func NewLoop(t transport.Transport, console *emulator.Bridge, log *logging.Logger, timeouts Timeouts) *Loop {
	now := time.Now()
	return &Loop{
		transport: t,
		console:   console,
		mode:      ModeConsole,
		log:       log,
		inRaw:     NewRing(65536),
		outRaw:    NewRing(65536),
		timeouts:  timeouts,
		lastSent:  now,
		lastRecv:  now,
	}
}

// AttachCapture hands every byte read off the transport to f.WriteRaw until
// DetachCapture is called. Grid lines are not written to f, so a normal or
// html capture holds no session text.
func (l *Loop) AttachCapture(f *capture.File) { l.captureFile = f }

func (l *Loop) DetachCapture() {
	if l.captureFile != nil {
		l.captureFile.Close()
		l.captureFile = nil
	}
}

// BeginTransfer switches routing into ModeTransfer, handing inbound console
// bytes to engine instead of the emulator until it reports completion.
func (l *Loop) BeginTransfer(engine transfer.Engine) {
	l.mode = ModeTransfer
	l.engine = engine
}

// AbortTransfer cancels the active transfer engine (if any) and returns to
// console mode, queuing the engine's own cancel sequence for the wire.
func (l *Loop) AbortTransfer() {
	if l.engine == nil {
		return
	}
	l.outRaw.Push(l.engine.Abort())
	l.engine = nil
	l.mode = ModeConsole
}

// AttachScript switches routing into ModeScript, piping console bytes
// through rwc (a running script co-process) instead of the emulator.
func (l *Loop) AttachScript(rwc io.ReadWriteCloser) {
	l.scriptCo = rwc
	l.mode = ModeScript
}

func (l *Loop) DetachScript() {
	l.scriptCo = nil
	l.mode = ModeConsole
}

// Mode reports the dispatcher's current routing mode.
func (l *Loop) Mode() Mode { return l.mode }

// Closed reports whether the loop has torn down its transport.
func (l *Loop) Closed() bool { return l.closed }

// CloseErr is the error (if any) that caused the loop to close.
func (l *Loop) CloseErr() error { return l.closeErr }

// SendKeystroke encodes k through the console emulator and queues it for
// the wire, used for modes where the UI synthesizes input rather than
// replaying raw bytes (arrow keys, function keys).
func (l *Loop) SendKeystroke(k emulator.Key) {
	if b := l.console.EncodeKey(k); b != nil {
		l.outRaw.Push(b)
	}
}

// SendRaw queues raw bytes (typed characters, pasted text) for the wire.
func (l *Loop) SendRaw(p []byte) {
	l.outRaw.Push(p)
}

// Step runs one iteration of the event loop: poll the transport for
// readability (up to TickInterval), read and route any available bytes,
// flush outbound bytes, and run the wall-clock timeout checks. It never
// blocks longer than TickInterval.
func (l *Loop) Step() {
	if l.closed {
		return
	}

	if l.transport.PollReadable(TickInterval) {
		l.readTransport()
	}

	l.route()

	if l.outRaw.Len() > 0 {
		l.flushOutbound()
	}

	l.runTimeouts()
}

func (l *Loop) readTransport() {
	buf := make([]byte, 4096)
	n, err := l.transport.Read(buf)
	if n > 0 {
		l.inRaw.Push(buf[:n])
		l.lastRecv = time.Now()
		if l.captureFile != nil {
			l.captureFile.WriteRaw(buf[:n])
		}
	}
	if err != nil && !ioerr.Transient(err) {
		l.closeSession(err)
	}
}

// route dispatches whatever is buffered in inRaw through exactly one
// consumer per the active mode, per the mode-gate invariant that disables
// concurrent routing targets.
func (l *Loop) route() {
	switch l.mode {
	case ModeConsole:
		l.routeConsole()
	case ModeTransfer:
		l.routeTransfer()
	case ModeScript:
		l.routeScript()
	case ModeHost:
		l.routeConsole()
	}
}

func (l *Loop) routeConsole() {
	data := l.inRaw.Drain(l.inRaw.Len())
	if len(data) == 0 {
		return
	}
	if prefix, rest, engine, ok := l.scanAutostart(data); ok {
		if len(prefix) > 0 {
			l.console.Feed(prefix)
		}
		l.inRaw.Push(rest)
		l.BeginTransfer(engine)
		// Pump the freshly attached engine immediately: a Receiver emits
		// its ZRINIT/init reply on its very first OnBytes call regardless
		// of inbound content, so autostart completes within the same
		// Step that observed the signature instead of waiting a tick.
		l.routeTransfer()
		return
	}
	l.console.Feed(data)
}

func (l *Loop) routeTransfer() {
	if l.engine == nil {
		l.mode = ModeConsole
		return
	}
	data := l.inRaw.Peek()
	for {
		consumed, outbound, status := l.engine.OnBytes(data, time.Since(l.lastSent))
		if consumed > 0 {
			l.inRaw.Drain(consumed)
			data = l.inRaw.Peek()
		}
		if len(outbound) > 0 {
			l.outRaw.Push(outbound)
		}
		switch status {
		case transfer.StatusComplete, transfer.StatusFailed:
			l.engine = nil
			l.mode = ModeConsole
			return
		case transfer.StatusAwaitingTimeout:
			return
		}
		if consumed == 0 && len(outbound) == 0 {
			return
		}
	}
}

func (l *Loop) routeScript() {
	if l.scriptCo == nil {
		l.mode = ModeConsole
		return
	}
	data := l.inRaw.Drain(l.inRaw.Len())
	if len(data) > 0 {
		l.scriptCo.Write(data)
	}
	reply := make([]byte, 4096)
	n, _ := l.scriptCo.Read(reply)
	if n > 0 {
		l.outRaw.Push(reply[:n])
	}
}

func (l *Loop) flushOutbound() {
	data := l.outRaw.Peek()
	n, err := l.transport.Write(data)
	if n > 0 {
		l.outRaw.Drain(n)
		l.lastSent = time.Now()
	}
	if err != nil && !ioerr.Transient(err) {
		l.closeSession(err)
	}
}

func (l *Loop) runTimeouts() {
	if l.closed {
		return
	}
	now := time.Now()

	if l.captureFile != nil {
		l.captureFile.FlushIfDirty(l.timeouts.CaptureFlushAge)
	}

	if l.timeouts.IdleTimeout > 0 &&
		now.Sub(l.lastRecv) > l.timeouts.IdleTimeout &&
		now.Sub(l.lastSent) > l.timeouts.IdleTimeout {
		l.closeSession(nil)
		return
	}

	if l.timeouts.KeepaliveTimeout > 0 && now.Sub(l.lastSent) > l.timeouts.KeepaliveTimeout {
		if len(l.timeouts.KeepaliveBytes) > 0 {
			l.transport.Write(l.timeouts.KeepaliveBytes)
		}
		l.lastSent = now
	}

	if !l.transport.IsConnected() {
		l.closeSession(nil)
	}
}

func (l *Loop) closeSession(err error) {
	if l.closed {
		return
	}
	l.closed = true
	l.closeErr = err
	l.transport.Close()
}
