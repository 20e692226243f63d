// Package session implements the command surface a UI or script driver uses
// to control one connection: dial out, hang up, type, capture, and transfer
// files, all serialized through a single mutex so only one command is ever
// in flight, matching the dispatcher's single-consumer-per-mode invariant.
package session

import (
	"context"
	"errors"
	"fmt"
	"os/user"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"qodem/internal/capture"
	"qodem/internal/cellgrid"
	"qodem/internal/codec"
	"qodem/internal/config"
	"qodem/internal/dispatcher"
	"qodem/internal/emulator"
	"qodem/internal/logging"
	"qodem/internal/telnet"
	"qodem/internal/transfer"
	"qodem/internal/transfer/ascii"
	"qodem/internal/transfer/kermit"
	"qodem/internal/transfer/localfs"
	"qodem/internal/transfer/xymodem"
	"qodem/internal/transfer/zmodem"
	"qodem/internal/transport"
)

// State is the session's coarse connection state, per the documented
// OFFLINE -> DIALING -> CONNECTED -> {CONSOLE|TRANSFER|SCRIPT|HOST} ->
// OFFLINE lifecycle.
type State int

const (
	StateOffline State = iota
	StateDialing
	StateConnected
	StateHangingUp
)

func (s State) String() string {
	switch s {
	case StateOffline:
		return "offline"
	case StateDialing:
		return "dialing"
	case StateConnected:
		return "connected"
	case StateHangingUp:
		return "hanging-up"
	default:
		return "unknown"
	}
}

// ConnectOptions describes one dial attempt.
type ConnectOptions struct {
	Method    string // "telnet", "rlogin", "ssh", "raw", "local", "serial"
	Address   string // host:port, device path, or local-process command
	Username  string
	Password  string // ssh password auth; empty offers no auth method (no agent is consulted)
	Emulation string
	Codepage  string
	Cols      int
	Rows      int
}

// Context owns one connection's transport, emulator, grid, and event loop,
// exposing the command surface a CLI or scripting layer drives. Every
// exported method takes the mutex, so commands never interleave.
type Context struct {
	mu sync.Mutex

	cfg *config.Config
	log *logging.Logger

	state State

	transport transport.Transport
	bridge    *emulator.Bridge
	grid      *cellgrid.Grid
	loop      *dispatcher.Loop

	capturePath string
}

// New returns an idle, offline Context.
func New(cfg *config.Config, log *logging.Logger) *Context {
	return &Context{cfg: cfg, log: log, state: StateOffline}
}

// State reports the session's current coarse state.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Grid returns the live cell grid for a UI to render, or nil when offline.
func (c *Context) Grid() *cellgrid.Grid {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid
}

// Connect dials out per opts, builds the emulator/grid/bridge, and brings
// the session into CONNECTED/console mode. It returns an error without
// changing state on failure (the caller remains OFFLINE).
func (c *Context) Connect(opts ConnectOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateOffline {
		return fmt.Errorf("session: cannot connect, state is %s", c.state)
	}
	c.state = StateDialing

	cols, rows := opts.Cols, opts.Rows
	if cols == 0 {
		cols = 80
	}
	if rows == 0 {
		rows = 24
	}

	dialTimeout := time.Duration(c.cfg.DialTimeoutSecs) * time.Second
	if dialTimeout <= 0 {
		dialTimeout = 30 * time.Second
	}

	t, err := dial(opts, dialTimeout, cols, rows)
	if err != nil {
		c.state = StateOffline
		return err
	}

	emu := emulator.ByName(opts.Emulation, cols, rows)
	grid := cellgrid.NewGrid(cols, rows, cellgrid.NewScrollback(c.cfg.ScrollbackMaxLines))
	cd := codec.NewCodec(opts.Codepage)
	bridge := emulator.NewBridge(t, cd, emu, grid)

	timeouts := dispatcher.Timeouts{
		IdleTimeout:      time.Duration(c.cfg.IdleTimeoutSecs) * time.Second,
		KeepaliveTimeout: time.Duration(c.cfg.KeepaliveTimeout) * time.Second,
		KeepaliveBytes:   c.cfg.KeepaliveBytes(c.log),
		CaptureFlushAge:  5 * time.Second,
	}
	loop := dispatcher.NewLoop(t, bridge, c.log, timeouts)
	if c.cfg.ZmodemAutostart || c.cfg.KermitAutostart {
		loop.SetAutostart(dispatcher.AutostartConfig{
			Zmodem:    c.cfg.ZmodemAutostart,
			Kermit:    c.cfg.KermitAutostart,
			Source:    localfs.NewDir(c.cfg.DownloadDir, c.log),
			ZmodemCfg: zmodemConfig(c.cfg),
			KermitCfg: kermitConfig(c.cfg),
		})
	}

	c.transport = t
	c.bridge = bridge
	c.grid = grid
	c.loop = loop
	c.state = StateConnected
	return nil
}

func dial(opts ConnectOptions, timeout time.Duration, cols, rows int) (transport.Transport, error) {
	switch opts.Method {
	case "telnet":
		return transport.DialTelnet(opts.Address, timeout, telnet.Hooks{})
	case "rlogin":
		localUser := opts.Username
		if localUser == "" {
			if u, err := user.Current(); err == nil {
				localUser = u.Username
			}
		}
		return transport.DialRlogin(opts.Address, timeout, localUser, opts.Username, opts.Emulation, 9600)
	case "ssh":
		var auth []ssh.AuthMethod
		if opts.Password != "" {
			auth = append(auth, ssh.Password(opts.Password))
		}
		return transport.DialSSH(opts.Address, opts.Username, auth, ssh.InsecureIgnoreHostKey(), timeout, opts.Emulation, cols, rows)
	case "raw":
		return transport.DialRawSocket(opts.Address, timeout)
	case "local":
		return transport.StartLocalProcess(opts.Address, nil, cols, rows)
	case "serial":
		return transport.OpenSerial(opts.Address, 9600)
	default:
		return nil, fmt.Errorf("session: unknown connect method %q", opts.Method)
	}
}

// Hangup tears the transport down and returns the session to OFFLINE. It is
// a no-op (not an error) if already offline.
func (c *Context) Hangup() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateOffline {
		return nil
	}
	c.state = StateHangingUp
	if c.loop != nil && !c.loop.Closed() {
		c.loop.DetachCapture()
	}
	var err error
	if c.transport != nil {
		err = c.transport.Close()
	}
	c.transport, c.bridge, c.grid, c.loop = nil, nil, nil, nil
	c.state = StateOffline
	return err
}

// SendKeystroke encodes and queues a logical keystroke for the wire.
func (c *Context) SendKeystroke(k emulator.Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loop == nil {
		return errors.New("session: not connected")
	}
	c.loop.SendKeystroke(k)
	return nil
}

// SendRaw queues raw bytes (typed text, pasted data) for the wire.
func (c *Context) SendRaw(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loop == nil {
		return errors.New("session: not connected")
	}
	c.loop.SendRaw(p)
	return nil
}

// BeginCapture opens path in the given format and attaches it to the
// session's byte stream until EndCapture is called.
func (c *Context) BeginCapture(path string, format capture.Format) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loop == nil {
		return errors.New("session: not connected")
	}
	f, err := capture.Open(path, format)
	if err != nil {
		return err
	}
	c.loop.AttachCapture(f)
	c.capturePath = path
	return nil
}

// EndCapture closes the active capture file, if any.
func (c *Context) EndCapture() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loop != nil {
		c.loop.DetachCapture()
	}
	c.capturePath = ""
}

// BeginTransfer constructs the named protocol's engine for dir and switches
// the loop into transfer mode.
func (c *Context) BeginTransfer(protocol string, dir transfer.Direction, source transfer.FileSource) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loop == nil {
		return errors.New("session: not connected")
	}
	engine, err := newEngine(protocol, dir, source, c.cfg)
	if err != nil {
		return err
	}
	c.loop.BeginTransfer(engine)
	return nil
}

// AbortTransfer cancels any in-flight transfer and returns to console mode.
func (c *Context) AbortTransfer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loop != nil {
		c.loop.AbortTransfer()
	}
}

func zmodemConfig(cfg *config.Config) *zmodem.Config {
	zcfg := &zmodem.Config{EscapeMode: zmodem.EscapeStandard}
	if cfg.ZmodemEscapeCtrl {
		zcfg.EscapeMode = zmodem.EscapeAll
	}
	return zcfg
}

func kermitConfig(cfg *config.Config) *kermit.Config {
	return &kermit.Config{
		RobustFilename: cfg.KermitRobustFilename,
		Streaming:      cfg.KermitStreaming,
		LongPackets:    cfg.KermitLongPackets,
		Resend:         cfg.KermitResend,
	}
}

func newEngine(protocol string, dir transfer.Direction, source transfer.FileSource, cfg *config.Config) (transfer.Engine, error) {
	mk := func(send, recv func() transfer.Engine) transfer.Engine {
		if dir == transfer.DirectionSend {
			return send()
		}
		return recv()
	}
	switch protocol {
	case "zmodem":
		zcfg := zmodemConfig(cfg)
		return mk(
			func() transfer.Engine { return zmodem.NewSender(source, zcfg) },
			func() transfer.Engine { return zmodem.NewReceiver(source, zcfg) },
		), nil
	case "kermit":
		kcfg := kermitConfig(cfg)
		return mk(
			func() transfer.Engine { return kermit.NewSender(source, kcfg) },
			func() transfer.Engine { return kermit.NewReceiver(source, kcfg) },
		), nil
	case "xmodem":
		xcfg := &xymodem.Config{Variant: xymodem.VariantCRC16}
		return mk(
			func() transfer.Engine { return xymodem.NewSender(source, xcfg) },
			func() transfer.Engine { return xymodem.NewReceiver(source, xcfg) },
		), nil
	case "ymodem":
		xcfg := &xymodem.Config{Variant: xymodem.Variant1K, YModem: true}
		return mk(
			func() transfer.Engine { return xymodem.NewSender(source, xcfg) },
			func() transfer.Engine { return xymodem.NewReceiver(source, xcfg) },
		), nil
	case "ascii":
		acfg := &ascii.Config{
			UploadCR:   ascii.Policy(policyIndex(cfg.AsciiUploadCR)),
			UploadLF:   ascii.Policy(policyIndex(cfg.AsciiUploadLF)),
			DownloadCR: ascii.Policy(policyIndex(cfg.AsciiDownloadCR)),
			DownloadLF: ascii.Policy(policyIndex(cfg.AsciiDownloadLF)),
		}
		return mk(
			func() transfer.Engine { return ascii.NewSender(source, acfg) },
			func() transfer.Engine { return ascii.NewReceiver(source, acfg) },
		), nil
	default:
		return nil, fmt.Errorf("session: unknown transfer protocol %q", protocol)
	}
}

func policyIndex(p config.CRLFPolicy) int {
	switch p {
	case config.PolicyStrip:
		return 1
	case config.PolicyAdd:
		return 2
	default:
		return 0
	}
}

// Run pumps the session's event loop until ctx is cancelled or the
// connection closes. It is meant to run on its own goroutine while command
// methods are called from elsewhere; Step runs under the same mutex as
// every command method below, so a keystroke or transfer command can never
// observe (or corrupt) the loop's Ring buffers mid-Step.
func (c *Context) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		c.mu.Lock()
		loop := c.loop
		if loop == nil {
			c.mu.Unlock()
			return
		}
		loop.Step()
		closed := loop.Closed()
		c.mu.Unlock()
		if closed {
			c.Hangup()
			return
		}
	}
}
