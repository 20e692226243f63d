package dispatcher

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"qodem/internal/cellgrid"
	"qodem/internal/codec"
	"qodem/internal/emulator"
	"qodem/internal/ioerr"
	"qodem/internal/logging"
	"qodem/internal/transfer"
	"qodem/internal/transfer/kermit"
	"qodem/internal/transfer/zmodem"
)

// fakeAutostartTransport is a minimal transport.Transport fake: one queued
// read, and a recording writer, enough to drive a single Loop.Step.
type fakeAutostartTransport struct {
	toRead  []byte
	written bytes.Buffer
}

func newFakeAutostartTransport() *fakeAutostartTransport { return &fakeAutostartTransport{} }

func (f *fakeAutostartTransport) Read(p []byte) (int, error) {
	if len(f.toRead) == 0 {
		return 0, ioerr.ErrWouldBlock
	}
	n := copy(p, f.toRead)
	f.toRead = f.toRead[n:]
	return n, nil
}

func (f *fakeAutostartTransport) Write(p []byte) (int, error) { return f.written.Write(p) }
func (f *fakeAutostartTransport) PollReadable(timeout time.Duration) bool {
	return len(f.toRead) > 0
}
func (f *fakeAutostartTransport) IsConnected() bool   { return true }
func (f *fakeAutostartTransport) Close() error         { return nil }
func (f *fakeAutostartTransport) CloseGraceful() error { return nil }

type stubSource struct{}

func (stubSource) NextUpload() (string, int64, time.Time, transfer.ReadSeekCloser, bool) {
	return "", 0, time.Time{}, nil, false
}
func (stubSource) AcceptDownload(name string, size int64, modTime time.Time) (transfer.WriteCloserAt, int64, bool) {
	return discardWriter{}, 0, true
}
func (stubSource) Progress(name string, transferred int64)          {}
func (stubSource) Complete(name string, transferred int64, err error) {}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
func (discardWriter) Close() error                { return nil }

func newAutostartLoop() *Loop {
	l := &Loop{mode: ModeConsole, inRaw: NewRing(4096), outRaw: NewRing(4096)}
	l.SetAutostart(AutostartConfig{
		Zmodem:    true,
		Kermit:    true,
		Source:    stubSource{},
		ZmodemCfg: &zmodem.Config{},
		KermitCfg: &kermit.Config{},
	})
	return l
}

func TestScanAutostartFindsZmodemSignatureMidStream(t *testing.T) {
	l := newAutostartLoop()
	banner := []byte("Welcome to BBS\r\n")
	data := append(append([]byte{}, banner...), zmodem.AutostartSignature...)
	data = append(data, "00000000000000"...)

	prefix, rest, engine, ok := l.scanAutostart(data)
	require.True(t, ok)
	require.Equal(t, banner, prefix)
	require.Equal(t, "zmodem", engine.Name())
	// rest drops the 3-byte "rz\r" invocation text but keeps the hex
	// header lead-in that follows it.
	require.Equal(t, zmodem.AutostartSignature[zmodem.AutostartPrefixLen:], rest[:len(zmodem.AutostartSignature)-zmodem.AutostartPrefixLen])
}

func TestScanAutostartNoSignatureFeedsConsole(t *testing.T) {
	l := newAutostartLoop()
	_, _, _, ok := l.scanAutostart([]byte("just some ordinary console text"))
	require.False(t, ok)
}

func TestScanAutostartDisabledNeverMatches(t *testing.T) {
	l := &Loop{mode: ModeConsole, inRaw: NewRing(4096), outRaw: NewRing(4096)}
	_, _, _, ok := l.scanAutostart(zmodem.AutostartSignature)
	require.False(t, ok)
}

func TestScanAutostartFindsKermitSendInit(t *testing.T) {
	l := newAutostartLoop()
	e := kermit.NewSender(stubSource{}, &kermit.Config{})
	_, outbound, _ := e.OnBytes(nil, 0)

	data := append([]byte("noise before"), outbound...)
	prefix, rest, engine, ok := l.scanAutostart(data)
	require.True(t, ok)
	require.Equal(t, []byte("noise before"), prefix)
	require.Equal(t, "kermit", engine.Name())
	require.Equal(t, outbound, rest)
}

// TestRouteConsoleAutostartTransitionsToTransfer exercises the documented
// end-to-end behavior: an inbound ZMODEM autostart signature switches the
// loop into transfer mode and the receiver emits its ZRINIT header within
// the same Step that observed the signature.
func TestRouteConsoleAutostartTransitionsToTransfer(t *testing.T) {
	grid := cellgrid.NewGrid(80, 24, cellgrid.NewScrollback(100))
	emu := emulator.ByName("ansi", 80, 24)
	cd := codec.NewCodec("cp437")

	ft := newFakeAutostartTransport()
	bridge := emulator.NewBridge(ft, cd, emu, grid)

	l := NewLoop(ft, bridge, logging.Discard(), Timeouts{})
	l.SetAutostart(AutostartConfig{
		Zmodem:    true,
		Source:    stubSource{},
		ZmodemCfg: &zmodem.Config{},
	})

	payload := append(append([]byte{}, zmodem.AutostartSignature...), "00000000000000"...)
	ft.toRead = payload

	l.Step()

	require.Equal(t, ModeTransfer, l.Mode())
	require.Greater(t, ft.written.Len(), 0)
}
