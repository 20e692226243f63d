package emulator

import (
	"time"

	"qodem/internal/cellgrid"
	"qodem/internal/codec"
	"qodem/internal/transport"
)

// Bridge wires a Transport, a Codec, and an Emulator together behind an
// io.ReadWriteCloser-shaped seam: every Read pulls raw bytes from the
// upstream transport, decodes them through the codec, and feeds the
// resulting runes into the emulator against the shared Grid before handing
// the original raw bytes back to the caller unchanged (so a capture sink
// can log exactly what the host sent, independent of how it rendered).
//
// Adapted from the predecessor's Mosh-backed Interposer: that type wrapped
// an upstream io.ReadWriteCloser with a predictive terminal emulator and
// buffered synthesized frame-delta output ahead of upstream data in Read.
// Bridge keeps the same wrapping shape but drops the predictive/speculative
// echo and frame-coalescing entirely: Write only applies the codec's output
// table and forwards the bytes, and qodem's emulators render the byte
// stream as received, with no local prediction of unconfirmed server state.
type Bridge struct {
	upstream transport.Transport
	codec    *codec.Codec
	emu      Emulator
	grid     *cellgrid.Grid
}

// NewBridge returns a Bridge rendering upstream's byte stream into grid
// through emu, decoding with codec.
func NewBridge(upstream transport.Transport, c *codec.Codec, emu Emulator, grid *cellgrid.Grid) *Bridge {
	return &Bridge{upstream: upstream, codec: c, emu: emu, grid: grid}
}

// Read pulls one batch of raw bytes from the upstream transport, decodes
// and renders them into the grid, and returns the same raw bytes to the
// caller for capture/logging purposes.
func (b *Bridge) Read(p []byte) (int, error) {
	n, err := b.upstream.Read(p)
	if n > 0 {
		b.Feed(p[:n])
	}
	return n, err
}

// Feed decodes and renders raw bytes already read elsewhere (by a Loop that
// owns the transport read itself) into the grid, without touching the
// upstream transport. Read and Feed share this path so a Bridge can be
// driven either as its own io.ReadWriteCloser or as a pure decode+render
// sink fed by an external reader.
func (b *Bridge) Feed(raw []byte) {
	if len(raw) == 0 {
		return
	}
	runes := make([]rune, len(raw))
	for i, c := range raw {
		runes[i] = b.codec.Decode(c)
	}
	b.emu.Feed(b.grid, runes)
}

// Write encodes p through the codec's output table and forwards it to the
// upstream transport unchanged in length (the output table is a 1:1 byte
// remap, never an expansion).
func (b *Bridge) Write(p []byte) (int, error) {
	out := make([]byte, len(p))
	copy(out, p)
	out = b.codec.EncodeOut(out)
	return b.upstream.Write(out)
}

// Close closes the underlying transport.
func (b *Bridge) Close() error { return b.upstream.Close() }

// PollReadable delegates to the upstream transport.
func (b *Bridge) PollReadable(timeout time.Duration) bool {
	return b.upstream.PollReadable(timeout)
}

// Emulator returns the active emulator, for switching at runtime (e.g. a
// VT52 "ESC <" escape to ANSI mode, or a user-selected override).
func (b *Bridge) Emulator() Emulator { return b.emu }

// SetEmulator swaps the active emulator without disturbing the grid, for
// mid-session emulation switches.
func (b *Bridge) SetEmulator(emu Emulator) { b.emu = emu }

// Grid returns the cell grid the active emulator renders into.
func (b *Bridge) Grid() *cellgrid.Grid { return b.grid }

// EncodeKey encodes a named key through the active emulator and the
// codec's output table, ready to write upstream.
func (b *Bridge) EncodeKey(k Key) []byte {
	raw := b.emu.EncodeKey(k)
	if raw == nil {
		return nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return b.codec.EncodeOut(out)
}
