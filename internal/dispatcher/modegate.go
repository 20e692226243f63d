package dispatcher

import "io"

// Mode identifies which consumer currently owns the bytes flowing through a
// ModeGate.
type Mode int

const (
	ModeConsole Mode = iota
	ModeTransfer
	ModeScript
	ModeHost
)

// ModeGate routes Read/Write to whichever of several io.ReadWriteCloser
// targets is currently active: the console/emulator path by default, or a
// file-transfer engine, scripting co-process, or host-mode listener once one
// takes over. Exactly one target is active at a time.
//
// Generalized from the predecessor's IoSwitch, a binary passthrough/
// refractor toggle, into an N-ary router keyed by Mode so switching into
// transfer mode and back to console doesn't require tearing down and
// rebuilding the gate each time.
type ModeGate struct {
	targets map[Mode]io.ReadWriteCloser
	active  Mode
}

// NewModeGate returns a gate whose initial active target is console.
func NewModeGate(console io.ReadWriteCloser) *ModeGate {
	return &ModeGate{
		targets: map[Mode]io.ReadWriteCloser{ModeConsole: console},
		active:  ModeConsole,
	}
}

// Attach registers (or replaces) the target for a mode without switching to it.
func (g *ModeGate) Attach(m Mode, target io.ReadWriteCloser) {
	g.targets[m] = target
}

// Detach removes a mode's target, reverting to console if it was active.
func (g *ModeGate) Detach(m Mode) {
	delete(g.targets, m)
	if g.active == m {
		g.active = ModeConsole
	}
}

// Switch makes m the active target; it is a no-op if m has no attached target.
func (g *ModeGate) Switch(m Mode) bool {
	if _, ok := g.targets[m]; !ok {
		return false
	}
	g.active = m
	return true
}

// Active reports the currently active mode.
func (g *ModeGate) Active() Mode { return g.active }

func (g *ModeGate) current() io.ReadWriteCloser { return g.targets[g.active] }

func (g *ModeGate) Read(p []byte) (int, error)  { return g.current().Read(p) }
func (g *ModeGate) Write(p []byte) (int, error) { return g.current().Write(p) }
func (g *ModeGate) Close() error                { return g.current().Close() }
