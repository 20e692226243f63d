// Package emulator implements the terminal state machines: one Emulator per
// supported variant (TTY, ANSI, Avatar, VT52, VT100/102/220, Linux, XTerm,
// PETSCII, ATASCII, Debug), all mutating a shared cellgrid.Grid and all
// translating local keystrokes into the byte sequences their host expects.
package emulator

import "qodem/internal/cellgrid"

// Emulator turns host bytes (already decoded to runes by the codec layer)
// into grid mutations, and turns local keystrokes into the byte sequence a
// host running this emulation expects to receive.
type Emulator interface {
	// Feed processes decoded runes from the host, mutating grid in place.
	Feed(grid *cellgrid.Grid, runes []rune)
	// EncodeKey translates a logical keystroke into outbound bytes.
	EncodeKey(k Key) []byte
	// Name is the emulation's canonical identifier (telnet TERMINAL-TYPE,
	// session status line).
	Name() string
}

// Key is a logical keystroke the session layer hands to the active
// emulator for encoding, abstracting over the many different byte
// sequences each emulation sends for the same physical key.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyBackspace
	KeyEnter
	KeyTab
	KeyEscape
)

// ByName resolves a configured emulation name to its Emulator constructor.
// Unrecognized names fall back to ANSI, the most common BBS-era default.
func ByName(name string, width, height int) Emulator {
	switch name {
	case "vt100":
		return NewVT100(width, height, VariantVT100)
	case "vt102":
		return NewVT100(width, height, VariantVT102)
	case "vt220":
		return NewVT100(width, height, VariantVT220)
	case "linux":
		return NewLinux(width, height)
	case "xterm":
		return NewXTerm(width, height)
	case "vt52":
		return NewVT52(width, height)
	case "avatar":
		return NewAvatar(width, height)
	case "petscii":
		return NewPETSCII(width, height)
	case "atascii":
		return NewATASCII(width, height)
	case "tty":
		return NewTTY(width, height)
	case "debug":
		return NewDebug(width, height)
	default:
		return NewANSI(width, height)
	}
}
