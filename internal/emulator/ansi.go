package emulator

import "qodem/internal/cellgrid"

// ANSI is the plain ANSI.SYS-compatible emulation most BBS doors target: the
// CSI cursor/SGR/erase subset without any of VT100's DEC-private modes.
type ANSI struct {
	engine *vtEngine
}

func NewANSI(width, height int) *ANSI {
	return &ANSI{engine: newVTEngine(VariantANSI)}
}

func (e *ANSI) Feed(grid *cellgrid.Grid, runes []rune) { e.engine.feed(grid, runes) }
func (e *ANSI) Name() string                           { return "ansi" }

func (e *ANSI) EncodeKey(k Key) []byte {
	switch k {
	case KeyUp:
		return []byte{0x1b, '[', 'A'}
	case KeyDown:
		return []byte{0x1b, '[', 'B'}
	case KeyRight:
		return []byte{0x1b, '[', 'C'}
	case KeyLeft:
		return []byte{0x1b, '[', 'D'}
	case KeyBackspace:
		return []byte{0x08}
	case KeyEnter:
		return []byte{'\r'}
	case KeyTab:
		return []byte{'\t'}
	case KeyEscape:
		return []byte{0x1b}
	default:
		return nil
	}
}
