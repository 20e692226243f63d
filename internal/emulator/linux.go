package emulator

import "qodem/internal/cellgrid"

// Linux implements the Linux console emulation: VT100-family CSI grammar
// plus the console's own F1-F5 CSI [[A..E key sequences. The console's
// bright-on-blink SGR convention is not applied.
type Linux struct {
	engine *vtEngine
}

func NewLinux(width, height int) *Linux {
	return &Linux{engine: newVTEngine(VariantLinux)}
}

func (e *Linux) Feed(grid *cellgrid.Grid, runes []rune) { e.engine.feed(grid, runes) }
func (e *Linux) Name() string                           { return "linux" }

func (e *Linux) EncodeKey(k Key) []byte {
	switch k {
	case KeyUp:
		return []byte{0x1b, '[', 'A'}
	case KeyDown:
		return []byte{0x1b, '[', 'B'}
	case KeyRight:
		return []byte{0x1b, '[', 'C'}
	case KeyLeft:
		return []byte{0x1b, '[', 'D'}
	case KeyHome:
		return []byte{0x1b, '[', '1', '~'}
	case KeyEnd:
		return []byte{0x1b, '[', '4', '~'}
	case KeyPageUp:
		return []byte{0x1b, '[', '5', '~'}
	case KeyPageDown:
		return []byte{0x1b, '[', '6', '~'}
	case KeyInsert:
		return []byte{0x1b, '[', '2', '~'}
	case KeyDelete:
		return []byte{0x1b, '[', '3', '~'}
	case KeyF1, KeyF2, KeyF3, KeyF4, KeyF5:
		return []byte{0x1b, '[', '[', byte('A' + int(k-KeyF1))}
	case KeyBackspace:
		return []byte{0x7f}
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
