package emulator

import "qodem/internal/cellgrid"

// XTerm implements the xterm-compatible emulation: VT100-family CSI grammar
// plus xterm's function-key encodings and 256-color SGR.
type XTerm struct {
	engine      *vtEngine
	doubleWidth bool
}

func NewXTerm(width, height int) *XTerm {
	e := newVTEngine(VariantXTerm)
	e.ansiColor256 = true
	return &XTerm{engine: e}
}

func (e *XTerm) Feed(grid *cellgrid.Grid, runes []rune) { e.engine.feed(grid, runes) }
func (e *XTerm) Name() string                           { return "xterm" }

func (e *XTerm) EncodeKey(k Key) []byte {
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
		return []byte{0x1b, '[', 'H'}
	case KeyEnd:
		return []byte{0x1b, '[', 'F'}
	case KeyPageUp:
		return []byte{0x1b, '[', '5', '~'}
	case KeyPageDown:
		return []byte{0x1b, '[', '6', '~'}
	case KeyInsert:
		return []byte{0x1b, '[', '2', '~'}
	case KeyDelete:
		return []byte{0x1b, '[', '3', '~'}
	case KeyF1, KeyF2, KeyF3, KeyF4:
		return []byte{0x1b, 'O', byte('P' + int(k-KeyF1))}
	case KeyF5:
		return []byte{0x1b, '[', '1', '5', '~'}
	case KeyF6, KeyF7, KeyF8, KeyF9, KeyF10:
		codes := [][2]byte{{'1', '7'}, {'1', '8'}, {'1', '9'}, {'2', '0'}, {'2', '1'}}
		c := codes[int(k-KeyF6)]
		return []byte{0x1b, '[', c[0], c[1], '~'}
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
