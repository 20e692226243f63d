package emulator

import "qodem/internal/cellgrid"

// VT100 implements the VT100/VT102/VT220 family: all three share one CSI
// grammar and one escape handler and differ only in the name they report,
// which is why they're one Variant-parameterized type rather than three.
type VT100 struct {
	engine  *vtEngine
	variant Variant
}

func NewVT100(width, height int, variant Variant) *VT100 {
	return &VT100{engine: newVTEngine(variant), variant: variant}
}

func (e *VT100) Feed(grid *cellgrid.Grid, runes []rune) {
	e.engine.feed(grid, runes)
}

func (e *VT100) Name() string {
	switch e.variant {
	case VariantVT102:
		return "vt102"
	case VariantVT220:
		return "vt220"
	default:
		return "vt100"
	}
}

func (e *VT100) EncodeKey(k Key) []byte {
	prefix := byte('[')
	if e.engine.appCursor {
		prefix = 'O'
	}
	switch k {
	case KeyUp:
		return []byte{0x1b, prefix, 'A'}
	case KeyDown:
		return []byte{0x1b, prefix, 'B'}
	case KeyRight:
		return []byte{0x1b, prefix, 'C'}
	case KeyLeft:
		return []byte{0x1b, prefix, 'D'}
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
	case KeyBackspace:
		return []byte{0x7f}
	case KeyEnter:
		return []byte{'\r'}
	case KeyTab:
		return []byte{'\t'}
	case KeyEscape:
		return []byte{0x1b}
	case KeyF1, KeyF2, KeyF3, KeyF4:
		return []byte{0x1b, 'O', byte('P' + int(k-KeyF1))}
	default:
		return nil
	}
}
