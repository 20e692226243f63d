package emulator

import "qodem/internal/cellgrid"

// PETSCII implements the Commodore 64/128 control-code set: single control
// bytes for cursor movement, clear screen, and color selection, with no
// escape-sequence syntax at all. No PETSCII glyph table is applied: runes
// that are not commands are written to the grid as the codec decoded them.
// The switch matches decoded runes, so the command codes above 0x7f are
// recognized only under a codepage that maps those bytes to themselves.
type PETSCII struct{}

func NewPETSCII(width, height int) *PETSCII { return &PETSCII{} }

func (e *PETSCII) Name() string { return "petscii" }

func (e *PETSCII) Feed(grid *cellgrid.Grid, runes []rune) {
	for _, r := range runes {
		switch r {
		case 0x0d:
			grid.CarriageReturn()
			grid.LineFeed()
		case 0x13: // CLR/HOME (unshifted): home cursor
			grid.CursorTo(1, 1)
		case 0x93: // CLR/HOME (shifted): clear screen and home
			grid.EraseInDisplay(2)
			grid.CursorTo(1, 1)
		case 0x11: // cursor down
			grid.CursorDown(1)
		case 0x91: // cursor up
			grid.CursorUp(1)
		case 0x1d: // cursor right
			grid.CursorForward(1)
		case 0x9d: // cursor left
			grid.CursorBack(1)
		case 0x14: // DEL
			grid.CursorBack(1)
		case 0x12: // RVS ON
			grid.Attr |= cellgrid.FlagReverse
		case 0x92: // RVS OFF
			grid.Attr &^= cellgrid.FlagReverse
		case 0x05, 0x1c, 0x1e, 0x1f, 0x81, 0x90, 0x95, 0x96, 0x97, 0x98, 0x99, 0x9a, 0x9b, 0x9c, 0x9e, 0x9f:
			grid.FG = petsciiColor(r)
		default:
			grid.Put(r, false)
		}
	}
}

// petsciiColor maps the 16 PETSCII color-selection control codes to palette
// indices; the mapping is fixed by the C64's hardware palette order, not
// configurable per session.
func petsciiColor(r rune) uint8 {
	table := map[rune]uint8{
		0x05: 1, 0x1c: 2, 0x9f: 3, 0x9c: 4, 0x1e: 5, 0x1f: 6, 0x9e: 7,
		0x81: 8, 0x95: 9, 0x96: 10, 0x97: 11, 0x98: 12, 0x99: 13, 0x9a: 14, 0x9b: 15, 0x90: 0,
	}
	if c, ok := table[r]; ok {
		return c
	}
	return cellgrid.DefaultFG
}

func (e *PETSCII) EncodeKey(k Key) []byte {
	switch k {
	case KeyUp:
		return []byte{0x91}
	case KeyDown:
		return []byte{0x11}
	case KeyRight:
		return []byte{0x1d}
	case KeyLeft:
		return []byte{0x9d}
	case KeyBackspace:
		return []byte{0x14}
	case KeyEnter:
		return []byte{0x0d}
	case KeyHome:
		return []byte{0x13}
	default:
		return nil
	}
}
