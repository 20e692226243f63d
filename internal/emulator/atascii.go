package emulator

import "qodem/internal/cellgrid"

// ATASCII implements the Atari 8-bit character-set control codes: a handful
// of single control bytes for cursor movement and clear-screen, plus the
// ATASCII convention of using 0x9b (EOL) as the line terminator instead of
// CR/LF.
type ATASCII struct{}

func NewATASCII(width, height int) *ATASCII { return &ATASCII{} }

func (e *ATASCII) Name() string { return "atascii" }

func (e *ATASCII) Feed(grid *cellgrid.Grid, runes []rune) {
	for _, r := range runes {
		switch r {
		case 0x9b: // EOL
			grid.CarriageReturn()
			grid.LineFeed()
		case 0x7d: // clear screen
			grid.EraseInDisplay(2)
			grid.CursorTo(1, 1)
		case 0x1c: // cursor up
			grid.CursorUp(1)
		case 0x1d: // cursor down
			grid.CursorDown(1)
		case 0x1e: // cursor left
			grid.CursorBack(1)
		case 0x1f: // cursor right
			grid.CursorForward(1)
		case 0x7e: // backspace (DEL)
			grid.CursorBack(1)
		case 0x7f: // tab
			grid.Tab()
		case 0xfd: // bell
		default:
			grid.Put(r, false)
		}
	}
}

func (e *ATASCII) EncodeKey(k Key) []byte {
	switch k {
	case KeyUp:
		return []byte{0x1c}
	case KeyDown:
		return []byte{0x1d}
	case KeyLeft:
		return []byte{0x1e}
	case KeyRight:
		return []byte{0x1f}
	case KeyBackspace:
		return []byte{0x7e}
	case KeyEnter:
		return []byte{0x9b}
	case KeyTab:
		return []byte{0x7f}
	default:
		return nil
	}
}
