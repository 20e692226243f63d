package emulator

import "qodem/internal/cellgrid"

// TTY is the null emulation: only CR, LF, BS, TAB, and BEL are interpreted,
// every other control and escape byte is either printed literally (if
// printable) or dropped. Useful as a safe fallback for hosts of unknown type.
type TTY struct{}

func NewTTY(width, height int) *TTY { return &TTY{} }

func (e *TTY) Name() string { return "tty" }

func (e *TTY) Feed(grid *cellgrid.Grid, runes []rune) {
	for _, r := range runes {
		switch r {
		case '\r':
			grid.CarriageReturn()
		case '\n':
			grid.LineFeed()
		case '\b':
			grid.CursorBack(1)
		case '\t':
			grid.Tab()
		case 0x07:
		default:
			if r < 0x20 {
				continue
			}
			grid.Put(r, false)
		}
	}
}

func (e *TTY) EncodeKey(k Key) []byte {
	switch k {
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
