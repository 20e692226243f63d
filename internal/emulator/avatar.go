package emulator

import "qodem/internal/cellgrid"

// Avatar implements the Avatar/0+ BBS protocol: a small set of Ctrl-V
// prefixed commands (attribute change, cursor positioning, run-length
// character repeat) interleaved with plain text, used by BBS doors that
// predate full ANSI support but still want color and cursor addressing
// without ANSI's escape-sequence overhead.
type Avatar struct {
	state   avatarState
	pending []byte
	need    int
}

type avatarState int

const (
	avGround avatarState = iota
	avCommand
	avAttr
	avCursorRow
	avCursorCol
	avRepeatChar
	avRepeatCount
)

func NewAvatar(width, height int) *Avatar { return &Avatar{} }

func (e *Avatar) Name() string { return "avatar" }

func (e *Avatar) Feed(grid *cellgrid.Grid, runes []rune) {
	for _, r := range runes {
		e.step(grid, r)
	}
}

func (e *Avatar) step(grid *cellgrid.Grid, r rune) {
	switch e.state {
	case avGround:
		switch r {
		case 0x16: // ^V
			e.state = avCommand
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
			grid.Put(r, false)
		}
	case avCommand:
		switch r {
		case '1':
			e.state = avAttr
		case '2':
			grid.EraseInDisplay(2)
			grid.CursorTo(1, 1)
			e.state = avGround
		case 'C':
			e.state = avCursorRow
		case 'R':
			e.state = avRepeatChar
		default:
			e.state = avGround
		}
	case avAttr:
		applyAvatarAttr(grid, byte(r))
		e.state = avGround
	case avCursorRow:
		e.pending = []byte{byte(r)}
		e.state = avCursorCol
	case avCursorCol:
		row := int(e.pending[0])
		col := int(byte(r))
		grid.CursorTo(row, col)
		e.state = avGround
	case avRepeatChar:
		e.pending = rune2bytes(r)
		e.state = avRepeatCount
	case avRepeatCount:
		count := int(byte(r))
		ch := rune(e.pending[0])
		for i := 0; i < count; i++ {
			grid.Put(ch, false)
		}
		e.state = avGround
	}
}

func rune2bytes(r rune) []byte { return []byte{byte(r)} }

// applyAvatarAttr decodes a classic BBS attribute byte: low nibble is
// foreground (with bit 3 as bold/bright), high nibble is background.
func applyAvatarAttr(grid *cellgrid.Grid, attr byte) {
	fg := attr & 0x0f
	bg := (attr >> 4) & 0x0f
	grid.FG = fg
	grid.BG = bg
	grid.Attr = 0
}

func (e *Avatar) EncodeKey(k Key) []byte {
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
