package emulator

import "qodem/internal/cellgrid"

// VT52 implements the pre-ANSI VT52 emulation: single-character ESC
// commands with no CSI parameter syntax, plus the ESC Y direct cursor
// address (row/column each encoded as value+0x20).
type VT52 struct {
	state vt52State
	row   int
}

type vt52State int

const (
	vt52Ground vt52State = iota
	vt52Esc
	vt52CursorRow
	vt52CursorCol
)

func NewVT52(width, height int) *VT52 { return &VT52{} }

func (e *VT52) Name() string { return "vt52" }

func (e *VT52) Feed(grid *cellgrid.Grid, runes []rune) {
	for _, r := range runes {
		e.step(grid, r)
	}
}

func (e *VT52) step(grid *cellgrid.Grid, r rune) {
	switch e.state {
	case vt52Ground:
		switch r {
		case 0x1b:
			e.state = vt52Esc
		case '\r':
			grid.CarriageReturn()
		case '\n':
			grid.LineFeed()
		case '\b':
			grid.CursorBack(1)
		case '\t':
			grid.Tab()
		default:
			grid.Put(r, false)
		}
	case vt52Esc:
		e.state = vt52Ground
		switch r {
		case 'A':
			grid.CursorUp(1)
		case 'B':
			grid.CursorDown(1)
		case 'C':
			grid.CursorForward(1)
		case 'D':
			grid.CursorBack(1)
		case 'H':
			grid.CursorTo(1, 1)
		case 'I':
			grid.ReverseLineFeed()
		case 'J':
			grid.EraseInDisplay(0)
		case 'K':
			grid.EraseInLine(0)
		case 'Y':
			e.state = vt52CursorRow
		case 'Z':
			// identify: the session layer answers with ESC/Z on our behalf.
		case '<':
			// switch to ANSI mode: handled by the session layer re-selecting
			// the active Emulator, not by this type.
		}
	case vt52CursorRow:
		e.row = int(r) - 0x1f
		e.state = vt52CursorCol
	case vt52CursorCol:
		col := int(r) - 0x1f
		grid.CursorTo(e.row, col)
		e.state = vt52Ground
	}
}

func (e *VT52) EncodeKey(k Key) []byte {
	switch k {
	case KeyUp:
		return []byte{0x1b, 'A'}
	case KeyDown:
		return []byte{0x1b, 'B'}
	case KeyRight:
		return []byte{0x1b, 'C'}
	case KeyLeft:
		return []byte{0x1b, 'D'}
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
