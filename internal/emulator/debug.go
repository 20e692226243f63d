package emulator

import (
	"fmt"
	"strings"

	"qodem/internal/cellgrid"
)

// Debug renders every control and escape sequence as visible text instead of
// executing it, so a session can be pointed at an unfamiliar host and show
// exactly what bytes it is sending.
type Debug struct {
	parser *Parser
	grid   *cellgrid.Grid
}

func NewDebug(width, height int) *Debug {
	return &Debug{parser: NewParser()}
}

func (e *Debug) Name() string { return "debug" }

func (e *Debug) Feed(grid *cellgrid.Grid, runes []rune) {
	e.grid = grid
	e.parser.Feed(e, runes)
}

func (e *Debug) print(s string) {
	for _, r := range s {
		e.grid.Put(r, false)
	}
}

func (e *Debug) Print(r rune) { e.grid.Put(r, false) }

func (e *Debug) Execute(b byte) {
	switch b {
	case '\r':
		e.grid.CarriageReturn()
		return
	case '\n':
		e.grid.LineFeed()
		return
	}
	e.print(fmt.Sprintf("^%c", b+0x40))
}

func (e *Debug) CsiDispatch(final byte, params []int, private bool) {
	strs := make([]string, len(params))
	for i, p := range params {
		strs[i] = fmt.Sprintf("%d", p)
	}
	prefix := ""
	if private {
		prefix = "?"
	}
	e.print(fmt.Sprintf("<CSI %s%s%c>", prefix, strings.Join(strs, ";"), final))
}

func (e *Debug) EscDispatch(intermediate, final byte) {
	if intermediate != 0 {
		e.print(fmt.Sprintf("<ESC %c%c>", intermediate, final))
		return
	}
	e.print(fmt.Sprintf("<ESC %c>", final))
}

func (e *Debug) OscDispatch(s string) {
	e.print(fmt.Sprintf("<OSC %s>", s))
}

func (e *Debug) EncodeKey(k Key) []byte {
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
