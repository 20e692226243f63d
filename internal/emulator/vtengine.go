package emulator

import "qodem/internal/cellgrid"

// Variant records which CSI-based emulation an engine instance backs. All
// variants share one parser and one escape handler (gridHandler), so VT102
// and VT220 accept exactly the sequences VT100 does, DCH/ICH included.
type Variant int

const (
	VariantVT100 Variant = iota
	VariantVT102
	VariantVT220
	VariantANSI
	VariantLinux
	VariantXTerm
)

// vtEngine implements Handler and backs every CSI-based emulation. What
// differs between ansi.go/vt100.go/linux.go/xterm.go is only the name
// reported and the key encoding; of the flags below, only appCursor is
// consulted.
type vtEngine struct {
	parser  *Parser
	variant Variant

	linuxPalette bool // Linux console 16-color palette escape (ESC ] P)
	ansiColor256 bool // xterm 256-color SGR extension (38/48;5;n)
	appCursor    bool // DECCKM: cursor keys send SS3 (ESC O) instead of CSI
}

func newVTEngine(variant Variant) *vtEngine {
	return &vtEngine{parser: NewParser(), variant: variant}
}

func (e *vtEngine) feed(grid *cellgrid.Grid, runes []rune) {
	h := &gridHandler{grid: grid, variant: e.variant, appCursor: &e.appCursor}
	e.parser.Feed(h, runes)
}

// gridHandler adapts a cellgrid.Grid to the Handler interface, so the shared
// Parser can drive grid mutations directly without the engine itself
// needing per-call grid plumbing. appCursor points back into the owning
// vtEngine so DECCKM survives across Feed calls despite gridHandler itself
// being rebuilt fresh on every one.
type gridHandler struct {
	grid      *cellgrid.Grid
	variant   Variant
	appCursor *bool
}

func (h *gridHandler) Print(r rune) {
	h.grid.Put(r, false)
}

func (h *gridHandler) Execute(b byte) {
	switch b {
	case '\a': // BEL: no visible effect on the grid itself.
	case '\b':
		h.grid.CursorBack(1)
	case '\t':
		h.grid.Tab()
	case '\n':
		h.grid.LineFeed()
	case '\r':
		h.grid.CarriageReturn()
	case 0x0e, 0x0f: // SO/SI: accepted and ignored; GL is not switched.
	}
}

func (h *gridHandler) EscDispatch(intermediate byte, final byte) {
	switch {
	case intermediate == 0 && final == 'c':
		// RIS: full reset.
		*h.grid = *cellgrid.NewGrid(h.grid.Width, h.grid.Height, h.grid.Scrollback)
	case intermediate == 0 && final == 'D':
		h.grid.LineFeedOnly()
	case intermediate == 0 && final == 'M':
		h.grid.ReverseLineFeed()
	case intermediate == 0 && final == 'E':
		h.grid.CarriageReturn()
		h.grid.LineFeedOnly()
	case intermediate == 0 && final == '7':
		h.grid.SaveCursor()
	case intermediate == 0 && final == '8':
		h.grid.RestoreCursor()
	case intermediate == '(' || intermediate == ')':
		// SCS: designate G0/G1. Accepted and ignored: G0/G1 stay ASCII
		// and DEC special graphics is never selected.
	}
}

func (h *gridHandler) CsiDispatch(final byte, params []int, private bool) {
	switch final {
	case 'A':
		h.grid.CursorUp(Param(params, 0, 1))
	case 'B':
		h.grid.CursorDown(Param(params, 0, 1))
	case 'C':
		h.grid.CursorForward(Param(params, 0, 1))
	case 'D':
		h.grid.CursorBack(Param(params, 0, 1))
	case 'H', 'f':
		h.grid.CursorTo(Param(params, 0, 1), Param(params, 1, 1))
	case 'G':
		h.grid.CursorColAbs(Param(params, 0, 1))
	case 'd':
		h.grid.CursorRowAbs(Param(params, 0, 1))
	case 'J':
		h.grid.EraseInDisplay(Param(params, 0, 0))
	case 'K':
		h.grid.EraseInLine(Param(params, 0, 0))
	case 'L':
		h.grid.InsertLines(Param(params, 0, 1))
	case 'M':
		h.grid.DeleteLines(Param(params, 0, 1))
	case '@':
		h.grid.InsertChars(Param(params, 0, 1))
	case 'P':
		h.grid.DeleteChars(Param(params, 0, 1))
	case 'r':
		top := Param(params, 0, 1)
		bottom := Param(params, 1, h.grid.Height)
		h.grid.SetScrollRegion(top, bottom)
	case 's':
		h.grid.SaveCursor()
	case 'u':
		h.grid.RestoreCursor()
	case 'm':
		applySGR(h.grid, params)
	case 'h':
		setPrivateModes(h.grid, h.appCursor, params, private, true)
	case 'l':
		setPrivateModes(h.grid, h.appCursor, params, private, false)
	}
}

func (h *gridHandler) OscDispatch(s string) {
	// Window title / palette OSCs are accepted and discarded: qodem has no
	// window chrome for a BBS client to title.
	_ = s
}

// applySGR applies the Select Graphic Rendition parameters onto the grid's
// current attribute state.
func applySGR(grid *cellgrid.Grid, params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p <= 0:
			grid.Attr = 0
			grid.FG = cellgrid.DefaultFG
			grid.BG = cellgrid.DefaultBG
		case p == 1:
			grid.Attr |= cellgrid.FlagBold
		case p == 4:
			grid.Attr |= cellgrid.FlagUnderline
		case p == 5:
			grid.Attr |= cellgrid.FlagBlink
		case p == 7:
			grid.Attr |= cellgrid.FlagReverse
		case p == 8:
			grid.Attr |= cellgrid.FlagInvisible
		case p == 22:
			grid.Attr &^= cellgrid.FlagBold
		case p == 24:
			grid.Attr &^= cellgrid.FlagUnderline
		case p == 25:
			grid.Attr &^= cellgrid.FlagBlink
		case p == 27:
			grid.Attr &^= cellgrid.FlagReverse
		case p >= 30 && p <= 37:
			grid.FG = uint8(p - 30)
		case p == 38 && i+2 < len(params) && params[i+1] == 5:
			grid.FG = uint8(params[i+2])
			i += 2
		case p == 39:
			grid.FG = cellgrid.DefaultFG
		case p >= 40 && p <= 47:
			grid.BG = uint8(p - 40)
		case p == 48 && i+2 < len(params) && params[i+1] == 5:
			grid.BG = uint8(params[i+2])
			i += 2
		case p == 49:
			grid.BG = cellgrid.DefaultBG
		case p >= 90 && p <= 97:
			grid.FG = uint8(p-90) + 8
		case p >= 100 && p <= 107:
			grid.BG = uint8(p-100) + 8
		}
	}
}

// setPrivateModes applies DECSET/DECRST (private) or SM/RM (ANSI) modes.
func setPrivateModes(grid *cellgrid.Grid, appCursor *bool, params []int, private, set bool) {
	for _, p := range params {
		if !private {
			continue // ANSI SM/RM modes (IRM etc.) are out of scope for BBS use.
		}
		switch p {
		case 1: // DECCKM: cursor keys send application (SS3) sequences.
			if appCursor != nil {
				*appCursor = set
			}
		case 3: // DECCOLM: 80/132 column switch.
		case 6: // DECOM
			grid.OriginMode = set
		case 7: // DECAWM
			grid.AutoWrap = set
		case 25: // DECTCEM
			grid.CursorVisible = set
		case 1049, 47, 1047: // alternate screen buffer
		case 5: // DECSCNM
			grid.ReverseVideo = set
		}
	}
}
