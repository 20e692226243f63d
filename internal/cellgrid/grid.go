package cellgrid

// Charset selects between ASCII and the DEC special graphics character set
// designated into G0/G1 by an SCS sequence.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetDECGraphics
)

// SavedCursor captures the subset of Grid state saved/restored by
// DECSC/DECRC: position, active attribute, and active charset.
type SavedCursor struct {
	Row, Col   int
	FG, BG     uint8
	Attr       Flags
	GL         int // 0 or 1, selects G0 or G1
	G0, G1     Charset
	PendingWrap bool
}

// Grid is the active screen: a fixed-size array of Lines plus cursor,
// scroll-region, attribute, and mode state.
type Grid struct {
	Width, Height int
	Lines         []Line
	Scrollback    *Scrollback

	CursorRow, CursorCol int
	PendingWrap          bool
	CursorVisible        bool

	Saved    SavedCursor
	HasSaved bool

	ScrollTop, ScrollBottom int // inclusive, 0-indexed

	FG, BG uint8
	Attr   Flags

	GL     int // 0 or 1: which of G0/G1 is active (SO/SI)
	G0, G1 Charset

	AutoWrap     bool
	OriginMode   bool
	ReverseVideo bool
	InsertMode   bool
	LEDs         [4]bool

	tabStops []bool
}

// NewGrid allocates a Height x Width screen with default tab stops every 8
// columns and a scroll region spanning the whole screen.
func NewGrid(width, height int, sb *Scrollback) *Grid {
	g := &Grid{
		Width:         width,
		Height:        height,
		Scrollback:    sb,
		CursorVisible: true,
		ScrollTop:     0,
		ScrollBottom:  height - 1,
		FG:            DefaultFG,
		BG:            DefaultBG,
		AutoWrap:      true,
	}
	g.Lines = make([]Line, height)
	for i := range g.Lines {
		g.Lines[i] = NewLine(width)
	}
	g.resetTabStops()
	return g
}

func (g *Grid) resetTabStops() {
	g.tabStops = make([]bool, g.Width)
	for c := 0; c < g.Width; c += 8 {
		g.tabStops[c] = true
	}
}

// Resize changes the screen dimensions, truncating or padding lines/rows as
// needed. Width is clamped to the 250-column maximum.
func (g *Grid) Resize(width, height int) {
	if width > 250 {
		width = 250
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	newLines := make([]Line, height)
	for i := 0; i < height; i++ {
		if i < len(g.Lines) {
			newLines[i] = g.resizeLine(g.Lines[i], width)
		} else {
			newLines[i] = NewLine(width)
		}
	}
	g.Lines = newLines
	g.Width = width
	g.Height = height
	g.ScrollTop = 0
	g.ScrollBottom = height - 1
	if g.CursorRow >= height {
		g.CursorRow = height - 1
	}
	if g.CursorCol >= width {
		g.CursorCol = width - 1
	}
	g.PendingWrap = false
	g.resetTabStops()
}

func (g *Grid) resizeLine(l Line, width int) Line {
	cells := make([]Cell, width)
	for i := range cells {
		if i < len(l.Cells) {
			cells[i] = l.Cells[i]
		} else {
			cells[i] = Blank()
		}
	}
	return Line{Cells: cells, Flags: l.Flags}
}

// SetScrollRegion implements DECSTBM: top/bottom are 1-indexed inclusive as
// received over the wire; 0 means "use the default edge".
func (g *Grid) SetScrollRegion(top, bottom int) {
	if top <= 0 {
		top = 1
	}
	if bottom <= 0 || bottom > g.Height {
		bottom = g.Height
	}
	if top >= bottom {
		top, bottom = 1, g.Height
	}
	g.ScrollTop = top - 1
	g.ScrollBottom = bottom - 1
	g.CursorRow, g.CursorCol = g.originRow(), 0
	g.PendingWrap = false
}

func (g *Grid) originRow() int {
	if g.OriginMode {
		return g.ScrollTop
	}
	return 0
}

// clampCursorRow bounds a row to the scroll region when origin mode is
// active, or to the whole screen otherwise.
func (g *Grid) clampCursorRow(row int) int {
	lo, hi := 0, g.Height-1
	if g.OriginMode {
		lo, hi = g.ScrollTop, g.ScrollBottom
	}
	if row < lo {
		row = lo
	}
	if row > hi {
		row = hi
	}
	return row
}

func (g *Grid) clampCursorCol(col int) int {
	if col < 0 {
		col = 0
	}
	if col > g.Width-1 {
		col = g.Width - 1
	}
	return col
}

// CursorTo implements CUP/HVP: row/col are 1-indexed as received over the
// wire. Coordinates are relative to the scroll region when origin mode is
// active.
func (g *Grid) CursorTo(row, col int) {
	base := 0
	if g.OriginMode {
		base = g.ScrollTop
	}
	r := base + (row - 1)
	c := col - 1
	g.CursorRow = g.clampCursorRow(r)
	g.CursorCol = g.clampCursorCol(c)
	g.PendingWrap = false
}

func (g *Grid) CursorUp(n int) {
	lo := 0
	if g.OriginMode {
		lo = g.ScrollTop
	}
	g.CursorRow -= n
	if g.CursorRow < lo {
		g.CursorRow = lo
	}
	g.PendingWrap = false
}

func (g *Grid) CursorDown(n int) {
	hi := g.Height - 1
	if g.OriginMode {
		hi = g.ScrollBottom
	}
	g.CursorRow += n
	if g.CursorRow > hi {
		g.CursorRow = hi
	}
	g.PendingWrap = false
}

func (g *Grid) CursorForward(n int) {
	g.CursorCol += n
	if g.CursorCol > g.Width-1 {
		g.CursorCol = g.Width - 1
	}
	g.PendingWrap = false
}

// CursorBack implements CUB/BS: clamps at column 0, and cancels a pending
// wrap rather than moving past it.
func (g *Grid) CursorBack(n int) {
	if g.PendingWrap {
		g.PendingWrap = false
		return
	}
	g.CursorCol -= n
	if g.CursorCol < 0 {
		g.CursorCol = 0
	}
}

func (g *Grid) CursorColAbs(col int) {
	g.CursorCol = g.clampCursorCol(col - 1)
	g.PendingWrap = false
}

func (g *Grid) CursorRowAbs(row int) {
	base := 0
	if g.OriginMode {
		base = g.ScrollTop
	}
	g.CursorRow = g.clampCursorRow(base + row - 1)
	g.PendingWrap = false
}

// Put writes one printable cell at the cursor, honoring autowrap, insert
// mode, and the pending-wrap rule: writing at the last column sets
// PendingWrap instead of advancing; the wrap is only taken when another
// printable arrives.
func (g *Grid) Put(ch rune, wide bool) {
	if g.PendingWrap {
		if g.AutoWrap {
			g.lineFeedNoCR()
			g.CursorCol = 0
		}
		g.PendingWrap = false
	}
	cell := Cell{Ch: ch, FG: g.FG, BG: g.BG, Flags: g.Attr}
	cell.SetFlag(FlagDirty)

	row := &g.Lines[g.CursorRow]
	if g.InsertMode {
		g.insertCellsAt(row, g.CursorCol, 1)
	}
	row.Cells[g.CursorCol] = cell
	if wide && g.CursorCol+1 < g.Width {
		cell.SetFlag(FlagDoubleWidth)
		row.Cells[g.CursorCol] = cell
		right := Cell{Ch: 0, FG: g.FG, BG: g.BG, Flags: g.Attr | FlagDoubleWidth | FlagWideRight | FlagDirty}
		row.Cells[g.CursorCol+1] = right
	}

	if g.CursorCol >= g.Width-1 {
		g.PendingWrap = true
	} else {
		g.CursorCol++
		if wide {
			g.CursorCol++
			if g.CursorCol > g.Width-1 {
				g.CursorCol = g.Width - 1
				g.PendingWrap = true
			}
		}
	}
}

func (g *Grid) insertCellsAt(row *Line, col, n int) {
	for i := g.Width - 1; i >= col+n; i-- {
		row.Cells[i] = row.Cells[i-n]
	}
	for i := col; i < col+n && i < g.Width; i++ {
		row.Cells[i] = BlankWithAttr(g.FG, g.BG)
	}
}

// lineFeedNoCR advances one row, scrolling the region if at its bottom edge,
// without touching the column (used internally by Put's wrap and by LF).
func (g *Grid) lineFeedNoCR() {
	if g.CursorRow == g.ScrollBottom {
		g.ScrollUp(1)
	} else if g.CursorRow < g.Height-1 {
		g.CursorRow++
	}
}

// LineFeed implements LF: advance one row, scrolling if needed.
func (g *Grid) LineFeed() {
	g.lineFeedNoCR()
}

// LineFeedOnly is an exported alias of the LF cursor motion, for emulators
// that dispatch ESC D (IND) separately from the LF control code even though
// both perform the same motion.
func (g *Grid) LineFeedOnly() {
	g.lineFeedNoCR()
}

// ReverseLineFeed implements ESC M (RI): move up one row, scrolling the
// region down if already at its top edge.
func (g *Grid) ReverseLineFeed() {
	if g.CursorRow == g.ScrollTop {
		g.ScrollDown(1)
	} else if g.CursorRow > 0 {
		g.CursorRow--
	}
}

// CarriageReturn implements CR: move to column 0.
func (g *Grid) CarriageReturn() {
	g.CursorCol = 0
	g.PendingWrap = false
}

// Tab implements HT: advance to the next tab stop, or the last column if none remain.
func (g *Grid) Tab() {
	for c := g.CursorCol + 1; c < g.Width; c++ {
		if g.tabStops[c] {
			g.CursorCol = c
			return
		}
	}
	g.CursorCol = g.Width - 1
}

func (g *Grid) SetTabStop()     { g.tabStops[g.CursorCol] = true }
func (g *Grid) ClearTabStop()   { g.tabStops[g.CursorCol] = false }
func (g *Grid) ClearAllTabStops() {
	for i := range g.tabStops {
		g.tabStops[i] = false
	}
}

// ScrollUp shifts the scroll region up by n lines, retiring lines into the
// Scrollback only when the region spans the whole screen starting at row 0
// (i.e. there is no split-screen region narrower than the full display).
func (g *Grid) ScrollUp(n int) {
	top, bottom := g.ScrollTop, g.ScrollBottom
	for i := 0; i < n; i++ {
		if top == 0 && bottom == g.Height-1 && g.Scrollback != nil {
			g.Scrollback.Append(g.Lines[top].Clone())
		}
		copy(g.Lines[top:bottom], g.Lines[top+1:bottom+1])
		g.Lines[bottom] = NewLine(g.Width)
	}
}

// ScrollDown shifts the scroll region down by n lines (SD / reverse index).
func (g *Grid) ScrollDown(n int) {
	top, bottom := g.ScrollTop, g.ScrollBottom
	for i := 0; i < n; i++ {
		copy(g.Lines[top+1:bottom+1], g.Lines[top:bottom])
		g.Lines[top] = NewLine(g.Width)
	}
}

// EraseInLine implements EL: 0=to-end, 1=from-start, 2=all.
func (g *Grid) EraseInLine(mode int) {
	row := &g.Lines[g.CursorRow]
	switch mode {
	case 0:
		for c := g.CursorCol; c < g.Width; c++ {
			row.Cells[c] = BlankWithAttr(g.FG, g.BG)
		}
	case 1:
		for c := 0; c <= g.CursorCol && c < g.Width; c++ {
			row.Cells[c] = BlankWithAttr(g.FG, g.BG)
		}
	case 2:
		*row = NewLine(g.Width)
	}
	row.SetFlag(LineDirty)
}

// EraseInDisplay implements ED: 0=to-end, 1=from-start, 2=all.
func (g *Grid) EraseInDisplay(mode int) {
	switch mode {
	case 0:
		g.EraseInLine(0)
		for r := g.CursorRow + 1; r < g.Height; r++ {
			g.Lines[r] = NewLine(g.Width)
		}
	case 1:
		g.EraseInLine(1)
		for r := 0; r < g.CursorRow; r++ {
			g.Lines[r] = NewLine(g.Width)
		}
	case 2:
		for r := 0; r < g.Height; r++ {
			g.Lines[r] = NewLine(g.Width)
		}
	}
}

// InsertLines implements IL, respecting the scroll region.
func (g *Grid) InsertLines(n int) {
	if g.CursorRow < g.ScrollTop || g.CursorRow > g.ScrollBottom {
		return
	}
	top, bottom := g.CursorRow, g.ScrollBottom
	for i := 0; i < n && top <= bottom; i++ {
		copy(g.Lines[top+1:bottom+1], g.Lines[top:bottom])
		g.Lines[top] = NewLine(g.Width)
	}
}

// DeleteLines implements DL, respecting the scroll region.
func (g *Grid) DeleteLines(n int) {
	if g.CursorRow < g.ScrollTop || g.CursorRow > g.ScrollBottom {
		return
	}
	top, bottom := g.CursorRow, g.ScrollBottom
	for i := 0; i < n && top <= bottom; i++ {
		copy(g.Lines[top:bottom], g.Lines[top+1:bottom+1])
		g.Lines[bottom] = NewLine(g.Width)
	}
}

// InsertChars implements ICH: shift cells at/after the cursor right by n,
// filling with blanks.
func (g *Grid) InsertChars(n int) {
	row := &g.Lines[g.CursorRow]
	g.insertCellsAt(row, g.CursorCol, n)
}

// DeleteChars implements DCH: shift cells after the cursor left by n.
func (g *Grid) DeleteChars(n int) {
	row := &g.Lines[g.CursorRow]
	for i := g.CursorCol; i < g.Width-n; i++ {
		row.Cells[i] = row.Cells[i+n]
	}
	for i := g.Width - n; i < g.Width; i++ {
		if i >= 0 {
			row.Cells[i] = BlankWithAttr(g.FG, g.BG)
		}
	}
}

// SaveCursor implements DECSC.
func (g *Grid) SaveCursor() {
	g.Saved = SavedCursor{
		Row: g.CursorRow, Col: g.CursorCol,
		FG: g.FG, BG: g.BG, Attr: g.Attr,
		GL: g.GL, G0: g.G0, G1: g.G1,
		PendingWrap: g.PendingWrap,
	}
	g.HasSaved = true
}

// RestoreCursor implements DECRC.
func (g *Grid) RestoreCursor() {
	if !g.HasSaved {
		g.CursorRow, g.CursorCol = 0, 0
		return
	}
	s := g.Saved
	g.CursorRow, g.CursorCol = s.Row, s.Col
	g.FG, g.BG, g.Attr = s.FG, s.BG, s.Attr
	g.GL, g.G0, g.G1 = s.GL, s.G0, s.G1
	g.PendingWrap = s.PendingWrap
}

// ActiveCharset returns the charset currently selected into GL (G0 or G1).
func (g *Grid) ActiveCharset() Charset {
	if g.GL == 1 {
		return g.G1
	}
	return g.G0
}
