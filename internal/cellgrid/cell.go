// Package cellgrid implements the displayable character grid shared by every
// emulator variant: Cell attributes, Line wrapping flags, the active Grid
// (cursor, scroll region, charsets), and the bounded Scrollback history.
//
// Cell's attribute model is grounded on go-headless-term's Cell (bitflag
// attributes plus a foreground/background reference), re-expressed against
// qodem's fixed 16-color BBS-era palette index instead of image/color.Color,
// since every emulation variant addresses colors by palette index (0-7
// direct, 8-15 bright) rather than arbitrary RGBA.
package cellgrid

// Flags is a bitmask of per-cell attribute flags.
type Flags uint16

const (
	FlagBold Flags = 1 << iota
	FlagUnderline
	FlagBlink
	FlagReverse
	FlagInvisible
	FlagProtected
	FlagDoubleWidth
	FlagDoubleHeightTop
	FlagDoubleHeightBottom
	// FlagWideRight marks the sentinel right half of a double-width pair.
	FlagWideRight
	// FlagDirty marks a cell changed since the last render sink pull.
	FlagDirty
)

// DefaultFG and DefaultBG are the palette indices used for a freshly reset cell.
const (
	DefaultFG = 7 // white
	DefaultBG = 0 // black
)

// Cell is one displayable grid position: a Unicode scalar (may be wide or
// combining) plus an attribute word.
type Cell struct {
	Ch    rune
	FG    uint8 // palette index 0-15
	BG    uint8 // palette index 0-15
	Flags Flags
}

// Blank returns a reset cell: a space with default colors and no flags.
func Blank() Cell {
	return Cell{Ch: ' ', FG: DefaultFG, BG: DefaultBG}
}

// BlankWithAttr returns a reset cell carrying the given fg/bg (used when
// erasing under an active SGR, per VT's "erase preserves current
// background" convention).
func BlankWithAttr(fg, bg uint8) Cell {
	return Cell{Ch: ' ', FG: fg, BG: bg}
}

func (c *Cell) HasFlag(f Flags) bool { return c.Flags&f != 0 }
func (c *Cell) SetFlag(f Flags)      { c.Flags |= f }
func (c *Cell) ClearFlag(f Flags)    { c.Flags &^= f }

// IsWideLeft reports whether this cell is the left half of a double-width pair.
func (c *Cell) IsWideLeft() bool { return c.HasFlag(FlagDoubleWidth) && !c.HasFlag(FlagWideRight) }

// IsWideRight reports whether this cell is the sentinel right half of a
// double-width pair, which must always be overwritten together with its
// partner.
func (c *Cell) IsWideRight() bool { return c.HasFlag(FlagWideRight) }
