package emulator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"qodem/internal/cellgrid"
)

func lineText(grid *cellgrid.Grid, row int) string {
	runes := make([]rune, grid.Width)
	for i, c := range grid.Lines[row].Cells {
		runes[i] = c.Ch
	}
	return string(runes)
}

func TestDebugRendersControlAndCSIAsText(t *testing.T) {
	grid := cellgrid.NewGrid(40, 5, nil)
	e := NewDebug(40, 5)

	e.Feed(grid, []rune("hi\x1b[31m\x01"))

	text := lineText(grid, 0)
	require.Contains(t, text, "hi")
	require.Contains(t, text, "<CSI 31m>")
	require.Contains(t, text, "^A")
}

func TestDebugEscDispatchRendersIntermediate(t *testing.T) {
	grid := cellgrid.NewGrid(40, 5, nil)
	e := NewDebug(40, 5)
	e.Feed(grid, []rune("\x1b(B"))
	require.Contains(t, lineText(grid, 0), "<ESC (B>")
}

func TestPETSCIIPrintableAndHomeControl(t *testing.T) {
	grid := cellgrid.NewGrid(40, 5, nil)
	e := NewPETSCII(40, 5)

	e.Feed(grid, []rune("HELLO"))
	require.Contains(t, lineText(grid, 0), "HELLO")

	grid.CursorCol = 10
	e.Feed(grid, []rune{0x13})
	require.Equal(t, 0, grid.CursorRow)
	require.Equal(t, 0, grid.CursorCol)
}

func TestPETSCIIClearScreenControl(t *testing.T) {
	grid := cellgrid.NewGrid(40, 5, nil)
	e := NewPETSCII(40, 5)
	e.Feed(grid, []rune("junk"))
	e.Feed(grid, []rune{0x93})

	require.Equal(t, 0, grid.CursorRow)
	require.Equal(t, 0, grid.CursorCol)
	require.Equal(t, ' ', grid.Lines[0].Cells[0].Ch)
}

func TestPETSCIIReverseVideoToggle(t *testing.T) {
	grid := cellgrid.NewGrid(10, 2, nil)
	e := NewPETSCII(10, 2)
	e.Feed(grid, []rune{0x12})
	require.NotZero(t, grid.Attr&cellgrid.FlagReverse)
	e.Feed(grid, []rune{0x92})
	require.Zero(t, grid.Attr&cellgrid.FlagReverse)
}

func TestPETSCIIColorControlSetsForeground(t *testing.T) {
	grid := cellgrid.NewGrid(10, 2, nil)
	e := NewPETSCII(10, 2)
	e.Feed(grid, []rune{0x1c}) // red
	require.Equal(t, uint8(2), grid.FG)
}

func TestATASCIIEolMovesToNextLine(t *testing.T) {
	grid := cellgrid.NewGrid(10, 3, nil)
	e := NewATASCII(10, 3)
	e.Feed(grid, []rune("hi\x9bthere"))

	require.Contains(t, lineText(grid, 0), "hi")
	require.Contains(t, lineText(grid, 1), "there")
}

func TestATASCIIClearScreenControl(t *testing.T) {
	grid := cellgrid.NewGrid(10, 3, nil)
	e := NewATASCII(10, 3)
	e.Feed(grid, []rune("xxxx\x7d"))
	require.Equal(t, 0, grid.CursorRow)
	require.Equal(t, ' ', grid.Lines[0].Cells[0].Ch)
}

func TestATASCIITabControl(t *testing.T) {
	grid := cellgrid.NewGrid(20, 2, nil)
	e := NewATASCII(20, 2)
	e.Feed(grid, []rune{0x7f})
	require.Equal(t, 8, grid.CursorCol)
}

func TestTTYDropsLowControlBytesExceptWhitelisted(t *testing.T) {
	grid := cellgrid.NewGrid(20, 2, nil)
	e := NewTTY(20, 2)

	e.Feed(grid, []rune{0x05, 'h', 'i'})
	require.Contains(t, lineText(grid, 0), "hi")
	require.NotContains(t, lineText(grid, 0), string(rune(0x05)))
}

func TestTTYHandlesCRLFBackspaceTab(t *testing.T) {
	grid := cellgrid.NewGrid(20, 3, nil)
	e := NewTTY(20, 3)

	e.Feed(grid, []rune("ab\r\n"))
	require.Equal(t, 1, grid.CursorRow)
	require.Equal(t, 0, grid.CursorCol)

	e.Feed(grid, []rune("xyz\b"))
	require.Equal(t, 2, grid.CursorCol)

	e.Feed(grid, []rune{'\t'})
	require.Equal(t, 8, grid.CursorCol)
}

func TestEncodeKeyMappingsPerEmulator(t *testing.T) {
	require.Equal(t, []byte{0x1b, '[', 'A'}, NewDebug(1, 1).EncodeKey(KeyUp))
	require.Equal(t, []byte{0x91}, NewPETSCII(1, 1).EncodeKey(KeyUp))
	require.Equal(t, []byte{0x1c}, NewATASCII(1, 1).EncodeKey(KeyUp))
	require.Equal(t, []byte{0x08}, NewTTY(1, 1).EncodeKey(KeyBackspace))
	require.Nil(t, NewTTY(1, 1).EncodeKey(KeyF1))
}

func TestByNameResolvesNewVariants(t *testing.T) {
	require.Equal(t, "petscii", ByName("petscii", 80, 24).Name())
	require.Equal(t, "atascii", ByName("atascii", 80, 24).Name())
	require.Equal(t, "tty", ByName("tty", 80, 24).Name())
	require.Equal(t, "debug", ByName("debug", 80, 24).Name())
	require.Equal(t, "ansi", ByName("unknown-emulation", 80, 24).Name())
}
