package emulator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"qodem/internal/cellgrid"
)

func TestVT100DECCKMSwitchesArrowKeyEncoding(t *testing.T) {
	grid := cellgrid.NewGrid(40, 5, nil)
	e := NewVT100(40, 5, VariantVT100)

	require.Equal(t, []byte{0x1b, '[', 'A'}, e.EncodeKey(KeyUp))

	e.Feed(grid, []rune("\x1b[?1h")) // DECSET application cursor keys
	require.Equal(t, []byte{0x1b, 'O', 'A'}, e.EncodeKey(KeyUp))

	e.Feed(grid, []rune("\x1b[?1l")) // DECRST back to normal cursor keys
	require.Equal(t, []byte{0x1b, '[', 'A'}, e.EncodeKey(KeyUp))
}
