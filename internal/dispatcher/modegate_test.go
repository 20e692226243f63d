package dispatcher

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRWC struct {
	bytes.Buffer
	closed bool
}

func (f *fakeRWC) Close() error { f.closed = true; return nil }

func TestModeGateDefaultsToConsole(t *testing.T) {
	console := &fakeRWC{}
	g := NewModeGate(console)
	require.Equal(t, ModeConsole, g.Active())

	g.Write([]byte("hi"))
	require.Equal(t, "hi", console.String())
}

func TestModeGateSwitchRequiresAttach(t *testing.T) {
	g := NewModeGate(&fakeRWC{})
	require.False(t, g.Switch(ModeTransfer))
	require.Equal(t, ModeConsole, g.Active())

	xfer := &fakeRWC{}
	g.Attach(ModeTransfer, xfer)
	require.True(t, g.Switch(ModeTransfer))
	require.Equal(t, ModeTransfer, g.Active())

	g.Write([]byte("file-bytes"))
	require.Equal(t, "file-bytes", xfer.String())
}

func TestModeGateDetachRevertsToConsole(t *testing.T) {
	console := &fakeRWC{}
	g := NewModeGate(console)
	xfer := &fakeRWC{}
	g.Attach(ModeTransfer, xfer)
	g.Switch(ModeTransfer)

	g.Detach(ModeTransfer)
	require.Equal(t, ModeConsole, g.Active())
}
