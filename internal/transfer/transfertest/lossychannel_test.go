package transfertest

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type nopCloser struct{ *bytes.Buffer }

func (n nopCloser) Close() error { return nil }

func TestLossyChannelDelaysDelivery(t *testing.T) {
	var buf bytes.Buffer
	ch := NewLossyChannel(nopCloser{&buf}, 100*time.Millisecond, 0, 1)

	n, err := ch.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, 0, buf.Len())
	require.Equal(t, 1, ch.Pending())

	require.NoError(t, ch.Advance(50*time.Millisecond))
	require.Equal(t, 0, buf.Len())

	require.NoError(t, ch.Advance(60*time.Millisecond))
	require.Equal(t, "hello", buf.String())
	require.Equal(t, 0, ch.Pending())
}

func TestLossyChannelDropsWithFullProbability(t *testing.T) {
	var buf bytes.Buffer
	ch := NewLossyChannel(nopCloser{&buf}, time.Millisecond, 1.0, 1)

	_, err := ch.Write([]byte("never arrives"))
	require.NoError(t, err)

	require.NoError(t, ch.Advance(time.Second))
	require.Equal(t, 0, buf.Len())
	require.Equal(t, 0, ch.Pending())
}

func TestLossyChannelReadPassesThrough(t *testing.T) {
	upstream := bytes.NewBufferString("upstream-data")
	ch := NewLossyChannel(nopCloser{upstream}, 0, 0, 1)

	out := make([]byte, 13)
	n, err := ch.Read(out)
	require.NoError(t, err)
	require.Equal(t, "upstream-data", string(out[:n]))
}
