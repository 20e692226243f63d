package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRingPushDrain(t *testing.T) {
	r := NewRing(8)
	r.Push([]byte("abcd"))
	require.Equal(t, 4, r.Len())
	require.Equal(t, []byte("abcd"), r.Peek())

	out := r.Drain(2)
	require.Equal(t, []byte("ab"), out)
	require.Equal(t, 2, r.Len())

	r.Push([]byte("ef"))
	require.Equal(t, []byte("cdef"), r.Peek())
}

func TestRingPushOverCapacityKeepsTail(t *testing.T) {
	r := NewRing(4)
	r.Push([]byte("abcdefgh"))
	require.Equal(t, []byte("efgh"), r.Peek())
}

func TestRingPushCompactsWhenTailFull(t *testing.T) {
	r := NewRing(4)
	r.Push([]byte("abc"))
	r.Drain(2)
	r.Push([]byte("d"))
	r.Push([]byte("ef"))
	require.Equal(t, []byte("cdef"), r.Peek())
}

func TestRingDrainAllResets(t *testing.T) {
	r := NewRing(4)
	r.Push([]byte("ab"))
	r.Drain(2)
	require.Equal(t, 0, r.Len())
	r.Push([]byte("wxyz"))
	require.Equal(t, []byte("wxyz"), r.Peek())
}

func TestRingReset(t *testing.T) {
	r := NewRing(4)
	r.Push([]byte("ab"))
	r.Reset()
	require.Equal(t, 0, r.Len())
	require.Equal(t, 4, r.Free())
}
