package telnet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNegotiatorRefusesToEchoLocally(t *testing.T) {
	n := NewNegotiator(Hooks{})

	_, reply := n.Feed([]byte{IAC, DO, OptEcho})

	require.Equal(t, []byte{IAC, WONT, OptEcho}, reply)
}
