package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectMethodNameAliases(t *testing.T) {
	require.Equal(t, "raw", connectMethodName("socket"))
	require.Equal(t, "local", connectMethodName("shell"))
	require.Equal(t, "telnet", connectMethodName("telnet"))
	require.Equal(t, "ssh", connectMethodName("ssh"))
}
