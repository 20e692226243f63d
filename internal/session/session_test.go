package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"qodem/internal/config"
)

func TestStateStrings(t *testing.T) {
	require.Equal(t, "offline", StateOffline.String())
	require.Equal(t, "dialing", StateDialing.String())
	require.Equal(t, "connected", StateConnected.String())
	require.Equal(t, "hanging-up", StateHangingUp.String())
	require.Equal(t, "unknown", State(99).String())
}

func TestPolicyIndexMapsConfigPolicies(t *testing.T) {
	require.Equal(t, 0, policyIndex(config.PolicyNone))
	require.Equal(t, 1, policyIndex(config.PolicyStrip))
	require.Equal(t, 2, policyIndex(config.PolicyAdd))
	require.Equal(t, 0, policyIndex(config.CRLFPolicy("bogus")))
}

func TestNewContextStartsOffline(t *testing.T) {
	c := New(&config.Config{}, nil)
	require.Equal(t, StateOffline, c.State())
	require.Nil(t, c.Grid())
}
