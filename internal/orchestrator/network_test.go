package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNetworkModeDefaultsWhenEmpty(t *testing.T) {
	mode, err := resolveNetworkMode("")
	require.NoError(t, err)
	assert.Equal(t, DefaultNetworkMode, mode)
}

func TestResolveNetworkModeAcceptsRecognizedLiterals(t *testing.T) {
	for _, want := range []NetworkMode{NetworkRestricted, NetworkMinimal, NetworkHost, NetworkOpen} {
		mode, err := resolveNetworkMode(string(want))
		require.NoError(t, err)
		assert.Equal(t, want, mode)
	}
}

func TestResolveNetworkModeRejectsUnrecognized(t *testing.T) {
	_, err := resolveNetworkMode("airgapped")
	require.Error(t, err)
}

func TestNetworkModeValid(t *testing.T) {
	assert.True(t, NetworkHost.valid())
	assert.False(t, NetworkMode("airgapped").valid())
	assert.False(t, NetworkMode("").valid())
}
