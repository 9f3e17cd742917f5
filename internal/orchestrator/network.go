package orchestrator

import dcxerrors "github.com/griffithind/dcx/internal/errors"

// NetworkMode is one of the four literals dcx stamps as the container's
// dcx.network-mode label and exports to the child as DCX_NETWORK_MODE.
// dcx never enforces network isolation itself — these are markers the
// user's own devcontainer config and runArgs act on.
type NetworkMode string

const (
	NetworkRestricted NetworkMode = "restricted"
	NetworkMinimal    NetworkMode = "minimal"
	NetworkHost       NetworkMode = "host"
	NetworkOpen       NetworkMode = "open"

	// DefaultNetworkMode is used when --network is not given.
	DefaultNetworkMode = NetworkMinimal
)

// EnvNetworkMode is the environment variable dcx exports into the
// devcontainer CLI's child process, never into its own.
const EnvNetworkMode = "DCX_NETWORK_MODE"

func (m NetworkMode) valid() bool {
	switch m {
	case NetworkRestricted, NetworkMinimal, NetworkHost, NetworkOpen:
		return true
	default:
		return false
	}
}

// resolveNetworkMode defaults an empty requested mode to DefaultNetworkMode
// and rejects anything outside the four recognized literals.
func resolveNetworkMode(requested string) (NetworkMode, error) {
	if requested == "" {
		return DefaultNetworkMode, nil
	}
	mode := NetworkMode(requested)
	if !mode.valid() {
		return "", dcxerrors.InvalidFlag("network", requested, "restricted, minimal, host, open")
	}
	return mode, nil
}
