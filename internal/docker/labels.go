package docker

// Label keys dcx reads or relies on. LabelLocalFolder is stamped by the
// devcontainer CLI itself (it is how `up` finds the container belonging to
// a given relay path); LabelNetworkMode is stamped by dcx via the
// override-config's runArgs so up's reuse check can read it back without
// remembering anything across invocations. `dcx status` does not read it.
const (
	LabelLocalFolder = "devcontainer.local_folder"
	LabelNetworkMode = "dcx.network-mode"
)

// DCXVolumePrefix is the naming convention the devcontainer CLI uses for
// named volumes it creates; only volumes matching this prefix are ours to
// remove during cleanup.
const DCXVolumePrefix = "dcx-"

// BaseImagePrefix is the repo prefix dcx tags a workspace's resolved build
// image under, so later cleanup doesn't need to reparse the devcontainer
// config to find it again. See naming.BaseImageTag for the full tag.
const BaseImagePrefix = "dcx-base:"

// RuntimeImagePrefix and RuntimeImageSuffix bound the devcontainer CLI's own
// naming convention for the UID-remapped image layered over a build image:
// vsc-<workspace-name>-<suffix>-uid:latest.
const (
	RuntimeImagePrefix = "vsc-"
	RuntimeImageSuffix = "-uid"
)

