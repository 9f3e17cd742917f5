package state

// Probe is the minimal information the classifier needs about one relay
// target, gathered by Discover from the mount table and a Docker query.
// Keeping it a plain struct (rather than threading *mount.Table and
// *docker.Client through Classify) is what makes the classifier itself a
// pure function: tests build a Probe by hand.
type Probe struct {
	// DirExists reports whether the relay subdirectory exists on disk.
	DirExists bool

	// MountExists reports whether the OS mount table has an entry at the
	// relay target.
	MountExists bool

	// IsBindfs reports whether that entry's fstype is fuse/bindfs.
	IsBindfs bool

	// Source is the entry's source path, meaningful only if MountExists.
	Source string

	// ContainerID is the container labeled for this relay path, any
	// state, "" if none.
	ContainerID string

	// ContainerRunning reports whether ContainerID is currently running.
	// Meaningless if ContainerID == "".
	ContainerRunning bool
}

// Classify derives a workspace's state from a Probe per the state table:
// missing / healthy / idle / orphaned / stale / empty-dir / collision.
// requested is the canonical workspace path being asked about; relayPath
// is its corresponding relay subdirectory.
func Classify(requested, relayPath string, p Probe) Result {
	base := Result{
		RelayPath:   relayPath,
		Requested:   requested,
		Source:      p.Source,
		ContainerID: p.ContainerID,
		Running:     p.ContainerRunning,
	}

	if !p.DirExists && p.ContainerID == "" {
		base.State = Missing
		return base
	}

	if p.MountExists && p.IsBindfs {
		var prelim State
		switch {
		case p.ContainerID != "" && p.ContainerRunning:
			prelim = Healthy
		case p.ContainerID != "":
			prelim = Idle
		default:
			prelim = Orphaned
		}
		if prelim == Healthy && p.Source != requested {
			base.State = Collision
			return base
		}
		base.State = prelim
		return base
	}

	if p.MountExists && !p.IsBindfs {
		base.State = Stale
		return base
	}

	if p.DirExists {
		base.State = EmptyDir
		return base
	}

	// DirExists is false but a container is still labeled for this relay
	// path and there's no mount at all — an inconsistent leftover (e.g. the
	// relay subdirectory was removed out-of-band while the container
	// survived). Treated as stale so ensure_healthy's recovery path
	// (unmount, then remount) applies uniformly.
	base.State = Stale
	return base
}
