package state

import (
	"context"
	"os"

	"github.com/griffithind/dcx/internal/docker"
	"github.com/griffithind/dcx/internal/mount"
)

// Discover builds a Probe from the live mount table and a Docker query,
// then classifies it. This is the only place in the package that touches
// the filesystem or the daemon; Classify itself stays pure.
func Discover(ctx context.Context, dc *docker.Client, table *mount.Table, workspacePath, relayPath string) (Result, error) {
	dirExists, err := dirExists(relayPath)
	if err != nil {
		return Result{}, err
	}

	source, mountExists := table.SourceOf(relayPath)
	isBindfs := table.IsBindfs(relayPath)

	containerID, hasAny, err := dc.AnyContainerFor(ctx, relayPath)
	if err != nil {
		return Result{}, err
	}

	running := false
	if hasAny {
		runningID, isRunning, err := dc.ContainerFor(ctx, relayPath)
		if err != nil {
			return Result{}, err
		}
		running = isRunning && runningID == containerID
	}

	p := Probe{
		DirExists:        dirExists,
		MountExists:      mountExists,
		IsBindfs:         isBindfs,
		Source:           source,
		ContainerID:      containerID,
		ContainerRunning: running,
	}
	return Classify(workspacePath, relayPath, p), nil
}

func dirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
