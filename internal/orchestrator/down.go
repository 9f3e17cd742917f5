package orchestrator

import (
	"context"

	dcxerrors "github.com/griffithind/dcx/internal/errors"
	"github.com/griffithind/dcx/internal/mount"
	"github.com/griffithind/dcx/internal/mountdriver"
	"github.com/griffithind/dcx/internal/output"
)

// DownOptions carries `dcx down`'s flags.
type DownOptions struct {
	WorkspacePath string
}

// Down implements `dcx down`: idempotent teardown of a workspace's
// container and mount. An interrupt arriving once the container has been
// captured does not abort the unmount that follows — the unmount always
// runs to completion once started, so a relay subdirectory is never left
// bind-mounted with nothing watching it.
func (o *Orchestrator) Down(ctx context.Context, opts DownOptions) error {
	if err := o.validateDocker(ctx); err != nil {
		return err
	}

	workspace, err := o.resolveWorkspace(opts.WorkspacePath)
	if err != nil {
		return err
	}
	_, relayPath := identifierOf(o.Home, workspace)

	table, err := mount.Probe()
	if err != nil {
		return dcxerrors.Wrap(err, dcxerrors.CategoryEnvironment, dcxerrors.CodeMountFailed, "failed to read mount table")
	}
	_, mountExists := table.SourceOf(relayPath)

	containerID, hasContainer, err := o.Docker.AnyContainerFor(ctx, relayPath)
	if err != nil {
		return dcxerrors.Internal("failed to query container", err)
	}

	if !mountExists && !hasContainer {
		output.Result("Nothing to do.")
		return nil
	}

	if hasContainer {
		output.Step("Stopping container")
		if err := o.Docker.Stop(ctx, containerID); err != nil {
			return dcxerrors.Internal("failed to stop container", err)
		}
		if err := o.Docker.RemoveContainer(ctx, containerID, true); err != nil {
			return dcxerrors.Internal("failed to remove container", err)
		}
	}

	if mountExists {
		output.Step("Unmounting %s", relayPath)
		if err := mountdriver.Unmount(ctx, relayPath); err != nil {
			return dcxerrors.UnmountFailed(relayPath, err)
		}
	}

	// RemoveDir runs even when mountExists was false: a crashed or manual
	// unmount can leave the relay subdirectory behind with no mount on it
	// at all, and down's job is to leave no trace either way.
	if err := mountdriver.RemoveDir(relayPath, true); err != nil {
		return dcxerrors.Internal("failed to remove relay subdirectory", err)
	}

	output.Done()
	return nil
}
