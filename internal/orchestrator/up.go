package orchestrator

import (
	"context"
	"fmt"

	"github.com/griffithind/dcx/internal/config"
	"github.com/griffithind/dcx/internal/docker"
	dcxerrors "github.com/griffithind/dcx/internal/errors"
	"github.com/griffithind/dcx/internal/interrupt"
	"github.com/griffithind/dcx/internal/mountdriver"
	"github.com/griffithind/dcx/internal/naming"
	"github.com/griffithind/dcx/internal/output"
	"github.com/griffithind/dcx/internal/overrideconfig"
	"github.com/griffithind/dcx/internal/state"
)

// UpOptions carries `dcx up`'s flags.
type UpOptions struct {
	WorkspacePath string
	ConfigPath    string
	Network       string
	DryRun        bool
	Yes           bool
}

// Up implements `dcx up`: it gets a bindfs relay mount in place for the
// workspace and starts the devcontainer on top of it, rolling the mount
// back if the child fails or an interrupt lands before it succeeds.
func (o *Orchestrator) Up(ctx context.Context, opts UpOptions) error {
	if err := o.validateDocker(ctx); err != nil {
		return err
	}
	if err := o.checkPrerequisite("bindfs", "-V"); err != nil {
		return err
	}
	if err := o.checkPrerequisite(DevcontainerBin, "--version"); err != nil {
		return err
	}

	workspace, err := o.resolveWorkspace(opts.WorkspacePath)
	if err != nil {
		return err
	}
	output.Step("Resolving workspace path: %s", workspace)

	mode, err := resolveNetworkMode(opts.Network)
	if err != nil {
		return err
	}

	cfgPath, err := config.Resolve(workspace, opts.ConfigPath)
	if err != nil {
		if opts.ConfigPath != "" {
			return dcxerrors.ConfigMissing(opts.ConfigPath)
		}
		return dcxerrors.ConfigMissing(workspace)
	}
	loaded, err := config.Load(cfgPath)
	if err != nil {
		return dcxerrors.Internal("failed to read devcontainer config", err)
	}

	identifier, relayPath := identifierOf(o.Home, workspace)

	if opts.DryRun {
		output.Result("mount: source=%s,target=%s,type=bind", workspace, relayPath)
		output.Result("run: %s up --workspace-folder %s --config %s --override-config <generated>", DevcontainerBin, relayPath, cfgPath)
		return nil
	}

	result, err := o.classify(ctx, workspace)
	if err != nil {
		return err
	}
	if result.State == state.Collision {
		return dcxerrors.HashCollision(workspace, result.Source)
	}

	createdMount := false
	switch result.State {
	case state.Healthy, state.Idle:
		if result.ContainerID != "" {
			currentMode, has, err := o.Docker.LabelOf(ctx, result.ContainerID, docker.LabelNetworkMode)
			if err != nil {
				return dcxerrors.Internal("failed to read container network-mode label", err)
			}
			if has && currentMode != string(mode) {
				output.Step("Network mode changed (%s -> %s), recreating container", currentMode, mode)
				if err := o.Docker.Stop(ctx, result.ContainerID); err != nil {
					return dcxerrors.Internal("failed to stop container for recreation", err)
				}
				if err := o.Docker.RemoveContainer(ctx, result.ContainerID, true); err != nil {
					return dcxerrors.Internal("failed to remove container for recreation", err)
				}
			}
		}
	default: // missing, stale, orphaned, empty-dir
		output.Step("Mounting workspace to %s", relayPath)
		if err := mountdriver.Unmount(ctx, relayPath); err != nil {
			return dcxerrors.UnmountFailed(relayPath, err)
		}
		if err := mountdriver.Mount(ctx, workspace, relayPath); err != nil {
			return dcxerrors.MountFailed(workspace, relayPath, err)
		}
		createdMount = true
	}

	owned, err := ownedByCurrentUser(workspace)
	if err != nil {
		return dcxerrors.Internal("failed to determine workspace ownership", err)
	}
	if !owned && !opts.Yes {
		if !output.Confirm(o.Stdin, "Workspace %s is not owned by the current user. Continue?", workspace) {
			o.rollbackMount(ctx, createdMount, relayPath)
			return dcxerrors.AbortNonOwned()
		}
	}

	synth, err := overrideconfig.Synthesize(loaded, overrideconfig.Options{
		RelayPath:     relayPath,
		WorkspacePath: workspace,
		NetworkMode:   string(mode),
	})
	if err != nil {
		o.rollbackMount(ctx, createdMount, relayPath)
		return dcxerrors.Internal("failed to synthesize override config", err)
	}
	defer synth.Cleanup()
	if synth.Warning != "" {
		output.Warn("%s", synth.Warning)
	}

	output.Step("Starting devcontainer...")
	env := []string{fmt.Sprintf("%s=%s", EnvNetworkMode, mode)}
	exitCode, runErr := runChild(ctx, o.Stdin, o.Stdout, o.Stderr, env, DevcontainerBin,
		"up", "--workspace-folder", relayPath, "--override-config", synth.Path)

	if runErr != nil || exitCode != 0 || interrupt.Requested() {
		o.rollbackMount(ctx, createdMount, relayPath)
		if createdMount {
			output.Step("Mount rolled back.")
		}
		if runErr != nil {
			return dcxerrors.UpFailed(runErr)
		}
		return dcxerrors.UpFailed(fmt.Errorf("devcontainer up exited with status %d", exitCode))
	}

	containerID, has, err := o.Docker.AnyContainerFor(ctx, relayPath)
	if err == nil && has {
		if imgRef, imgErr := o.Docker.ImageOf(ctx, containerID); imgErr == nil {
			if tagErr := o.Docker.Tag(ctx, imgRef, naming.BaseImageTag(identifier)); tagErr != nil {
				output.Warn("failed to tag build image as %s: %v", naming.BaseImageTag(identifier), tagErr)
			}
		} else {
			output.Warn("failed to resolve container image for tagging: %v", imgErr)
		}
	}

	output.Done()
	return nil
}

// rollbackMount tears down a mount this invocation of Up created, ignoring
// errors: by the time we're rolling back, the original failure is already
// the one being reported.
func (o *Orchestrator) rollbackMount(ctx context.Context, createdMount bool, relayPath string) {
	if !createdMount {
		return
	}
	_ = mountdriver.Unmount(ctx, relayPath)
	_ = mountdriver.RemoveDir(relayPath, true)
}
