package orchestrator

import (
	"context"

	"github.com/griffithind/dcx/internal/config"
	dcxerrors "github.com/griffithind/dcx/internal/errors"
	"github.com/griffithind/dcx/internal/overrideconfig"
	"github.com/griffithind/dcx/internal/output"
	"github.com/griffithind/dcx/internal/state"
)

// ExecOptions carries `dcx exec`'s flags and the command to run.
type ExecOptions struct {
	WorkspacePath string
	ConfigPath    string
	Command       []string
}

// Exec implements `dcx exec`. Unlike Up, it never mounts or remounts — an
// absent or stale mount is a usage error telling the caller to run `dcx up`
// first. On success it returns the child's exit code unchanged; err is
// non-nil only for a failure dcx itself detects before spawning the child.
func (o *Orchestrator) Exec(ctx context.Context, opts ExecOptions) (int, error) {
	if err := o.validateDocker(ctx); err != nil {
		return 0, err
	}
	if err := o.checkPrerequisite(DevcontainerBin, "--version"); err != nil {
		return 0, err
	}

	workspace, err := o.resolveWorkspace(opts.WorkspacePath)
	if err != nil {
		return 0, err
	}

	cfgPath, err := config.Resolve(workspace, opts.ConfigPath)
	if err != nil {
		if opts.ConfigPath != "" {
			return 0, dcxerrors.ConfigMissing(opts.ConfigPath)
		}
		return 0, dcxerrors.ConfigMissing(workspace)
	}
	loaded, err := config.Load(cfgPath)
	if err != nil {
		return 0, dcxerrors.Internal("failed to read devcontainer config", err)
	}

	result, err := o.classify(ctx, workspace)
	if err != nil {
		return 0, err
	}

	_, relayPath := identifierOf(o.Home, workspace)

	switch result.State {
	case state.Healthy, state.Idle:
		// fine, mount is in place
	case state.Stale:
		return 0, dcxerrors.MountStale(workspace)
	case state.Collision:
		return 0, dcxerrors.HashCollision(workspace, result.Source)
	default: // missing, orphaned, empty-dir
		return 0, dcxerrors.NoMount(workspace)
	}

	if result.ContainerID == "" {
		return 0, dcxerrors.NoMount(workspace)
	}

	synth, err := overrideconfig.Synthesize(loaded, overrideconfig.Options{
		RelayPath:     relayPath,
		WorkspacePath: workspace,
	})
	if err != nil {
		return 0, dcxerrors.Internal("failed to synthesize override config", err)
	}
	defer synth.Cleanup()
	if synth.Warning != "" {
		output.Warn("%s", synth.Warning)
	}

	args := append([]string{
		"exec",
		"--container-id", result.ContainerID,
		"--workspace-folder", relayPath,
		"--override-config", synth.Path,
	}, opts.Command...)

	exitCode, runErr := runChildForwardingSignals(ctx, o.Stdin, o.Stdout, o.Stderr, nil, DevcontainerBin, args...)
	if runErr != nil {
		return 0, dcxerrors.Internal("failed to run devcontainer exec", runErr)
	}
	return exitCode, nil
}
