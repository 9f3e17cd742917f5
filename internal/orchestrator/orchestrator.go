// Package orchestrator implements dcx's lifecycle commands: up, exec, down,
// clean, status, and doctor. Each composes the mount table, the Docker
// adapter, the state classifier, the mount driver, and the override-config
// synthesizer the way §4.7 of the design describes; none of them hold state
// across invocations beyond what they discover fresh every call.
package orchestrator

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/griffithind/dcx/internal/config"
	"github.com/griffithind/dcx/internal/docker"
	dcxerrors "github.com/griffithind/dcx/internal/errors"
	"github.com/griffithind/dcx/internal/mount"
	"github.com/griffithind/dcx/internal/naming"
	"github.com/griffithind/dcx/internal/platform"
	"github.com/griffithind/dcx/internal/state"
	"github.com/griffithind/dcx/internal/util"
)

// DevcontainerBin is the external devcontainer CLI binary dcx delegates
// container lifecycle work to. A package variable rather than a constant so
// tests can point it at a stub.
var DevcontainerBin = "devcontainer"

// Orchestrator bundles the live dependencies every command needs: a Docker
// client and the relay root directory. It holds no other state — every
// command re-probes the mount table and the daemon fresh.
type Orchestrator struct {
	Docker *docker.Client
	Home   string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New builds an Orchestrator around an already-constructed Docker client and
// HOME directory, wiring stdio to the process's own by default.
func New(dc *docker.Client, home string) *Orchestrator {
	return &Orchestrator{
		Docker: dc,
		Home:   home,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// NewFromEnv constructs an Orchestrator from the process environment: a
// Docker client dialed via DOCKER_HOST/the daemon default, and HOME for the
// relay directory. cli.Execute and main's pass-through path each call this
// once per process; the Docker dependency is a concrete *docker.Client, so
// there is no fake-client seam for tests.
func NewFromEnv() (*Orchestrator, error) {
	home := os.Getenv("HOME")
	if home == "" {
		return nil, dcxerrors.Newf(dcxerrors.CategoryEnvironment, dcxerrors.CodeInternal, "HOME is not set")
	}
	dc, err := docker.NewClient()
	if err != nil {
		return nil, dcxerrors.DockerUnreachable(err)
	}
	return New(dc, home), nil
}

// RelayDir returns the relay root directory, ~/.colima-mounts.
func (o *Orchestrator) RelayDir() string {
	return naming.RelayDir(o.Home)
}

// validateDocker confirms the daemon is reachable, translating a failure
// into the fixed DCXError the design mandates.
func (o *Orchestrator) validateDocker(ctx context.Context) error {
	if err := o.Docker.Info(ctx); err != nil {
		return dcxerrors.DockerUnreachable(err)
	}
	return nil
}

// resolveWorkspace canonicalizes the requested workspace path, confirms it
// exists, and rejects it if it falls under the relay directory (the
// anti-recursion check: a workspace path that is itself a relay
// subdirectory would, if mounted, create nested FUSE mounts).
func (o *Orchestrator) resolveWorkspace(requested string) (string, error) {
	abs, err := naming.Canonicalize(requested)
	if err != nil {
		return "", dcxerrors.Internal("failed to canonicalize workspace path", err)
	}

	if !util.IsDir(abs) {
		return "", dcxerrors.WorkspaceMissing(abs)
	}

	relayRoot := o.RelayDir()
	if abs == relayRoot || strings.HasPrefix(abs, relayRoot+string(filepath.Separator)) {
		return "", dcxerrors.AntiRecursion(abs, relayRoot)
	}

	return abs, nil
}

// classify probes the live mount table and Docker for workspace, returning
// the discovered state alongside the relay path it corresponds to.
func (o *Orchestrator) classify(ctx context.Context, workspace string) (state.Result, error) {
	return o.classifyAt(ctx, workspace, naming.RelayPath(o.Home, workspace))
}

// classifyAt is classify with relayPath supplied rather than derived from
// workspace, for callers (the --all clean sweep) that discover relay
// subdirectories directly and may not know the original workspace path at
// all when the mount is already gone.
func (o *Orchestrator) classifyAt(ctx context.Context, workspace, relayPath string) (state.Result, error) {
	table, err := mount.Probe()
	if err != nil {
		return state.Result{}, dcxerrors.Wrap(err, dcxerrors.CategoryEnvironment, dcxerrors.CodeMountFailed, "failed to read mount table")
	}

	result, err := state.Discover(ctx, o.Docker, table, workspace, relayPath)
	if err != nil {
		return state.Result{}, dcxerrors.Internal("failed to discover workspace state", err)
	}
	util.Debug("classified %s at %s as %s (container=%s running=%v)", workspace, relayPath, result.State, result.ContainerID, result.Running)
	return result, nil
}

// resolveConfig finds the effective devcontainer.json for workspace, given
// an explicit --config flag value ("" if unset), and loads it.
func (o *Orchestrator) resolveConfig(workspace, explicit string) (*config.Loaded, error) {
	path, err := config.Resolve(workspace, explicit)
	if err != nil {
		if explicit != "" {
			return nil, dcxerrors.ConfigMissing(explicit)
		}
		return nil, dcxerrors.ConfigMissing(path)
	}
	loaded, err := config.Load(path)
	if err != nil {
		return nil, dcxerrors.Internal("failed to read devcontainer config", err)
	}
	return loaded, nil
}

// checkPrerequisite confirms binary resolves on PATH and actually runs
// versionFlag, returning a CategoryPrerequisite DCXError (exit code 127) if
// not. Called upfront by any command about to spawn binary, so a missing
// tool is reported distinctly from a runtime failure of a tool dcx found
// but then failed to use.
func (o *Orchestrator) checkPrerequisite(binary, versionFlag string) error {
	if !platform.HasBinary(binary, versionFlag) {
		return dcxerrors.PrerequisiteMissing(binary)
	}
	return nil
}

// identifierOf is a small convenience shared by every command that needs
// both the canonical workspace path and its identifier/relay path together.
func identifierOf(home, workspace string) (identifier, relayPath string) {
	return naming.MountName(workspace), naming.RelayPath(home, workspace)
}
