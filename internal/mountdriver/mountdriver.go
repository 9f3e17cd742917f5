// Package mountdriver wraps bindfs and the platform unmount tool, and
// composes the state classifier to decide whether a relay target needs
// mounting, remounting, or is already fine.
package mountdriver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/griffithind/dcx/internal/state"
	"github.com/griffithind/dcx/internal/util"
)

// ErrMount wraps a bindfs invocation failure, carrying the process's
// combined output verbatim so the caller can print it unchanged.
type ErrMount struct {
	Output string
	Cause  error
}

func (e *ErrMount) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("bindfs failed: %v\n%s", e.Cause, e.Output)
	}
	return fmt.Sprintf("bindfs failed: %v", e.Cause)
}

func (e *ErrMount) Unwrap() error { return e.Cause }

// ErrCollision is returned by EnsureHealthy when the relay target is
// mounted from a different source than requested.
type ErrCollision = state.ErrCollision

// Mount ensures target exists (creating it if absent) and bind-mounts
// source onto it via bindfs. On failure, a directory this call created is
// removed again — nothing is left behind.
func Mount(ctx context.Context, source, target string) error {
	createdDir := false
	if _, err := os.Stat(target); os.IsNotExist(err) {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("create mount target %s: %w", target, err)
		}
		createdDir = true
	} else if err != nil {
		return fmt.Errorf("stat mount target %s: %w", target, err)
	}

	util.Debug("mounting %s onto %s via bindfs", source, target)
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "bindfs", "--no-allow-other", source, target)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		if createdDir {
			os.Remove(target)
		}
		return &ErrMount{Output: out.String(), Cause: err}
	}
	return nil
}

// Unmount invokes the platform unmount tool on target. "Not mounted" is
// treated as success since the end state the caller wants is identical.
func Unmount(ctx context.Context, target string) error {
	return platformUnmount(ctx, target)
}

// RemoveDir removes the (now unmounted) relay subdirectory. force also
// removes any leftover contents, used for the empty-dir recovery case
// where the directory was never actually a mount point.
func RemoveDir(target string, force bool) error {
	var err error
	if force {
		err = os.RemoveAll(target)
	} else {
		err = os.Remove(target)
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove relay subdirectory %s: %w", target, err)
	}
	return nil
}

// EnsureHealthy composes the state classifier: a stale mount is torn down
// and remounted; an already-healthy mount matching source is a no-op; a
// collision is reported rather than silently overwritten.
func EnsureHealthy(ctx context.Context, result state.Result, source, target string) error {
	switch result.State {
	case state.Healthy:
		return nil
	case state.Collision:
		return &ErrCollision{Requested: result.Requested, Source: result.Source}
	case state.Stale:
		if err := Unmount(ctx, target); err != nil {
			return err
		}
		return Mount(ctx, source, target)
	default:
		return Mount(ctx, source, target)
	}
}
