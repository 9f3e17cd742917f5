package orchestrator

import (
	"context"
	"fmt"
	"os"
	"strings"

	dcxerrors "github.com/griffithind/dcx/internal/errors"
	"github.com/griffithind/dcx/internal/mount"
	"github.com/griffithind/dcx/internal/mountdriver"
	"github.com/griffithind/dcx/internal/naming"
	"github.com/griffithind/dcx/internal/output"
	"github.com/griffithind/dcx/internal/state"
	"github.com/hashicorp/go-multierror"
)

// CleanOptions carries `dcx clean`'s flags for the single-workspace form.
type CleanOptions struct {
	WorkspacePath string
	Purge         bool
	DryRun        bool
	Yes           bool
}

// CleanAllOptions carries `dcx clean --all`'s flags.
type CleanAllOptions struct {
	Purge  bool
	DryRun bool
	Yes    bool
}

// CleanPlan is what a single workspace's clean amounts to, computed once so
// the dry-run printer and the real executor never disagree about what will
// happen.
type CleanPlan struct {
	Workspace   string
	RelayPath   string
	Identifier  string
	State       state.State
	ContainerID string
	Running     bool
}

func (p CleanPlan) nothingToDo() bool {
	return p.State == state.Missing
}

// planClean classifies workspace and assembles the plan clean will execute.
func (o *Orchestrator) planClean(ctx context.Context, workspace string) (CleanPlan, error) {
	result, err := o.classify(ctx, workspace)
	if err != nil {
		return CleanPlan{}, err
	}
	identifier, relayPath := identifierOf(o.Home, workspace)
	return CleanPlan{
		Workspace:   workspace,
		RelayPath:   relayPath,
		Identifier:  identifier,
		State:       result.State,
		ContainerID: result.ContainerID,
		Running:     result.Running,
	}, nil
}

// Clean implements `dcx clean` for a single workspace: stop and remove its
// container, remove its runtime image by tag, unmount and remove its relay
// subdirectory, and — with --purge — also remove its stamped base-image tag
// and any dcx-prefixed volumes it held. It finishes with a sweep for
// orphaned images left behind by workspaces cleaned some other way (a
// manual `rm -rf` of the relay subdirectory, say).
func (o *Orchestrator) Clean(ctx context.Context, opts CleanOptions) error {
	if err := o.validateDocker(ctx); err != nil {
		return err
	}

	workspace, err := o.resolveWorkspace(opts.WorkspacePath)
	if err != nil {
		return err
	}

	plan, err := o.planClean(ctx, workspace)
	if err != nil {
		return err
	}

	if plan.nothingToDo() {
		output.Result("Nothing to clean for %s.", workspace)
		return nil
	}

	if opts.DryRun {
		printCleanPlan(plan, opts.Purge)
		return nil
	}

	if plan.Running && !opts.Yes {
		if !output.Confirm(o.Stdin, "Workspace %s has a running container. Clean anyway?", workspace) {
			return dcxerrors.AbortRunningContainer()
		}
	}

	if err := o.executeCleanPlan(ctx, plan, opts.Purge); err != nil {
		return err
	}
	output.Result("Cleaned %s (was %s).", workspace, plan.State)

	if err := o.sweepOrphanedImages(ctx, opts.Purge); err != nil {
		output.Warn("orphan image sweep failed: %v", err)
	}
	return nil
}

func printCleanPlan(plan CleanPlan, purge bool) {
	output.Result("workspace: %s (state: %s)", plan.Workspace, plan.State)
	if plan.ContainerID != "" {
		output.Result("  remove container %s", shortID(plan.ContainerID))
		output.Result("  remove runtime image (by tag)")
	}
	output.Result("  unmount and remove %s", plan.RelayPath)
	if purge {
		output.Result("  remove base image %s", naming.BaseImageTag(plan.Identifier))
		if plan.ContainerID != "" {
			output.Result("  remove any dcx-prefixed volumes held by the container")
		}
	}
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// executeCleanPlan runs the mutating half of a workspace's clean. Volume
// names and the runtime image reference must be captured before the
// container is removed — that inspection is the only place they're
// discoverable.
func (o *Orchestrator) executeCleanPlan(ctx context.Context, plan CleanPlan, purge bool) error {
	var imageRef string
	var volumes []string

	if plan.ContainerID != "" {
		if ref, err := o.Docker.ImageOf(ctx, plan.ContainerID); err == nil {
			imageRef = ref
		} else {
			output.Warn("failed to resolve runtime image for %s: %v", plan.Workspace, err)
		}
		if purge {
			if vs, err := o.Docker.InspectVolumes(ctx, plan.ContainerID); err == nil {
				volumes = vs
			} else {
				output.Warn("failed to inspect volumes for %s: %v", plan.Workspace, err)
			}
		}

		output.Step("Stopping container")
		if err := o.Docker.Stop(ctx, plan.ContainerID); err != nil {
			return dcxerrors.Internal("failed to stop container", err)
		}
		if err := o.Docker.RemoveContainer(ctx, plan.ContainerID, true); err != nil {
			return dcxerrors.Internal("failed to remove container", err)
		}
		if imageRef != "" {
			if err := o.Docker.RemoveImage(ctx, imageRef, false); err != nil {
				output.Warn("failed to remove runtime image %s: %v", imageRef, err)
			}
		}
	}

	if purge {
		baseTag := naming.BaseImageTag(plan.Identifier)
		if err := o.Docker.RemoveImage(ctx, baseTag, false); err != nil {
			output.Warn("failed to remove base image %s: %v", baseTag, err)
		}
		for _, v := range volumes {
			if err := o.Docker.RemoveVolume(ctx, v); err != nil {
				output.Warn("failed to remove volume %s: %v", v, err)
			}
		}
	}

	output.Step("Unmounting %s", plan.RelayPath)
	if err := mountdriver.Unmount(ctx, plan.RelayPath); err != nil {
		return dcxerrors.UnmountFailed(plan.RelayPath, err)
	}
	if err := mountdriver.RemoveDir(plan.RelayPath, true); err != nil {
		return dcxerrors.Internal("failed to remove relay subdirectory", err)
	}
	return nil
}

// sweepOrphanedImages removes runtime images with no surviving container of
// any kind, then — with --purge — removes build images whose corresponding
// runtime image is already gone too. "Corresponding" is judged by repo-name
// prefix rather than the devcontainer CLI's internal config-hash suffix,
// which dcx has no visibility into; a build image is kept as long as any
// surviving runtime image's repo name extends its own.
func (o *Orchestrator) sweepOrphanedImages(ctx context.Context, purge bool) error {
	runtimeRefs, err := o.Docker.ListRuntimeImages(ctx)
	if err != nil {
		return dcxerrors.Internal("failed to list runtime images", err)
	}

	remainingRuntime := map[string]bool{}
	for _, ref := range runtimeRefs {
		used, err := o.Docker.HasAnyContainerForImage(ctx, ref)
		if err != nil {
			output.Warn("failed to check usage of %s: %v", ref, err)
			remainingRuntime[ref] = true
			continue
		}
		if used {
			remainingRuntime[ref] = true
			continue
		}
		if err := o.Docker.RemoveImage(ctx, ref, false); err != nil {
			output.Warn("failed to remove orphaned runtime image %s: %v", ref, err)
			remainingRuntime[ref] = true
		}
	}

	if !purge {
		return nil
	}

	buildRefs, err := o.Docker.ListBuildImages(ctx)
	if err != nil {
		return dcxerrors.Internal("failed to list build images", err)
	}
	for _, buildRef := range buildRefs {
		if correspondingRuntimeImageExists(buildRef, remainingRuntime) {
			continue
		}
		if err := o.Docker.RemoveImage(ctx, buildRef, false); err != nil {
			output.Warn("failed to remove orphaned build image %s: %v", buildRef, err)
		}
	}
	return nil
}

func correspondingRuntimeImageExists(buildRef string, remainingRuntime map[string]bool) bool {
	buildRepo := repoOf(buildRef)
	for runtimeRef := range remainingRuntime {
		if strings.HasPrefix(repoOf(runtimeRef), buildRepo+"-") {
			return true
		}
	}
	return false
}

func repoOf(ref string) string {
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		return ref[:i]
	}
	return ref
}

// CleanAll implements `dcx clean --all`: every managed relay subdirectory is
// cleaned independently, continuing past individual failures and reporting
// all of them together at the end rather than stopping at the first. With
// --purge, a final global sweep removes every remaining dcx-base:* tag and
// dcx-prefixed volume, not just the ones each per-workspace plan happened to
// discover.
func (o *Orchestrator) CleanAll(ctx context.Context, opts CleanAllOptions) error {
	if err := o.validateDocker(ctx); err != nil {
		return err
	}

	entries, err := os.ReadDir(o.RelayDir())
	if err != nil {
		if os.IsNotExist(err) {
			output.Result("No active workspaces.")
			return nil
		}
		return dcxerrors.Internal("failed to list relay directory", err)
	}

	table, err := mount.Probe()
	if err != nil {
		return dcxerrors.Wrap(err, dcxerrors.CategoryEnvironment, dcxerrors.CodeMountFailed, "failed to read mount table")
	}

	var plans []CleanPlan
	for _, e := range entries {
		if !e.IsDir() || !naming.IsManaged(e.Name()) {
			continue
		}
		relayPath := naming.RelayDir(o.Home) + "/" + e.Name()
		source, mounted := table.SourceOf(relayPath)
		workspace := source
		if !mounted {
			// Fall back to classifying by relay path alone; source-less
			// entries still get a container lookup and directory removal.
			// Classify only uses workspace for the collision comparison,
			// which is moot once the mount is already gone.
			workspace = relayPath
		}
		result, err := o.classifyAt(ctx, workspace, relayPath)
		if err != nil {
			output.Warn("failed to classify %s: %v", e.Name(), err)
			continue
		}
		plan := CleanPlan{
			Workspace:   workspace,
			RelayPath:   relayPath,
			Identifier:  e.Name(),
			State:       result.State,
			ContainerID: result.ContainerID,
			Running:     result.Running,
		}
		if plan.nothingToDo() {
			continue
		}
		plans = append(plans, plan)
	}

	if len(plans) == 0 {
		output.Result("No active workspaces.")
		return nil
	}

	if opts.DryRun {
		for _, p := range plans {
			printCleanPlan(p, opts.Purge)
		}
		return nil
	}

	running := runningWorkspaces(plans)
	if len(running) > 0 && !opts.Yes {
		prompt := fmt.Sprintf("The following workspaces have running containers: %s. Clean anyway?", strings.Join(running, ", "))
		if !output.Confirm(o.Stdin, "%s", prompt) {
			return dcxerrors.AbortRunningContainer()
		}
	}

	var errs *multierror.Error
	for _, p := range plans {
		if err := o.executeCleanPlan(ctx, p, opts.Purge); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", p.Workspace, err))
			continue
		}
		output.Result("Cleaned %s (was %s).", p.Workspace, p.State)
	}

	if err := o.sweepOrphanedImages(ctx, opts.Purge); err != nil {
		output.Warn("orphan image sweep failed: %v", err)
	}

	if opts.Purge {
		o.purgeAllBaseImages(ctx)
		o.purgeAllVolumes(ctx)
	}

	return errs.ErrorOrNil()
}

// purgeAllBaseImages removes every dcx-base:* tag still on the daemon after
// --all --purge has run every per-workspace plan; a base image stamped by a
// workspace that was cleaned out-of-band (its relay subdirectory removed
// manually, say, so no per-workspace plan ever ran RemoveImage on its tag)
// is still caught here.
func (o *Orchestrator) purgeAllBaseImages(ctx context.Context) {
	tags, err := o.Docker.ListBaseImageTags(ctx)
	if err != nil {
		output.Warn("failed to list base images for purge: %v", err)
		return
	}
	for _, tag := range tags {
		if err := o.Docker.RemoveImage(ctx, tag, false); err != nil {
			output.Warn("failed to remove base image %s: %v", tag, err)
		}
	}
}

// purgeAllVolumes removes every dcx-prefixed volume still on the daemon
// after --all --purge has run every per-workspace plan; a volume a plan's
// own InspectVolumes missed (the container was already gone before dcx got
// to it) is still caught here.
func (o *Orchestrator) purgeAllVolumes(ctx context.Context) {
	volumes, err := o.Docker.ListDCXVolumes(ctx)
	if err != nil {
		output.Warn("failed to list volumes for purge: %v", err)
		return
	}
	for _, v := range volumes {
		if err := o.Docker.RemoveVolume(ctx, v); err != nil {
			output.Warn("failed to remove volume %s: %v", v, err)
		}
	}
}

func runningWorkspaces(plans []CleanPlan) []string {
	var names []string
	for _, p := range plans {
		if p.Running {
			names = append(names, p.Workspace)
		}
	}
	return names
}
