package orchestrator

import (
	"context"
	"os"

	dcxerrors "github.com/griffithind/dcx/internal/errors"
	"github.com/griffithind/dcx/internal/mount"
	"github.com/griffithind/dcx/internal/naming"
	"github.com/griffithind/dcx/internal/output"
)

// Status implements `dcx status`: one row per managed relay subdirectory,
// regardless of whether its mount or container still exist — a stale or
// orphaned entry is exactly what the table exists to surface.
func (o *Orchestrator) Status(ctx context.Context) error {
	if err := o.validateDocker(ctx); err != nil {
		return err
	}

	entries, err := os.ReadDir(o.RelayDir())
	if err != nil {
		if os.IsNotExist(err) {
			return output.RenderStatusTable(nil)
		}
		return dcxerrors.Internal("failed to list relay directory", err)
	}

	table, err := mount.Probe()
	if err != nil {
		return dcxerrors.Wrap(err, dcxerrors.CategoryEnvironment, dcxerrors.CodeMountFailed, "failed to read mount table")
	}

	var rows []output.StatusRow
	for _, e := range entries {
		if !e.IsDir() || !naming.IsManaged(e.Name()) {
			continue
		}
		relayPath := naming.RelayDir(o.Home) + "/" + e.Name()
		source, mounted := table.SourceOf(relayPath)
		workspace := source
		if !mounted {
			workspace = relayPath
		}

		result, err := o.classifyAt(ctx, workspace, relayPath)
		if err != nil {
			output.Warn("failed to classify %s: %v", e.Name(), err)
			continue
		}

		workspaceCol := source
		if workspaceCol == "" {
			workspaceCol = "(unknown)"
		}
		containerCol := "(none)"
		if result.ContainerID != "" {
			containerCol = shortID(result.ContainerID)
			if !result.Running {
				containerCol += " (stopped)"
			}
		}

		rows = append(rows, output.StatusRow{
			Workspace: workspaceCol,
			Mount:     relayPath,
			Container: containerCol,
			State:     result.State.String(),
		})
	}

	return output.RenderStatusTable(rows)
}
