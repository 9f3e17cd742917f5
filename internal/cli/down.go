package cli

import (
	"github.com/spf13/cobra"

	"github.com/griffithind/dcx/internal/orchestrator"
)

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop the container and unmount the workspace's relay mount",
	RunE: func(cmd *cobra.Command, args []string) error {
		orch := orchestratorFrom(cmd)
		return orch.Down(cmd.Context(), orchestrator.DownOptions{
			WorkspacePath: workspacePath,
		})
	},
}
