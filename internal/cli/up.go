package cli

import (
	"github.com/spf13/cobra"

	"github.com/griffithind/dcx/internal/orchestrator"
)

var (
	upNetwork string
	upDryRun  bool
	upYes     bool
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Mount the workspace into the relay and start its devcontainer",
	RunE: func(cmd *cobra.Command, args []string) error {
		orch := orchestratorFrom(cmd)
		return orch.Up(cmd.Context(), orchestrator.UpOptions{
			WorkspacePath: workspacePath,
			ConfigPath:    configPath,
			Network:       upNetwork,
			DryRun:        upDryRun,
			Yes:           upYes,
		})
	},
}

func init() {
	upCmd.Flags().StringVar(&upNetwork, "network", "", "network mode: restricted|minimal|host|open (default: minimal)")
	upCmd.Flags().BoolVar(&upDryRun, "dry-run", false, "print the mount and devcontainer invocation without running either")
	upCmd.Flags().BoolVar(&upYes, "yes", false, "skip confirmation prompts")
}
