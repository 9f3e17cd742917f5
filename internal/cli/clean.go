package cli

import (
	"github.com/spf13/cobra"

	"github.com/griffithind/dcx/internal/orchestrator"
)

var (
	cleanAll    bool
	cleanPurge  bool
	cleanDryRun bool
	cleanYes    bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Tear down a workspace's container, mount, and (with --purge) its images and volumes",
	RunE: func(cmd *cobra.Command, args []string) error {
		orch := orchestratorFrom(cmd)
		if cleanAll {
			return orch.CleanAll(cmd.Context(), orchestrator.CleanAllOptions{
				Purge:  cleanPurge,
				DryRun: cleanDryRun,
				Yes:    cleanYes,
			})
		}
		return orch.Clean(cmd.Context(), orchestrator.CleanOptions{
			WorkspacePath: workspacePath,
			Purge:         cleanPurge,
			DryRun:        cleanDryRun,
			Yes:           cleanYes,
		})
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "clean every managed workspace, not just the current one")
	cleanCmd.Flags().BoolVar(&cleanPurge, "purge", false, "also remove the stamped base image and named volumes")
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "print what would be removed without removing anything")
	cleanCmd.Flags().BoolVar(&cleanYes, "yes", false, "skip confirmation prompts")
}
