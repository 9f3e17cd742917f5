package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/griffithind/dcx/internal/orchestrator"
)

var execCmd = &cobra.Command{
	Use:   "exec -- COMMAND [ARGS...]",
	Short: "Run a command inside the workspace's devcontainer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch := orchestratorFrom(cmd)
		exitCode, err := orch.Exec(cmd.Context(), orchestrator.ExecOptions{
			WorkspacePath: workspacePath,
			ConfigPath:    configPath,
			Command:       args,
		})
		if err != nil {
			return err
		}
		if exitCode != 0 {
			os.Exit(exitCode)
		}
		return nil
	},
}
