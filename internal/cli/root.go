// Package cli implements dcx's command-line interface: the cobra command
// tree for its recognized subcommands, and the flag/error translation layer
// between cobra and internal/orchestrator. Any subcommand not recognized
// here never reaches cobra at all — see cmd/dcx/main.go.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	dcxerrors "github.com/griffithind/dcx/internal/errors"
	"github.com/griffithind/dcx/internal/orchestrator"
	"github.com/griffithind/dcx/internal/output"
	"github.com/griffithind/dcx/internal/util"
)

// Version is stamped at build time via -ldflags; "dev" otherwise.
var Version = "dev"

var (
	workspacePath string
	configPath    string
	noColor       bool
	quiet         bool
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "dcx",
	Short: "Lifecycle orchestrator for devcontainers on Colima/bindfs-relay hosts",
	Long: `dcx mounts a workspace into a per-user relay directory via bindfs and
drives the devcontainer CLI on top of the relay mount, so devcontainers run
correctly on a Colima host without the VM needing a direct bind mount of the
workspace itself.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		output.Configure(output.Config{
			Quiet:     quiet,
			NoColor:   noColor,
			Writer:    os.Stdout,
			ErrWriter: os.Stderr,
		})
		util.SetVerbose(verbose)
		return nil
	},
}

// Execute runs the command tree rooted at dcx, returning the process exit
// code callers should use.
func Execute() int {
	orch, err := orchestrator.NewFromEnv()
	if err != nil {
		return reportError(err)
	}

	rootCmd.SetContext(newOrchestratorContext(orch))
	if err := rootCmd.Execute(); err != nil {
		return reportError(err)
	}
	return 0
}

// reportError prints a DCXError's user-facing rendering (or a bare error's
// message as a fallback) to stderr and returns the process exit code it
// maps to.
func reportError(err error) int {
	if dcxErr, ok := dcxerrors.AsDCXError(err); ok {
		fmt.Fprint(os.Stderr, dcxErr.UserFriendly())
		return dcxErr.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspacePath, "workspace-folder", "w", "", "workspace directory (default: current directory)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to devcontainer.json (default: auto-detect)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress step markers")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "emit debug-level diagnostic logging to stderr")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(completionsCmd)
}
