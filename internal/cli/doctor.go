package cli

import (
	"github.com/spf13/cobra"

	dcxerrors "github.com/griffithind/dcx/internal/errors"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run side-effect-free environment checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		orch := orchestratorFrom(cmd)
		if err := orch.Doctor(cmd.Context()); err != nil {
			// doctor's own failure isn't a DCXError — it has already
			// printed every check's ✓/✗ line, so just signal exit 1.
			return dcxerrors.New(dcxerrors.CategoryInternal, dcxerrors.CodeInternal, err.Error())
		}
		return nil
	},
}
