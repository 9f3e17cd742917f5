package output

import (
	"github.com/pterm/pterm"
)

// StatusRow is one line of the `dcx status` table.
type StatusRow struct {
	Workspace string
	Mount     string
	Container string
	State     string
}

// RenderStatusTable prints the four-column WORKSPACE | MOUNT | CONTAINER |
// STATE table to stdout. An empty rows slice prints "No active
// workspaces." instead, per the status command's contract.
func RenderStatusTable(rows []StatusRow) error {
	if len(rows) == 0 {
		Result("No active workspaces.")
		return nil
	}

	data := pterm.TableData{{"WORKSPACE", "MOUNT", "CONTAINER", "STATE"}}
	for _, r := range rows {
		data = append(data, []string{r.Workspace, r.Mount, r.Container, stateColor(r.State)})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(writer()).WithData(data).Render()
}

func stateColor(state string) string {
	switch state {
	case "healthy":
		return pterm.FgGreen.Sprint(state)
	case "idle", "empty-dir":
		return pterm.FgYellow.Sprint(state)
	case "orphaned", "stale", "collision":
		return pterm.FgRed.Sprint(state)
	default:
		return pterm.FgGray.Sprint(state)
	}
}

// CheckOutcome is the result of one doctor check.
type CheckOutcome int

const (
	CheckPass CheckOutcome = iota
	CheckFail
)

// PrintCheck prints a single doctor check line: "✓ <name>" or "✗ <name>"
// followed by a fix hint when the check failed.
func PrintCheck(name string, outcome CheckOutcome, failHint string) {
	switch outcome {
	case CheckPass:
		Result("%s %s", pterm.FgGreen.Sprint("✓"), name)
	case CheckFail:
		Result("%s %s", pterm.FgRed.Sprint("✗"), name)
		if failHint != "" {
			Result("  %s", pterm.FgGray.Sprint(failHint))
		}
	}
}
