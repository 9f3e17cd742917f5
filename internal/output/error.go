package output

import (
	"errors"
	"fmt"
	"strings"

	dcxerrors "github.com/griffithind/dcx/internal/errors"
	"github.com/pterm/pterm"
)

// PrintError writes err's formatted form to the configured error writer.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprint(errWriter(), FormatError(err))
}

// FormatError renders err for display: a category badge and message for a
// *dcxerrors.DCXError, with its cause/hint/context appended, or a plain
// "✗ <message>" for anything else.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var dcxErr *dcxerrors.DCXError
	if errors.As(err, &dcxErr) {
		return formatDCXError(dcxErr)
	}
	return fmt.Sprintf("%s %s\n", pterm.FgRed.Sprint("✗"), err.Error())
}

func formatDCXError(err *dcxerrors.DCXError) string {
	var sb strings.Builder

	badge := pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold).
		Sprintf(" %s ", strings.ToUpper(string(err.Category)))
	sb.WriteString(badge)
	sb.WriteString(" ")
	sb.WriteString(pterm.FgRed.Sprint(err.Message))
	sb.WriteString("\n")

	if err.Cause != nil {
		sb.WriteString(pterm.FgBlue.Sprint("Cause"))
		sb.WriteString(": ")
		sb.WriteString(err.Cause.Error())
		sb.WriteString("\n")
	}

	if len(err.Context) > 0 {
		sb.WriteString(pterm.FgBlue.Sprint("Context"))
		sb.WriteString(":\n")
		for k, v := range err.Context {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", pterm.FgGray.Sprint(k), v))
		}
	}

	if err.Hint != "" {
		sb.WriteString(pterm.FgCyan.Sprint("ℹ"))
		sb.WriteString(" ")
		sb.WriteString(pterm.FgGray.Sprint(err.Hint))
		sb.WriteString("\n")
	}

	return sb.String()
}
