// Package main provides the entry point for the dcx CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/griffithind/dcx/internal/cli"
	dcxerrors "github.com/griffithind/dcx/internal/errors"
	"github.com/griffithind/dcx/internal/interrupt"
	"github.com/griffithind/dcx/internal/orchestrator"
)

func main() {
	interrupt.Watch()

	if code, handled := tryPassThrough(); handled {
		os.Exit(code)
	}

	os.Exit(cli.Execute())
}

// tryPassThrough forwards to the devcontainer CLI any subcommand this
// process doesn't recognize itself, before cobra ever sees argv — a
// pass-through subcommand may itself want flags cobra would otherwise
// swallow or reject as unknown.
func tryPassThrough() (code int, handled bool) {
	if len(os.Args) < 2 {
		return 0, false
	}
	first := os.Args[1]
	switch first {
	case "-h", "--help", "-v", "--version":
		return 0, false
	}
	if orchestrator.KnownSubcommands[first] {
		return 0, false
	}

	orch, err := orchestrator.NewFromEnv()
	if err != nil {
		return reportError(err), true
	}
	exitCode, err := orch.PassThrough(context.Background(), os.Args[1:])
	if err != nil {
		return reportError(err), true
	}
	return exitCode, true
}

// reportError prints err's user-facing rendering and returns the process
// exit code it maps to: a DCXError's own code (127 for a missing
// prerequisite, say), or a bare 1 for anything else, such as an
// unwrapped *exec.Error from the child failing to start.
func reportError(err error) int {
	if dcxErr, ok := dcxerrors.AsDCXError(err); ok {
		fmt.Fprint(os.Stderr, dcxErr.UserFriendly())
		return dcxErr.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
