package orchestrator

import "context"

// KnownSubcommands is the set of subcommand names dcx recognizes itself;
// anything else is forwarded verbatim to the devcontainer CLI.
var KnownSubcommands = map[string]bool{
	"up":          true,
	"exec":        true,
	"down":        true,
	"clean":       true,
	"status":      true,
	"doctor":      true,
	"completions": true,
}

// PassThrough forwards an unrecognized subcommand and its arguments to the
// devcontainer CLI verbatim, including signal forwarding, and returns its
// exit code unchanged — dcx never reinterprets or remaps it.
func (o *Orchestrator) PassThrough(ctx context.Context, args []string) (int, error) {
	if err := o.checkPrerequisite(DevcontainerBin, "--version"); err != nil {
		return 0, err
	}
	exitCode, err := runChildForwardingSignals(ctx, o.Stdin, o.Stdout, o.Stderr, nil, DevcontainerBin, args...)
	if err != nil {
		return 0, err
	}
	return exitCode, nil
}
