package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandHasExpectedSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"up", "exec", "down", "clean", "status", "doctor", "completions"} {
		assert.True(t, names[want], "expected subcommand %q to be registered", want)
	}
}

func TestUpFlagsRegistered(t *testing.T) {
	for _, name := range []string{"network", "dry-run", "yes"} {
		assert.NotNil(t, upCmd.Flags().Lookup(name), "up should have a --%s flag", name)
	}
}

func TestCleanFlagsRegistered(t *testing.T) {
	for _, name := range []string{"all", "purge", "dry-run", "yes"} {
		assert.NotNil(t, cleanCmd.Flags().Lookup(name), "clean should have a --%s flag", name)
	}
}

func TestExecRequiresACommand(t *testing.T) {
	assert.Error(t, execCmd.Args(execCmd, nil))
}

func TestCompletionsRejectsUnknownShell(t *testing.T) {
	assert.Error(t, completionsCmd.Args(completionsCmd, []string{"powershell"}))
}
