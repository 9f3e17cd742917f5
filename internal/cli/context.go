package cli

import (
	"context"

	"github.com/griffithind/dcx/internal/orchestrator"
)

type orchestratorKey struct{}

func newOrchestratorContext(o *orchestrator.Orchestrator) context.Context {
	return context.WithValue(context.Background(), orchestratorKey{}, o)
}

// orchestratorFrom recovers the Orchestrator stashed on the command's
// context by Execute, so each subcommand's RunE doesn't need its own
// Docker client and HOME plumbing.
func orchestratorFrom(cmd interface{ Context() context.Context }) *orchestrator.Orchestrator {
	return cmd.Context().Value(orchestratorKey{}).(*orchestrator.Orchestrator)
}
