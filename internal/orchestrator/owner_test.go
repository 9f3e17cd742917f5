package orchestrator

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnedByCurrentUserForFreshTempDir(t *testing.T) {
	dir := t.TempDir()
	owned, err := ownedByCurrentUser(dir)
	require.NoError(t, err)
	assert.True(t, owned, "a directory this process just created should be owned by it")
}

func TestOwnedByCurrentUserMissingPath(t *testing.T) {
	_, err := ownedByCurrentUser("/nonexistent/definitely-not-here")
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
