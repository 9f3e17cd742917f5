package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDCXErrorFormatting(t *testing.T) {
	err := New(CategoryUsage, CodeWorkspaceMissing, "workspace directory does not exist: /tmp/ws")
	assert.Equal(t, "[usage/WORKSPACE_MISSING] workspace directory does not exist: /tmp/ws", err.Error())
}

func TestDCXErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CategoryEnvironment, CodeDockerUnreachable, "docker unreachable")
	assert.Same(t, cause, err.Unwrap())
}

func TestExitCodeMapping(t *testing.T) {
	assert.Equal(t, 1, New(CategoryEnvironment, CodeMountFailed, "x").ExitCode())
	assert.Equal(t, 1, New(CategoryInternal, CodeInternal, "x").ExitCode())
	assert.Equal(t, 2, New(CategoryUsage, CodeWorkspaceMissing, "x").ExitCode())
	assert.Equal(t, 4, New(CategoryUserAbort, CodeAbortRunningContainer, "x").ExitCode())
	assert.Equal(t, 127, New(CategoryPrerequisite, CodePrerequisiteMissing, "x").ExitCode())
}

func TestUserFriendlyIncludesCauseHintAndContext(t *testing.T) {
	err := New(CategoryUsage, CodeConfigMissing, "devcontainer config not found").
		WithCause(errors.New("stat: no such file")).
		WithHint("create a .devcontainer/devcontainer.json").
		WithContext("path", "/project/.devcontainer")

	friendly := err.UserFriendly()
	assert.Contains(t, friendly, "devcontainer config not found")
	assert.Contains(t, friendly, "stat: no such file")
	assert.Contains(t, friendly, "create a .devcontainer/devcontainer.json")
	assert.Contains(t, friendly, "path: /project/.devcontainer")
}

func TestCloneIsIndependent(t *testing.T) {
	original := New(CategoryUsage, CodeConfigMissing, "not found").WithContext("key", "value")
	clone := original.Clone()

	clone.Message = "modified"
	clone.Context["key"] = "modified"
	clone.Context["new"] = "new"

	assert.Equal(t, "not found", original.Message)
	assert.Equal(t, "value", original.Context["key"])
	_, present := original.Context["new"]
	assert.False(t, present)
}

func TestIsGetCategoryGetCode(t *testing.T) {
	err := New(CategoryUsage, CodeWorkspaceMissing, "not found")

	assert.True(t, Is(err, CodeWorkspaceMissing))
	assert.False(t, Is(err, CodeConfigMissing))
	assert.False(t, Is(errors.New("other"), CodeWorkspaceMissing))

	assert.Equal(t, CategoryUsage, GetCategory(err))
	assert.Equal(t, Category(""), GetCategory(errors.New("other")))

	assert.Equal(t, CodeWorkspaceMissing, GetCode(err))
	assert.Equal(t, "", GetCode(errors.New("other")))
}

func TestAsDCXErrorThroughWrapping(t *testing.T) {
	inner := New(CategoryUsage, CodeWorkspaceMissing, "not found")
	outer := Wrap(inner, CategoryInternal, CodeInternal, "higher level failure")

	var target *DCXError
	require := assert.New(t)
	require.True(errors.As(outer, &target))
	require.Equal(CodeInternal, target.Code)

	result, ok := AsDCXError(inner)
	require.True(ok)
	require.Same(inner, result)
}

func TestConstructors(t *testing.T) {
	t.Run("DockerUnreachable", func(t *testing.T) {
		err := DockerUnreachable(errors.New("dial unix: no such file"))
		assert.Equal(t, CategoryEnvironment, err.Category)
		assert.Equal(t, 1, err.ExitCode())
		assert.NotEmpty(t, err.Hint)
	})

	t.Run("AntiRecursion", func(t *testing.T) {
		err := AntiRecursion("/home/u/.colima-mounts/dcx-ws-abcd1234/sub", "/home/u/.colima-mounts")
		assert.Equal(t, CategoryUsage, err.Category)
		assert.Equal(t, "/home/u/.colima-mounts", err.Context["relay_root"])
	})

	t.Run("HashCollision", func(t *testing.T) {
		err := HashCollision("/tmp/ws1/myproj", "/tmp/ws2/myproj")
		assert.Contains(t, err.Message, "/tmp/ws1/myproj")
		assert.Contains(t, err.Message, "/tmp/ws2/myproj")
		assert.Equal(t, 2, err.ExitCode())
	})

	t.Run("AbortRunningContainer", func(t *testing.T) {
		err := AbortRunningContainer()
		assert.Equal(t, 4, err.ExitCode())
	})

	t.Run("PrerequisiteMissing", func(t *testing.T) {
		err := PrerequisiteMissing("bindfs")
		assert.Equal(t, 127, err.ExitCode())
		assert.Equal(t, "bindfs", err.Context["binary"])
	})
}

func TestChildExitError(t *testing.T) {
	err := &ChildExitError{Code: 17}
	assert.Equal(t, "child process exited with status 17", err.Error())
}
