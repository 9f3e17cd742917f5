package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRuntimeImageTag(t *testing.T) {
	assert.True(t, isRuntimeImageTag("vsc-myproj-abc123-uid:latest"))
	assert.False(t, isRuntimeImageTag("vsc-myproj-abc123:latest"), "build image without -uid should not match")
	assert.False(t, isRuntimeImageTag("dcx-base:dcx-myproj-abcd1234"))
}

func TestIsBuildImageTag(t *testing.T) {
	assert.True(t, isBuildImageTag("vsc-myproj-abc123:latest"))
	assert.False(t, isBuildImageTag("vsc-myproj-abc123-uid:latest"), "runtime layer should not match the build predicate")
}

func TestIsBaseImageTag(t *testing.T) {
	assert.True(t, isBaseImageTag("dcx-base:dcx-myproj-abcd1234"))
	assert.False(t, isBaseImageTag("vsc-myproj-abc123-uid:latest"))
}
