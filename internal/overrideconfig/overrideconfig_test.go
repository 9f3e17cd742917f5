package overrideconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffithind/dcx/internal/config"
)

func writeAndLoad(t *testing.T, content string) *config.Loaded {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "devcontainer.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	loaded, err := config.Load(path)
	require.NoError(t, err)
	return loaded
}

func decode(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestSynthesizeInjectsWorkspaceFields(t *testing.T) {
	loaded := writeAndLoad(t, `{"image": "ubuntu", "forwardPorts": [8080]}`)

	result, err := Synthesize(loaded, Options{RelayPath: "/relay/dcx-ws-abcd1234", WorkspacePath: "/home/dev/ws"})
	require.NoError(t, err)
	defer result.Cleanup()
	assert.Empty(t, result.Warning)

	m := decode(t, result.Path)
	assert.Equal(t, "ubuntu", m["image"])
	assert.Equal(t, float64(8080), m["forwardPorts"].([]any)[0])
	assert.Equal(t, "source=/relay/dcx-ws-abcd1234,target=/home/dev/ws,type=bind", m["workspaceMount"])
	assert.Equal(t, "/home/dev/ws", m["workspaceFolder"])
}

func TestSynthesizeStripsCommentsBeforeInjecting(t *testing.T) {
	loaded := writeAndLoad(t, "{\n  // pinned base image\n  \"image\": \"ubuntu\",\n}\n")

	result, err := Synthesize(loaded, Options{RelayPath: "/relay/dcx-ws-1", WorkspacePath: "/ws"})
	require.NoError(t, err)
	defer result.Cleanup()

	m := decode(t, result.Path)
	assert.Equal(t, "ubuntu", m["image"])
	assert.Equal(t, "/ws", m["workspaceFolder"])
}

func TestSynthesizeAppendsContainerEnvOnlyIfAbsent(t *testing.T) {
	loaded := writeAndLoad(t, `{"containerEnv": {"GIT_CONFIG_GLOBAL": "/already/set"}}`)

	result, err := Synthesize(loaded, Options{
		RelayPath:     "/relay/dcx-ws-1",
		WorkspacePath: "/ws",
		ContainerEnv: map[string]string{
			"GIT_CONFIG_GLOBAL": "/would/be/overwritten",
			"CLAUDE_CONFIG_DIR": "/home/dev/.claude",
		},
	})
	require.NoError(t, err)
	defer result.Cleanup()

	m := decode(t, result.Path)
	env := m["containerEnv"].(map[string]any)
	assert.Equal(t, "/already/set", env["GIT_CONFIG_GLOBAL"], "pre-existing value must not be clobbered")
	assert.Equal(t, "/home/dev/.claude", env["CLAUDE_CONFIG_DIR"], "absent key should be added")
}

func TestSynthesizeDedupesHostMounts(t *testing.T) {
	loaded := writeAndLoad(t, `{"mounts": ["source=/shared,target=/shared,type=bind"]}`)

	result, err := Synthesize(loaded, Options{
		RelayPath:     "/relay/dcx-ws-1",
		WorkspacePath: "/ws",
		HostMounts:    []string{"/shared", "/colima-home"},
	})
	require.NoError(t, err)
	defer result.Cleanup()

	m := decode(t, result.Path)
	mounts := m["mounts"].([]any)
	require.Len(t, mounts, 2)
	assert.Contains(t, mounts, "source=/shared,target=/shared,type=bind")
	assert.Contains(t, mounts, "source=/colima-home,target=/colima-home,type=bind")
}

func TestSynthesizeStampsNetworkModeLabelOnlyIfAbsent(t *testing.T) {
	loaded := writeAndLoad(t, `{"runArgs": ["--label=team=infra"]}`)

	result, err := Synthesize(loaded, Options{
		RelayPath:     "/relay/dcx-ws-1",
		WorkspacePath: "/ws",
		NetworkMode:   "minimal",
	})
	require.NoError(t, err)
	defer result.Cleanup()

	m := decode(t, result.Path)
	args := m["runArgs"].([]any)
	require.Len(t, args, 2)
	assert.Contains(t, args, "--label=team=infra")
	assert.Contains(t, args, "--label=dcx.network-mode=minimal")
}

func TestSynthesizeWarnsInsteadOfStampingLabelWhenRunArgsPinsNetwork(t *testing.T) {
	loaded := writeAndLoad(t, `{"runArgs": ["--network=host"]}`)

	result, err := Synthesize(loaded, Options{
		RelayPath:     "/relay/dcx-ws-1",
		WorkspacePath: "/ws",
		NetworkMode:   "restricted",
	})
	require.NoError(t, err)
	defer result.Cleanup()
	assert.Contains(t, result.Warning, "--network=host")
	assert.Contains(t, result.Warning, "restricted")

	m := decode(t, result.Path)
	args := m["runArgs"].([]any)
	require.Len(t, args, 1, "the label must not be stamped over a runArgs-pinned network")
	assert.Contains(t, args, "--network=host")
}

func TestSynthesizeDedupesMountsByStructureNotRawString(t *testing.T) {
	loaded := writeAndLoad(t, `{"mounts": ["type=bind,source=/shared,target=/shared"]}`)

	result, err := Synthesize(loaded, Options{
		RelayPath:     "/relay/dcx-ws-1",
		WorkspacePath: "/ws",
		HostMounts:    []string{"/shared"},
	})
	require.NoError(t, err)
	defer result.Cleanup()

	m := decode(t, result.Path)
	mounts := m["mounts"].([]any)
	require.Len(t, mounts, 1, "differently-ordered but equivalent mount spec must not be duplicated")
}

func TestSynthesizeOmitsRunArgsWhenNoNetworkModeRequested(t *testing.T) {
	loaded := writeAndLoad(t, `{"image": "ubuntu"}`)

	result, err := Synthesize(loaded, Options{RelayPath: "/relay/dcx-ws-1", WorkspacePath: "/ws"})
	require.NoError(t, err)
	defer result.Cleanup()

	m := decode(t, result.Path)
	_, hasRunArgs := m["runArgs"]
	assert.False(t, hasRunArgs)
}

func TestSynthesizeFallsBackToMinimalConfigWhenBaseUnreadable(t *testing.T) {
	result, err := Synthesize(nil, Options{RelayPath: "/relay/dcx-ws-1", WorkspacePath: "/ws"})
	require.NoError(t, err)
	defer result.Cleanup()
	assert.NotEmpty(t, result.Warning)

	m := decode(t, result.Path)
	assert.Equal(t, "/ws", m["workspaceFolder"])
	assert.Equal(t, "source=/relay/dcx-ws-1,target=/ws,type=bind", m["workspaceMount"])
	assert.Len(t, m, 2)
}

func TestSynthesizeFallsBackOnMalformedBase(t *testing.T) {
	loaded := writeAndLoad(t, `{"image": "ubuntu"`) // missing closing brace

	result, err := Synthesize(loaded, Options{RelayPath: "/relay/dcx-ws-1", WorkspacePath: "/ws"})
	require.NoError(t, err)
	defer result.Cleanup()
	assert.NotEmpty(t, result.Warning)

	m := decode(t, result.Path)
	assert.Equal(t, "/ws", m["workspaceFolder"])
}

func TestWriteTempFileProducesUniquePaths(t *testing.T) {
	loaded := writeAndLoad(t, `{}`)

	a, err := Synthesize(loaded, Options{RelayPath: "/relay/a", WorkspacePath: "/ws"})
	require.NoError(t, err)
	defer a.Cleanup()

	b, err := Synthesize(loaded, Options{RelayPath: "/relay/b", WorkspacePath: "/ws"})
	require.NoError(t, err)
	defer b.Cleanup()

	assert.NotEqual(t, a.Path, b.Path)
}
