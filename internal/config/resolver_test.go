package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, rel, content string) string {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}

func TestResolveAutoDetectsDevcontainerDir(t *testing.T) {
	dir := t.TempDir()
	want := writeConfig(t, dir, ".devcontainer/devcontainer.json", `{"image": "ubuntu"}`)

	got, err := Resolve(dir, "")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveAutoDetectsFlatFile(t *testing.T) {
	dir := t.TempDir()
	want := writeConfig(t, dir, ".devcontainer.json", `{"image": "ubuntu"}`)

	got, err := Resolve(dir, "")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveExplicitFlagWins(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".devcontainer/devcontainer.json", `{"image": "ubuntu"}`)
	want := writeConfig(t, dir, "custom/devcontainer.json", `{"image": "alpine"}`)

	got, err := Resolve(dir, "custom/devcontainer.json")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveEnvVarOverridesAutoDetect(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".devcontainer/devcontainer.json", `{"image": "ubuntu"}`)
	want := writeConfig(t, dir, "env-config.json", `{"image": "alpine"}`)

	t.Setenv(EnvConfigPath, want)
	got, err := Resolve(dir, "")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveMissingConfigIsError(t *testing.T) {
	dir := t.TempDir()
	_, err := Resolve(dir, "")
	assert.Error(t, err)
}

func TestResolveExplicitMissingIsError(t *testing.T) {
	dir := t.TempDir()
	_, err := Resolve(dir, "nope/devcontainer.json")
	assert.Error(t, err)
}

func TestLoadStripsComments(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".devcontainer/devcontainer.json", "{\n  // a comment\n  \"image\": \"ubuntu\",\n}\n")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, string(loaded.Raw), "// a comment")
	assert.NotContains(t, string(loaded.Stripped), "//")
}
