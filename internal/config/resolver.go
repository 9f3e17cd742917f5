// Package config resolves the effective devcontainer.json path for a
// workspace and loads its raw bytes. dcx never parses the devcontainer
// schema itself — that's the devcontainer CLI's job — it only needs the
// file's bytes (and a comment-stripped copy) to synthesize the
// override-config file described in internal/overrideconfig.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// EnvConfigPath is the environment variable naming a default config path,
// overridden by an explicit --config flag.
const EnvConfigPath = "DCX_DEVCONTAINER_CONFIG_PATH"

// candidateLocations are tried, in order, when no explicit or
// environment-provided path is given.
var candidateLocations = []string{
	".devcontainer/devcontainer.json",
	".devcontainer.json",
}

// Resolve determines the effective devcontainer.json path for workspacePath.
// Precedence: explicit (the --config flag value, "" if unset) > the
// DCX_DEVCONTAINER_CONFIG_PATH environment variable > auto-detection of the
// standard locations. explicit and the env var may be relative to
// workspacePath or absolute; auto-detected locations are always relative to
// workspacePath.
//
// An explicit or env-provided path that doesn't exist is an error: the user
// asked for a specific file. Auto-detection failing to find anything is
// also an error — callers treat it as "no devcontainer config" (usage
// error).
func Resolve(workspacePath, explicit string) (string, error) {
	if explicit != "" {
		return resolveGiven(workspacePath, explicit)
	}
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		return resolveGiven(workspacePath, envPath)
	}

	for _, loc := range candidateLocations {
		candidate := filepath.Join(workspacePath, loc)
		if isFile(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no devcontainer.json found in %s (looked in %v)", workspacePath, candidateLocations)
}

func resolveGiven(workspacePath, path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(workspacePath, path)
	}
	if !isFile(path) {
		return "", fmt.Errorf("devcontainer config not found: %s", path)
	}
	return path, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Loaded holds a devcontainer.json's bytes in both their original and
// comment-stripped form.
type Loaded struct {
	Path     string
	Raw      []byte
	Stripped []byte
}

// Load reads the file at path and strips JSONC comments/trailing commas
// from a copy, leaving Raw untouched. The override-config synthesizer
// works from Stripped only (to decode the existing fields and find the
// final brace reliably); Raw keeps the file exactly as read.
func Load(path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &Loaded{
		Path:     path,
		Raw:      data,
		Stripped: jsonc.ToJSON(data),
	}, nil
}
