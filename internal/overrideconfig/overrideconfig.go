// Package overrideconfig synthesizes the throwaway devcontainer.json that dcx
// actually hands to the devcontainer CLI. It never rewrites the workspace's
// own config on disk: it copies the resolved config's bytes, injects the
// fields dcx needs to control (workspaceMount/workspaceFolder pointed at the
// bindfs relay, plus a few optional Colima/host-tooling extras), and writes
// the result to a process-scoped temp file that the orchestrator passes to
// `devcontainer` via --override-config.
package overrideconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/griffithind/dcx/internal/config"
	"github.com/griffithind/dcx/internal/parse"
	"github.com/griffithind/dcx/internal/util"
)

// Options carries everything the synthesizer needs beyond the base config.
type Options struct {
	// RelayPath is the bindfs relay directory that now holds the workspace's
	// bind-mounted contents; it becomes workspaceMount's source.
	RelayPath string
	// WorkspacePath is the original workspace directory; it becomes
	// workspaceMount's target and the literal value of workspaceFolder.
	WorkspacePath string
	// HostMounts are additional host-side directories (e.g. ones Colima
	// advertises as already shared into the VM) appended to the config's
	// mounts array as source==target bind mounts, skipping any already
	// present.
	HostMounts []string
	// ContainerEnv holds environment variables appended to containerEnv
	// only when the base config doesn't already set them.
	ContainerEnv map[string]string
	// NetworkMode, when non-empty, is stamped onto the container as the
	// dcx.network-mode label via a --label entry appended to runArgs, so
	// up's reuse check can read it back without remembering anything
	// across invocations. `dcx status` does not read it.
	NetworkMode string
}

// Synthesized is the result of a successful Synthesize call.
type Synthesized struct {
	// Path is the temp file the orchestrator should pass to
	// `devcontainer ... --override-config <Path>`.
	Path string
	// Cleanup removes the temp file. Callers must invoke it on every exit
	// path, including after an interrupt.
	Cleanup func()
	// Warning is non-empty when Synthesize had to fall back to a minimal
	// standalone config because the base config couldn't be read.
	Warning string
}

// Synthesize builds the override config for loaded (which may be nil if the
// base config was unreadable, in which case a minimal standalone config is
// produced instead) and writes it to a unique temp file.
func Synthesize(loaded *config.Loaded, opts Options) (*Synthesized, error) {
	body, warning := buildBody(loaded, opts)

	path, cleanup, err := writeTempFile(body)
	if err != nil {
		return nil, err
	}

	return &Synthesized{Path: path, Cleanup: cleanup, Warning: warning}, nil
}

// buildBody returns the final override-config bytes and, if the base config
// was missing or unusable, a warning describing the fallback taken.
func buildBody(loaded *config.Loaded, opts Options) (string, string) {
	if loaded == nil {
		return minimalConfig(opts), "base devcontainer config unavailable; using a minimal standalone override config"
	}

	existing, err := decodeExisting(loaded.Stripped)
	if err != nil {
		return minimalConfig(opts), fmt.Sprintf("base devcontainer config at %s is not valid JSON after comment stripping (%v); using a minimal standalone override config", loaded.Path, err)
	}

	injection, warning := buildInjection(existing, opts)
	merged, err := insertBeforeFinalBrace(string(loaded.Stripped), injection)
	if err != nil {
		return minimalConfig(opts), fmt.Sprintf("base devcontainer config at %s is malformed (%v); using a minimal standalone override config", loaded.Path, err)
	}
	return merged, warning
}

// decodeExisting parses just enough of the base config to decide what
// mounts/containerEnv entries already exist. The synthesized output stays
// string-level (the original bytes plus an insertion) — this parse is only
// used to make merge decisions, never to reformat the file.
func decodeExisting(stripped []byte) (map[string]any, error) {
	var m map[string]any
	if len(strings.TrimSpace(string(stripped))) == 0 {
		return map[string]any{}, nil
	}
	if err := json.Unmarshal(stripped, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// buildInjection returns the comma-joined "key": value fragments to insert
// before the base config's final closing brace, plus a warning that's
// non-empty when the base config's own runArgs already pins a Docker network
// mode that the dcx.network-mode label would otherwise misreport.
func buildInjection(existing map[string]any, opts Options) (string, string) {
	fields := []string{
		fmt.Sprintf("%q: %s", "workspaceMount", mustJSON(workspaceMountString(opts))),
		fmt.Sprintf("%q: %s", "workspaceFolder", mustJSON(opts.WorkspacePath)),
	}

	if mounts := mergedMounts(existing, opts.HostMounts); len(mounts) > 0 {
		fields = append(fields, fmt.Sprintf("%q: %s", "mounts", mustJSON(mounts)))
	}

	if env := mergedContainerEnv(existing, opts.ContainerEnv); len(env) > 0 {
		fields = append(fields, fmt.Sprintf("%q: %s", "containerEnv", mustJSON(env)))
	}

	args, warning := mergedRunArgs(existing, opts.NetworkMode)
	if len(args) > 0 {
		fields = append(fields, fmt.Sprintf("%q: %s", "runArgs", mustJSON(args)))
	}

	return strings.Join(fields, ", "), warning
}

func workspaceMountString(opts Options) string {
	return fmt.Sprintf("source=%s,target=%s,type=bind", opts.RelayPath, opts.WorkspacePath)
}

// networkModeLabelArg renders the runArgs entry stamping the network-mode
// label, or "" if mode is empty (no label wanted).
func networkModeLabelArg(mode string) string {
	if mode == "" {
		return ""
	}
	return fmt.Sprintf("--label=dcx.network-mode=%s", mode)
}

// mergedRunArgs combines the base config's existing runArgs (left
// untouched) with the network-mode label entry, skipping it if already
// present. It parses the existing entries with parse.ParseRunArgs to check
// for a runArgs-level --network/--net flag the base config already sets: if
// one is present, dcx's own label would claim a network mode that the
// container doesn't actually run with, so the label is skipped and a
// warning is returned instead. Returns nil/"" when there's nothing to add
// and nothing pre-existing.
func mergedRunArgs(existing map[string]any, networkMode string) ([]string, string) {
	var raw []string
	if rawAny, ok := existing["runArgs"].([]any); ok {
		for _, a := range rawAny {
			if s, ok := a.(string); ok {
				raw = append(raw, s)
			}
		}
	}

	merged := raw
	warning := ""

	if arg := networkModeLabelArg(networkMode); arg != "" {
		if pinned := parse.ParseRunArgs(raw).NetworkMode; pinned != "" {
			warning = fmt.Sprintf("devcontainer.json already sets --network=%s in runArgs; not stamping dcx.network-mode=%s, since it would misreport the container's actual network", pinned, networkMode)
		} else {
			merged = util.UnionStrings(raw, []string{arg})
		}
	}

	return merged, warning
}

// mergedMounts combines the base config's existing mounts array (left
// untouched) with any hostMounts not already present, as source==target
// bind-mount strings. Equivalence is checked structurally via
// parse.ParseMount (source+target+type) rather than raw string equality, so
// a mount already present under different formatting isn't duplicated.
// Returns nil when there's nothing to add and nothing pre-existing, so the
// caller skips emitting a mounts key entirely.
func mergedMounts(existing map[string]any, hostMounts []string) []string {
	var merged []string
	present := map[string]bool{}

	addIfNew := func(entry string) {
		key := mountKey(entry)
		if present[key] {
			return
		}
		present[key] = true
		merged = append(merged, entry)
	}

	if raw, ok := existing["mounts"].([]any); ok {
		for _, m := range raw {
			if s, ok := m.(string); ok {
				addIfNew(s)
			}
		}
	}

	for _, host := range hostMounts {
		addIfNew(fmt.Sprintf("source=%s,target=%s,type=bind", host, host))
	}

	return merged
}

// mountKey returns the structural identity parse.ParseMount assigns to a
// mount string, falling back to the raw string for anything it can't parse
// (e.g. a bare tmpfs target with no source).
func mountKey(entry string) string {
	if m := parse.ParseMount(entry); m != nil {
		return m.Type + "|" + m.Source + "|" + m.Target
	}
	return entry
}

// mergedContainerEnv combines the base config's existing containerEnv (kept
// as-is) with any wanted vars whose keys aren't already set there. Returns
// nil when there's nothing to add and nothing pre-existing.
func mergedContainerEnv(existing map[string]any, wanted map[string]string) map[string]string {
	merged := map[string]string{}

	if raw, ok := existing["containerEnv"].(map[string]any); ok {
		for k, v := range raw {
			if s, ok := v.(string); ok {
				merged[k] = s
			}
		}
	}

	hadExisting := len(merged) > 0
	added := false
	for k, v := range wanted {
		if _, present := merged[k]; present {
			continue
		}
		merged[k] = v
		added = true
	}

	if !hadExisting && !added {
		return nil
	}
	return merged
}

// minimalConfig produces a standalone devcontainer.json containing only the
// fields dcx requires, used when the workspace's own config can't be read or
// parsed.
func minimalConfig(opts Options) string {
	fields := map[string]any{
		"workspaceMount":  workspaceMountString(opts),
		"workspaceFolder": opts.WorkspacePath,
	}
	if arg := networkModeLabelArg(opts.NetworkMode); arg != "" {
		fields["runArgs"] = []string{arg}
	}
	return string(mustJSON(fields)) + "\n"
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// v is always a string, []string, or map[string]string built above;
		// marshaling those never fails.
		panic(fmt.Sprintf("overrideconfig: unexpected marshal failure: %v", err))
	}
	return b
}

// insertBeforeFinalBrace inserts injection as additional top-level fields
// just before text's final closing brace, adding a leading comma unless the
// brace is empty or the preceding field already ends in one.
func insertBeforeFinalBrace(text, injection string) (string, error) {
	trimmed := strings.TrimRight(text, " \t\r\n")
	if !strings.HasSuffix(trimmed, "}") {
		return "", fmt.Errorf("config does not end in a closing brace")
	}

	insertAt := len(trimmed) - 1
	i := insertAt - 1
	for i >= 0 && isJSONSpace(trimmed[i]) {
		i--
	}

	prefix := ""
	if i >= 0 && trimmed[i] != '{' && trimmed[i] != ',' {
		prefix = ","
	}

	return trimmed[:insertAt] + prefix + injection + trimmed[insertAt:] + "\n", nil
}

func isJSONSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// writeTempFile writes body to a unique, process-scoped file and returns its
// path and a cleanup function that removes it. Every caller must run cleanup
// on every exit path, including after a signal-driven abort.
func writeTempFile(body string) (string, func(), error) {
	pattern := fmt.Sprintf("dcx-override-%s-*.json", uuid.NewString())
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("create override config temp file: %w", err)
	}
	path := f.Name()

	if err := os.Chmod(path, 0o600); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, fmt.Errorf("set override config permissions: %w", err)
	}

	if _, err := f.WriteString(body); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, fmt.Errorf("write override config: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, fmt.Errorf("close override config: %w", err)
	}

	cleanup := func() {
		_ = os.Remove(path)
	}
	return path, cleanup, nil
}
