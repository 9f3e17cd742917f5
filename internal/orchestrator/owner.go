package orchestrator

import (
	"os"
	"syscall"
)

// ownedByCurrentUser reports whether path's on-disk owner matches the
// process's effective UID. Used by `up` to decide whether to prompt before
// mounting someone else's workspace into the relay.
func ownedByCurrentUser(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		// Platforms without a POSIX stat (never hit on Linux/macOS, the
		// only supported targets) are treated as owned to avoid spurious
		// prompts.
		return true, nil
	}
	return int(stat.Uid) == os.Geteuid(), nil
}
