//go:build darwin

package mountdriver

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// UnmountToolName is the platform unmount binary doctor checks for.
const UnmountToolName = "umount"

// platformUnmount invokes umount on macOS, treating "not mounted" as
// success.
func platformUnmount(ctx context.Context, target string) error {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "umount", target)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		if isNotMounted(out.String()) {
			return nil
		}
		return &ErrMount{Output: out.String(), Cause: err}
	}
	return nil
}

func isNotMounted(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "not currently mounted") || strings.Contains(lower, "no such file")
}
