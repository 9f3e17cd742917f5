//go:build linux

package mount

import "os"

const mountsFile = "/proc/self/mounts"

// Probe reads the live Linux mount table.
func Probe() (*Table, error) {
	data, err := os.ReadFile(mountsFile)
	if err != nil {
		return nil, &ErrProbe{Cause: err}
	}
	entries, err := ParseLinuxText(data)
	if err != nil {
		return nil, &ErrProbe{Cause: err}
	}
	return NewTable(entries), nil
}
