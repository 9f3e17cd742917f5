//go:build darwin

package mount

import "os/exec"

// Probe reads the live macOS mount table via the `mount` utility.
func Probe() (*Table, error) {
	out, err := exec.Command("mount").Output()
	if err != nil {
		return nil, &ErrProbe{Cause: err}
	}
	entries, err := ParseDarwinText(out)
	if err != nil {
		return nil, &ErrProbe{Cause: err}
	}
	return NewTable(entries), nil
}
