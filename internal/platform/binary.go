// Package platform provides small host-probing helpers dcx's doctor command
// uses to confirm external prerequisites are actually usable, not just
// present on PATH.
package platform

import "os/exec"

// HasBinary reports whether name resolves on PATH and runs to completion
// with versionFlag (e.g. "--version", "-V", "status"). A binary that's
// merely on PATH but fails to run (missing shared libs, wrong arch) still
// counts as absent for dcx's purposes.
func HasBinary(name, versionFlag string) bool {
	path, err := exec.LookPath(name)
	if err != nil {
		return false
	}
	return exec.Command(path, versionFlag).Run() == nil
}
