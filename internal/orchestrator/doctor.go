package orchestrator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/google/uuid"
	"github.com/griffithind/dcx/internal/mountdriver"
	"github.com/griffithind/dcx/internal/output"
	"github.com/griffithind/dcx/internal/platform"
)

// doctorCheck is one line of `dcx doctor`'s report: a name, whether it
// passed, and a fix hint shown only on failure.
type doctorCheck struct {
	name string
	pass bool
	hint string
}

// Doctor implements `dcx doctor`: a fixed list of side-effect-free checks,
// each printed as a ✓/✗ line. Any failure makes the command exit 1; all
// passing exits 0. None of these checks mutate anything outside the probe
// file doctor itself creates and deletes inside the VM, except that the
// in-VM probe runs `mkdir -p` on the relay directory, creating it if absent.
func (o *Orchestrator) Doctor(ctx context.Context) error {
	checks := []doctorCheck{
		checkBinary("bindfs", "bindfs", "-V",
			"Install bindfs: `brew install bindfs` (macOS) or your distro's bindfs package (Linux)."),
		checkBinary("devcontainer CLI", DevcontainerBin, "--version",
			"Install the devcontainer CLI: `npm install -g @devcontainers/cli`."),
		o.checkDocker(ctx),
		checkBinary("Colima", "colima", "status",
			"Start Colima: `colima start`."),
		checkBinary(mountdriver.UnmountToolName+" (unmount tool)", mountdriver.UnmountToolName, "--help",
			unmountToolHint()),
		o.checkRelayDir(),
		o.checkRelayDirInVM(ctx),
	}

	allPassed := true
	for _, c := range checks {
		outcome := output.CheckPass
		if !c.pass {
			outcome = output.CheckFail
			allPassed = false
		}
		output.PrintCheck(c.name, outcome, c.hint)
	}

	if !allPassed {
		return &doctorFailure{}
	}
	return nil
}

// doctorFailure signals doctor's all-checks-failed-some exit path (1)
// without going through the DCXError taxonomy: doctor's checks are
// advisory diagnostics, not the structured failures the rest of dcx
// reports, and it never carries a cause or hint beyond what was already
// printed per-check.
type doctorFailure struct{}

func (e *doctorFailure) Error() string { return "one or more doctor checks failed" }

func checkBinary(name, binary, versionFlag, hint string) doctorCheck {
	if !platform.HasBinary(binary, versionFlag) {
		return doctorCheck{name: name, pass: false, hint: hint}
	}
	return doctorCheck{name: name, pass: true}
}

func (o *Orchestrator) checkDocker(ctx context.Context) doctorCheck {
	if err := o.Docker.Info(ctx); err != nil {
		return doctorCheck{
			name: "Docker daemon reachable",
			pass: false,
			hint: "Start Colima (`colima start`) and confirm Docker is reachable with `docker info`.",
		}
	}
	return doctorCheck{name: "Docker daemon reachable", pass: true}
}

func unmountToolHint() string {
	if runtime.GOOS == "darwin" {
		return "umount ships with macOS; check your PATH."
	}
	return "Install fuse/fusermount: your distro's fuse or fuse3 package."
}

func (o *Orchestrator) checkRelayDir() doctorCheck {
	info, err := os.Stat(o.RelayDir())
	if err != nil {
		if os.IsNotExist(err) {
			// Auto-created on first use; its absence isn't a failure.
			return doctorCheck{name: "relay directory exists", pass: true}
		}
		return doctorCheck{
			name: "relay directory exists",
			pass: false,
			hint: fmt.Sprintf("Check permissions on %s.", o.RelayDir()),
		}
	}
	if !info.IsDir() {
		return doctorCheck{
			name: "relay directory exists",
			pass: false,
			hint: fmt.Sprintf("%s exists but is not a directory.", o.RelayDir()),
		}
	}
	return doctorCheck{name: "relay directory exists", pass: true}
}

// checkRelayDirInVM probes that the relay directory is visible and
// writable from inside the Colima VM, where bindfs and the devcontainer
// daemon actually run, by creating and deleting a uniquely-named file
// through `colima ssh`.
func (o *Orchestrator) checkRelayDirInVM(ctx context.Context) doctorCheck {
	const name = "relay directory visible inside Colima VM"
	hint := "Check Colima's volume mounts include your home directory: `colima start --mount $HOME:w`."

	probePath := o.RelayDir() + "/.dcx-doctor-" + uuid.NewString()
	createCmd := exec.CommandContext(ctx, "colima", "ssh", "--", "sh", "-c",
		fmt.Sprintf("mkdir -p %q && touch %q", o.RelayDir(), probePath))
	if err := createCmd.Run(); err != nil {
		return doctorCheck{name: name, pass: false, hint: hint}
	}
	removeCmd := exec.CommandContext(ctx, "colima", "ssh", "--", "rm", "-f", probePath)
	if err := removeCmd.Run(); err != nil {
		return doctorCheck{name: name, pass: false, hint: hint}
	}
	return doctorCheck{name: name, pass: true}
}
