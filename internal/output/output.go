// Package output renders dcx's terminal output: step markers on stderr,
// the status table, doctor check lines, and confirmation prompts. It wraps
// pterm, matching the conventions of a teacher package it replaces.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// Config controls global output behavior.
type Config struct {
	Quiet     bool
	NoColor   bool
	Writer    io.Writer
	ErrWriter io.Writer
}

var (
	config   Config
	configMu sync.Mutex
)

func init() {
	config = Config{Writer: os.Stdout, ErrWriter: os.Stderr}
}

// Configure installs the global output configuration. Called once at
// startup from the resolved --quiet/--no-color flags.
func Configure(cfg Config) {
	configMu.Lock()
	defer configMu.Unlock()

	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.ErrWriter == nil {
		cfg.ErrWriter = os.Stderr
	}
	config = cfg

	if cfg.NoColor || !IsTerminal(cfg.ErrWriter) {
		pterm.DisableColor()
	} else {
		pterm.EnableColor()
	}
	pterm.SetDefaultOutput(cfg.ErrWriter)
}

// IsTerminal reports whether w is an interactive terminal. Configure uses it
// so non-terminal destinations (pipes, files, the test harness) never get
// color; Confirm does not consult it.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func isQuiet() bool {
	configMu.Lock()
	defer configMu.Unlock()
	return config.Quiet
}

func errWriter() io.Writer {
	configMu.Lock()
	defer configMu.Unlock()
	return config.ErrWriter
}

func writer() io.Writer {
	configMu.Lock()
	defer configMu.Unlock()
	return config.Writer
}

// Step prints a single progress marker to stderr: "→ <phrase>", with the
// phrase written exactly as given (no ellipsis is appended). Every
// orchestrator operation announces its steps this way; the final one on
// success is always Done.
func Step(format string, args ...any) {
	if isQuiet() {
		return
	}
	phrase := fmt.Sprintf(format, args...)
	fmt.Fprintf(errWriter(), "%s %s\n", pterm.FgCyan.Sprint("→"), phrase)
}

// Done prints the final "→ Done." marker.
func Done() {
	Step("Done.")
}

// Warn prints a warning to stderr. Always shown, even in quiet mode,
// because warnings indicate something the caller should know about (a
// best-effort step, like image tagging, that failed silently otherwise).
func Warn(format string, args ...any) {
	fmt.Fprintf(errWriter(), "%s %s\n", pterm.FgYellow.Sprint("warning:"), fmt.Sprintf(format, args...))
}

// Result prints a line of command output to stdout — reserved for actual
// results (the status table, a dry-run plan), never progress.
func Result(format string, args ...any) {
	fmt.Fprintf(writer(), format+"\n", args...)
}

// Confirm prompts the user with a yes/no question on stderr and reads a
// reply from in. Returns false (answered "no") on EOF or any answer other
// than y/yes, so a non-interactive caller that forgot --yes fails closed
// rather than hanging.
func Confirm(in io.Reader, format string, args ...any) bool {
	prompt := fmt.Sprintf(format, args...)
	fmt.Fprintf(errWriter(), "%s %s [y/N] ", pterm.FgYellow.Sprint("?"), prompt)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	reply := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return reply == "y" || reply == "yes"
}
