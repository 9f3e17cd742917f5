// Package mount reads the OS mount table and answers the narrow set of
// questions the workspace state classifier needs: is there a mount at this
// target, is it a FUSE/bindfs mount, and what is its source. The kernel is
// the only source of truth here; nothing is cached.
package mount

import (
	"fmt"
	"strings"
)

// Entry is one observed row of the OS mount table.
type Entry struct {
	Source string
	Target string
	FSType string
}

// Table is a parsed snapshot of the mount table, ready for the state
// classifier to query. It never outlives a single command invocation.
type Table struct {
	entries []Entry
}

// NewTable builds a Table from already-parsed entries. Exported mainly for
// tests that want to inject a synthetic table without going through Parse.
func NewTable(entries []Entry) *Table {
	return &Table{entries: entries}
}

// Entries returns the raw entries backing the table.
func (t *Table) Entries() []Entry {
	return t.entries
}

// SourceOf returns the source path mounted at target, and whether any mount
// exists there at all.
func (t *Table) SourceOf(target string) (string, bool) {
	target = strings.TrimSuffix(target, "/")
	for i := len(t.entries) - 1; i >= 0; i-- {
		e := t.entries[i]
		if strings.TrimSuffix(e.Target, "/") == target {
			return e.Source, true
		}
	}
	return "", false
}

// IsBindfs reports whether the mount at target (if any) is a FUSE/bindfs
// mount, per the fstype the OS reports.
func (t *Table) IsBindfs(target string) bool {
	target = strings.TrimSuffix(target, "/")
	for i := len(t.entries) - 1; i >= 0; i-- {
		e := t.entries[i]
		if strings.TrimSuffix(e.Target, "/") == target {
			return isFuseType(e.FSType)
		}
	}
	return false
}

func isFuseType(fstype string) bool {
	lower := strings.ToLower(fstype)
	return strings.Contains(lower, "fuse") || strings.Contains(lower, "bindfs")
}

// ListDCXMounts returns every entry whose target is directly under relay and
// whose basename begins with the dcx identifier prefix.
func (t *Table) ListDCXMounts(relay string) []Entry {
	relay = strings.TrimSuffix(relay, "/")
	var out []Entry
	for _, e := range t.entries {
		target := strings.TrimSuffix(e.Target, "/")
		dir, name := splitParent(target)
		if dir == relay && isDCXName(name) {
			out = append(out, e)
		}
	}
	return out
}

func isDCXName(name string) bool {
	const prefix = "dcx-"
	return len(name) > len(prefix) && name[:len(prefix)] == prefix
}

func splitParent(path string) (dir, base string) {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return "", path
	}
	if i == 0 {
		return "/", path[1:]
	}
	return path[:i], path[i+1:]
}

// ErrProbe wraps a failure to obtain the mount listing at all. Callers that
// need the mount table to proceed treat this as fatal.
type ErrProbe struct {
	Cause error
}

func (e *ErrProbe) Error() string {
	return fmt.Sprintf("probe error: %v", e.Cause)
}

func (e *ErrProbe) Unwrap() error {
	return e.Cause
}
