package mount

import (
	"strconv"
	"strings"
)

// ParseLinuxText parses the classic kernel mounts-file format (one line per
// mount: "source target fstype options dump pass"), the same format exposed
// by /proc/self/mounts. Fields are whitespace separated; the kernel escapes
// literal whitespace and backslashes inside a field using octal escapes
// (e.g. a space becomes "\040"), which this parser reverses.
func ParseLinuxText(data []byte) ([]Entry, error) {
	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		entries = append(entries, Entry{
			Source: unescapeOctal(fields[0]),
			Target: unescapeOctal(fields[1]),
			FSType: fields[2],
		})
	}
	return entries, nil
}

// unescapeOctal reverses the kernel's \NNN octal escaping of whitespace and
// backslash characters within a mount table field.
func unescapeOctal(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// escapeOctal applies the same escaping the kernel does, for tests that
// round-trip Entry values through text.
func escapeOctal(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ':
			b.WriteString("\\040")
		case '\t':
			b.WriteString("\\011")
		case '\n':
			b.WriteString("\\012")
		case '\\':
			b.WriteString("\\134")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// FormatLinuxText renders entries back into the kernel mounts-file format,
// used by tests to build synthetic mount tables and to verify round-tripping.
func FormatLinuxText(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(escapeOctal(e.Source))
		b.WriteByte(' ')
		b.WriteString(escapeOctal(e.Target))
		b.WriteByte(' ')
		b.WriteString(e.FSType)
		b.WriteString(" rw,relatime 0 0\n")
	}
	return b.String()
}

// ParseDarwinText parses the textual output of the macOS `mount` utility:
// one line per mount, of the form
//
//	<source> on <target> (<fstype>, <comma-separated options>)
func ParseDarwinText(data []byte) ([]Entry, error) {
	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		onIdx := strings.Index(line, " on ")
		if onIdx < 0 {
			continue
		}
		source := line[:onIdx]
		rest := line[onIdx+len(" on "):]

		parenIdx := strings.Index(rest, " (")
		var target, fstype string
		if parenIdx < 0 {
			target = strings.TrimSpace(rest)
		} else {
			target = strings.TrimSpace(rest[:parenIdx])
			opts := strings.TrimSuffix(rest[parenIdx+2:], ")")
			parts := strings.SplitN(opts, ",", 2)
			fstype = strings.TrimSpace(parts[0])
		}
		entries = append(entries, Entry{Source: source, Target: target, FSType: fstype})
	}
	return entries, nil
}
