package naming

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeCharset(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"myproj", "myproj"},
		{"my.project.foo", "my-project-foo"},
		{"with spaces", "with-spaces"},
		{"MixedCase_Name", "MixedCase-Name"},
		{"", ""},
		{"héllo", "h-llo"},
	}
	for _, c := range cases {
		got := Sanitize(c.in)
		assert.Equal(t, c.want, got, "Sanitize(%q)", c.in)
		for _, r := range got {
			assert.True(t, (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-',
				"unexpected rune %q in sanitized output", r)
		}
	}
}

func TestSanitizeTruncates(t *testing.T) {
	long := strings.Repeat("a", 50)
	got := Sanitize(long)
	assert.Len(t, got, maxSanitizedLen)
}

func TestHashShape(t *testing.T) {
	h := Hash("/tmp/ws1/myproj")
	require.Len(t, h, hashLen)
	for _, r := range h {
		assert.True(t, (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f'))
	}
}

func TestHashDeterministic(t *testing.T) {
	a := Hash("/tmp/ws1/myproj")
	b := Hash("/tmp/ws1/myproj")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Hash("/tmp/ws1/other"))
}

func TestMountNameScenario1(t *testing.T) {
	// Scenario from spec.md §8.1: W = /tmp/ws1/myproj.
	name := MountName("/tmp/ws1/myproj")
	assert.True(t, strings.HasPrefix(name, "dcx-myproj-"))
	hash := strings.TrimPrefix(name, "dcx-myproj-")
	assert.Len(t, hash, hashLen)
}

func TestMountNameDottedBasename(t *testing.T) {
	// Scenario from spec.md §8.3.
	name := MountName("/tmp/my.project.foo")
	assert.True(t, strings.HasPrefix(name, "dcx-my-project-foo-"))
}

func TestMountNameNoEmptyNameSpecialCase(t *testing.T) {
	name := MountName("/")
	// basename("/") is "/", sanitized to "-".
	assert.True(t, strings.HasPrefix(name, "dcx--"))
}

func TestRelayPath(t *testing.T) {
	p := RelayPath("/home/u", "/tmp/ws1/myproj")
	assert.True(t, strings.HasPrefix(p, "/home/u/.colima-mounts/dcx-myproj-"))
}

func TestIsManaged(t *testing.T) {
	assert.True(t, IsManaged("dcx-myproj-abcd1234"))
	assert.False(t, IsManaged("other-dir"))
	assert.False(t, IsManaged("dcx-"))
}

func TestBaseImageTag(t *testing.T) {
	assert.Equal(t, "dcx-base:dcx-myproj-abcd1234", BaseImageTag("dcx-myproj-abcd1234"))
}
