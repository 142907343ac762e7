package version

import (
	"testing"

	"github.com/fatih/color"
)

func restore(t *testing.T) {
	t.Helper()
	v, c, d := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = v, c, d
	})
}

func TestDefaultVersionIsPlain(t *testing.T) {
	if Version == "" {
		t.Fatal("Version should have a default value")
	}
	for _, r := range Version {
		if r == 0x1b {
			t.Fatalf("Version must not carry escape codes: %q", Version)
		}
	}
}

func TestString(t *testing.T) {
	restore(t)
	cases := []struct {
		version, commit, date string
		want                  string
	}{
		{"1.2.3", "", "", "tomlfmt 1.2.3"},
		{"1.2.3", "1234567890abcdef1234", "", "tomlfmt 1.2.3 (1234567890ab)"},
		{"1.2.3", "abc", "2026-01-15", "tomlfmt 1.2.3 (abc) built 2026-01-15"},
		{" 0.1.0-dev\n", "", "", "tomlfmt 0.1.0-dev"},
	}
	for _, tc := range cases {
		Version, GitCommit, BuildDate = tc.version, tc.commit, tc.date
		if got := String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestColoredWithoutColor(t *testing.T) {
	restore(t)
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	for _, v := range []string{"0.1.0-dev", "1.2.3+build.5", "1.2", "nightly"} {
		Version = v
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}
