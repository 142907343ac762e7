// Package version holds build metadata for the tomlfmt binary. The
// variables are overridable at link time:
//
//	go build -ldflags "-X tomlfmt/internal/version.GitCommit=$(git rev-parse HEAD)" ./cmd/tomlfmt
package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the formatter. It is part of the
	// formatting cache key, so releases never reuse each other's entries.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with its major, minor and patch parts in
// distinct colors; anything after the patch number is left plain.
// fatih/color drops the escapes itself when color is disabled.
func Colored() string {
	v := strings.TrimSpace(Version)
	core, suffix := v, ""
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		core, suffix = v[:i], v[i:]
	}
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return v
	}
	return majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2]) + suffix
}

// String returns a one-line description including the optional metadata.
func String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "tomlfmt %s", strings.TrimSpace(Version))
	if c := strings.TrimSpace(GitCommit); c != "" {
		if len(c) > 12 {
			c = c[:12]
		}
		fmt.Fprintf(&sb, " (%s)", c)
	}
	if d := strings.TrimSpace(BuildDate); d != "" {
		fmt.Fprintf(&sb, " built %s", d)
	}
	return sb.String()
}
