// Package version holds the build metadata printed by the CLI.
package version

import "runtime/debug"

// Set at build time, e.g.
// go build -ldflags "-X github.com/alexiusacademia/goconn/internal/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	Version   = "0.3.0"
	BuildTime = "unknown"
	GitCommit = "unknown"

	Author = "Alexius Academia"
	Year   = "2025"
)

// String is the one-line version banner. Commit and build time fall back to
// the VCS stamp embedded by the Go toolchain when not set through ldflags.
func String() string {
	commit, built := GitCommit, BuildTime
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && commit == "unknown" && len(s.Value) >= 7:
				commit = s.Value[:7]
			case s.Key == "vcs.time" && built == "unknown":
				built = s.Value
			}
		}
	}
	return "goconn v" + Version + " (" + commit + ", built " + built + ")"
}
