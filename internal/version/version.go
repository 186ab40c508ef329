// Package version reports the devterm build version.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/devterm/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/devterm/internal/version.Commit=abc123"
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Commit == "" {
		Commit = vcsCommit()
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// vcsCommit returns the short VCS revision embedded by the go tool, with a
// "-dirty" suffix for modified trees.
func vcsCommit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}

	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision != "" && modified {
		revision += "-dirty"
	}
	return revision
}

// Full returns the version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
