// Package version reports what build of vkdemo is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Overridden with -ldflags "-X github.com/vkngwrapper/vkdemo/internal/version.version=..."
var (
	version = "dev"
	commit  = ""
	date    = ""
)

// GetVersion returns the release version, or "dev" for local builds.
func GetVersion() string {
	return version
}

// GetCommit returns the commit the binary was built from. Without ldflags
// it falls back to the VCS stamp the Go toolchain embeds.
func GetCommit() string {
	if commit != "" {
		return commit
	}
	if rev := buildSetting("vcs.revision"); rev != "" {
		if len(rev) > 12 {
			rev = rev[:12]
		}
		return rev
	}
	return "none"
}

// GetDate returns the build date.
func GetDate() string {
	if date != "" {
		return date
	}
	if t := buildSetting("vcs.time"); t != "" {
		return t
	}
	return "unknown"
}

// GetFullVersion returns version, commit, date and the Go runtime.
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, %s %s/%s)",
		GetVersion(), GetCommit(), GetDate(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func buildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
