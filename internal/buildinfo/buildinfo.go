package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags "-X lumen/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for logs and the window title.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if c := commit(); c != "" {
		return c
	}
	return "dev"
}

// String is the full line printed by `lumen version`.
func String() string {
	c := commit()
	if c == "" {
		c = "unknown"
	}
	return fmt.Sprintf("lumen %s (commit %s, built %s)", Version, c, Date)
}

// commit prefers the linker-provided commit and falls back to the VCS
// revision recorded by the go tool.
func commit() string {
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}
