// Package version reports the build version of the binary.
package version

import (
	"runtime/debug"
)

var (
	// Version is the module version, or "devel" for local builds. It may be
	// set with -ldflags "-X".
	Version = "devel"
	// Revision is the VCS revision the binary was built from.
	Revision = "unknown"
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "devel" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && Revision == "unknown" {
			Revision = s.Value
		}
	}
}

// String returns the version and revision.
func String() string {
	return Version + "+" + Revision
}
