// Package version reports the build version of the draft planner binaries.
// Set it at build time with:
//
//	go build -ldflags "-X github.com/ramonehamilton/moba-draft/internal/version.Version=v1.2.3"
package version

import "runtime/debug"

// Version defaults to "dev" and is overridden with ldflags for releases.
var Version = "dev"

// String returns Version, falling back to the module version recorded by
// `go install` when no ldflags were given.
func String() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
