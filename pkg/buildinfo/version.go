// Package buildinfo reports the version of the running binary.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/stitchgrid/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/stitchgrid/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/stitchgrid/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries built with go install carry no ldflags; their module version and
// VCS stamp are read from the embedded build info instead.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Build stamp. Unset values keep their placeholder.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fill(info)
	}
}

// fill replaces unstamped variables with values from info.
func fill(info *debug.BuildInfo) {
	if v := info.Main.Version; Version == "dev" && v != "" && v != "(devel)" {
		Version = v
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// String returns version, commit and build date on separate lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template, printed by --version.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}
