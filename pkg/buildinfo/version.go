// Package buildinfo exposes the version stamped into dungeongen binaries.
//
// The variables are overridden at link time:
//
//	go build -ldflags "-X github.com/Wesbraak3/Dungeon-Generator/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/Wesbraak3/Dungeon-Generator/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/Wesbraak3/Dungeon-Generator/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build metadata in a form suitable for JSON responses.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build metadata.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String returns the build metadata on three lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns a cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, built %s)\n", Version, Commit, Date)
}
