// Package buildinfo reports which scannable build is running.
//
// Release builds stamp the variables through ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/scannable/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/scannable/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/scannable/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/scannable
package buildinfo

import "fmt"

// Stamped at link time; the defaults mark a local build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// shortCommit is the number of commit hash characters shown to users.
const shortCommit = 12

// Info is the build stamp as served by the /version endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build stamp with the commit hash shortened.
func Get() Info {
	commit := Commit
	if len(commit) > shortCommit {
		commit = commit[:shortCommit]
	}
	return Info{Version: Version, Commit: commit, Date: Date}
}

// String renders the stamp on one line, e.g. "v1.2.0 (3f9a1c2b7d10, 2026-01-02)".
func String() string {
	i := Get()
	return fmt.Sprintf("%s (%s, %s)", i.Version, i.Commit, i.Date)
}

// Template returns the cobra version template for the scannable binary.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}
