package version

import "fmt"

var (
	Version             string = "v0.1.0" // bumped by hand at each release; SemVer
	GitCommit, GitState string            // set by -ldflags at build time
	BuildDate           string            // set by -ldflags at build time
)

func ToDetailVersion() string {
	return fmt.Sprintf("version=%s git=%s build=%s", Version, GitCommit, BuildDate)
}
