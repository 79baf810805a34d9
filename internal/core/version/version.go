// Package version carries the build metadata stamped into the binary.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time via -ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Info is the resolved build metadata.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Built     string `json:"built"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the build metadata for the running binary.
func Get() Info {
	return Info{
		Version:   version,
		Commit:    commit,
		Built:     buildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Short returns just the version string.
func Short() string {
	return version
}

func (i Info) String() string {
	return fmt.Sprintf("lightsail-deploy %s (commit %s, built %s)", i.Version, i.Commit, i.Built)
}
