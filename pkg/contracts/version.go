// Package contracts carries the version identity shared by the API, the
// CLI, and the health endpoint.
package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current application version.
	Version = "0.3.0"

	// APIVersion is the HTTP and websocket contract version.
	APIVersion = "v1"
)

// Set at build time via -ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo is the full build identity reported by the version
// endpoint and the CLI version command.
type VersionInfo struct {
	Version      string `json:"version"`
	APIVersion   string `json:"api_version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
}

// GetVersionInfo returns the build identity of the running binary.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		APIVersion:   APIVersion,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
	}
}

// String renders the version for log banners.
func (v VersionInfo) String() string {
	return fmt.Sprintf("tabiq %s (api %s, %s, %s/%s)",
		v.Version, v.APIVersion, v.GoVersion, v.OS, v.Architecture)
}
