// Package version provides build information for the nescore emulator.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Set at build time via -ldflags.
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// BuildInfo contains detailed build information.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// GetBuildInfo collects the ldflags values plus whatever the Go module
// metadata recorded.
func GetBuildInfo() BuildInfo {
	buildInfo := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if buildInfo.GitCommit == "unknown" {
					buildInfo.GitCommit = setting.Value
				}
			case "vcs.time":
				if buildInfo.BuildTime == "unknown" {
					buildInfo.BuildTime = setting.Value
				}
			}
		}
	}

	return buildInfo
}

// GetVersion returns a short version string.
func GetVersion() string {
	if Version == "dev" {
		buildInfo := GetBuildInfo()
		if buildInfo.GitCommit != "unknown" && len(buildInfo.GitCommit) >= 7 {
			return fmt.Sprintf("dev-%s", buildInfo.GitCommit[:7])
		}
	}
	return Version
}

// GetDetailedVersion returns a one-line description of the build.
func GetDetailedVersion() string {
	buildInfo := GetBuildInfo()

	versionStr := fmt.Sprintf("nescore version %s", buildInfo.Version)
	if buildInfo.GitCommit != "unknown" && len(buildInfo.GitCommit) >= 7 {
		versionStr += fmt.Sprintf(" (commit %s)", buildInfo.GitCommit[:7])
	}
	if buildInfo.BuildTime != "unknown" {
		versionStr += fmt.Sprintf(" built %s", buildInfo.BuildTime)
	}
	versionStr += fmt.Sprintf(" with %s for %s/%s", buildInfo.GoVersion, buildInfo.Platform, buildInfo.Arch)
	return versionStr
}
