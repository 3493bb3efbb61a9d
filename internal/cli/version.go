package cli

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/mrz1836/go-template-sync/internal/jsonutil"
	"github.com/mrz1836/go-template-sync/internal/output"
)

const (
	devVersionString = "dev"
	unknownString    = "unknown"
)

// Build information set via ldflags
//
//nolint:gochecknoglobals // Build variables are set via ldflags during compilation
var (
	versionMu sync.RWMutex
	version   = devVersionString
	commit    = unknownString
	buildDate = unknownString
)

// VersionInfo contains version information
type VersionInfo struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	BuildDate  string `json:"build_date"`
	GoVersion  string `json:"go_version"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Prerelease bool   `json:"prerelease"`
}

// createVersionCmd creates the version command
func createVersionCmd(_ *Flags) *cobra.Command {
	var jsonFormat bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build details.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printVersion(newWriter(cmd), GetVersionInfo(), jsonFormat)
		},
	}

	cmd.Flags().BoolVar(&jsonFormat, "json", false, "Output version information in JSON format")
	return cmd
}

// printVersion prints version information as text or JSON
func printVersion(out output.Writer, info VersionInfo, jsonFormat bool) error {
	if jsonFormat {
		data, err := jsonutil.PrettyPrint(info)
		if err != nil {
			return err
		}
		out.Plain(data)
		return nil
	}

	out.Infof("go-template-sync %s", info.Version)
	out.Infof("Commit:     %s", info.Commit)
	out.Infof("Build Date: %s", info.BuildDate)
	out.Infof("Go Version: %s", info.GoVersion)
	out.Infof("Platform:   %s/%s", info.OS, info.Arch)
	return nil
}

// SetVersionInfo allows setting version information programmatically.
// Empty values are ignored.
func SetVersionInfo(v, c, d string) {
	versionMu.Lock()
	defer versionMu.Unlock()
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		buildDate = d
	}
}

// ResetVersionInfo resets the version info to defaults
func ResetVersionInfo() {
	versionMu.Lock()
	defer versionMu.Unlock()
	version = devVersionString
	commit = unknownString
	buildDate = unknownString
}

// GetVersionInfo returns complete version information
func GetVersionInfo() VersionInfo {
	v := getVersionWithFallback()
	normalized, prerelease := normalizeVersion(v)

	return VersionInfo{
		Version:    normalized,
		Commit:     getCommitWithFallback(),
		BuildDate:  getBuildDateWithFallback(),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Prerelease: prerelease,
	}
}

// normalizeVersion renders semantic versions with a leading "v" and reports
// prereleases. Anything that is not a semantic version is returned unchanged.
func normalizeVersion(v string) (string, bool) {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return v, false
	}
	return "v" + sv.String(), sv.Prerelease() != ""
}

// getVersionWithFallback returns the ldflags version, then the module version, then the VCS revision
func getVersionWithFallback() string {
	versionMu.RLock()
	v := version
	versionMu.RUnlock()
	if v != devVersionString && v != "" {
		return v
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		// go install @version
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
		if rev := buildSetting(info, "vcs.revision"); rev != "" {
			return shortCommit(rev)
		}
	}

	return devVersionString
}

// getCommitWithFallback returns the ldflags commit or the VCS revision
func getCommitWithFallback() string {
	versionMu.RLock()
	c := commit
	versionMu.RUnlock()
	if c != unknownString && c != "" {
		return c
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if rev := buildSetting(info, "vcs.revision"); rev != "" {
			return shortCommit(rev)
		}
	}

	return unknownString
}

// getBuildDateWithFallback returns the ldflags build date or the VCS commit time
func getBuildDateWithFallback() string {
	versionMu.RLock()
	bd := buildDate
	versionMu.RUnlock()
	if bd != unknownString && bd != "" {
		return bd
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if vcsTime := buildSetting(info, "vcs.time"); vcsTime != "" {
			if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
				return t.Format("2006-01-02_15:04:05_UTC")
			}
			return vcsTime
		}
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return "go-install"
		}
	}

	return unknownString
}

func buildSetting(info *debug.BuildInfo, key string) string {
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}
