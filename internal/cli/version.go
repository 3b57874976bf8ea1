package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Build information, set via ldflags:
//
//	-X neonpm/internal/cli.Version=v1.0.0 -X neonpm/internal/cli.Commit=abc123
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildInfo is the version payload.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// GetBuildInfo returns the build information, falling back to the VCS
// stamp embedded by the Go toolchain when no commit was set.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{Version: Version, Commit: Commit, BuildTime: BuildTime, GoVersion: runtime.Version()}
	if info.Commit != "unknown" {
		return info
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Commit = s.Value
			case "vcs.time":
				if info.BuildTime == "unknown" {
					info.BuildTime = s.Value
				}
			}
		}
	}
	return info
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("neonpm %s (%s) built at %s with %s", b.Version, b.Commit, b.BuildTime, b.GoVersion)
}

// NewVersionCommand creates the version command.
func NewVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			if opts.Format == "json" {
				return out.Success(GetBuildInfo())
			}
			return out.Success(message(GetBuildInfo().String()))
		},
	}
}
