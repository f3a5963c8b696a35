package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Stamped by the release build with -ldflags "-X main.version=...".
var (
	version = ""
	commit  = ""
	date    = ""
)

// unknownBuildValue is shown for a commit or date nobody recorded.
const unknownBuildValue = "unknown"

// buildStamp is what a sitekit binary knows about how it was built.
type buildStamp struct {
	Version string
	Commit  string
	Date    string
}

// currentBuild merges the ldflags values over the module and VCS data the
// toolchain embeds, so "go install" binaries still report something useful.
func currentBuild() buildStamp {
	info, _ := debug.ReadBuildInfo()
	return resolveBuild(buildStamp{Version: version, Commit: commit, Date: date}, info)
}

// resolveBuild fills every empty field of stamped from info.
func resolveBuild(stamped buildStamp, info *debug.BuildInfo) buildStamp {
	b := stamped
	var revision, modified string
	if info != nil {
		if b.Version == "" {
			b.Version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				revision = s.Value
			case "vcs.time":
				if b.Date == "" {
					b.Date = s.Value
				}
			case "vcs.modified":
				modified = s.Value
			}
		}
	}
	if b.Commit == "" && revision != "" {
		b.Commit = shortRevision(revision)
		if modified == "true" {
			b.Commit += "-dirty"
		}
	}
	if b.Version == "" {
		b.Version = "(devel)"
	}
	if b.Commit == "" {
		b.Commit = unknownBuildValue
	}
	if b.Date == "" {
		b.Date = unknownBuildValue
	}
	return b
}

// shortRevision keeps the first seven characters of a git hash.
func shortRevision(rev string) string {
	const n = 7
	if len(rev) > n {
		return rev[:n]
	}
	return rev
}

func getVersion() string { return currentBuild().Version }

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show which sitekit build is running",
		Long:  `Show the sitekit release, the git commit it was built from and when.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			b := currentBuild()
			fmt.Fprintf(cmd.OutOrStdout(), "sitekit %s (commit %s, built %s)\n", b.Version, b.Commit, b.Date)
		},
	}
}
