package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags "-X main.version=...".
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildInfo describes the running binary.
type buildInfo struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
	Modified  bool
}

// currentBuild reports how this binary was built.
func currentBuild() buildInfo {
	info, _ := debug.ReadBuildInfo()
	return resolveBuild(info)
}

// resolveBuild merges ldflags values over the module build info. Missing
// fields become "(devel)" for the version and "unknown" otherwise.
func resolveBuild(info *debug.BuildInfo) buildInfo {
	b := buildInfo{Version: version, Commit: commit, Date: date}

	if info != nil {
		b.GoVersion = info.GoVersion
		if b.Version == "" && info.Main.Version != "" {
			b.Version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if b.Commit == "" {
					b.Commit = shortRevision(s.Value)
				}
			case "vcs.time":
				if b.Date == "" {
					b.Date = s.Value
				}
			case "vcs.modified":
				b.Modified = s.Value == "true"
			}
		}
	}

	if b.Version == "" {
		b.Version = "(devel)"
	}
	if b.Commit == "" {
		b.Commit = "unknown"
	}
	if b.Date == "" {
		b.Date = "unknown"
	}
	if b.GoVersion == "" {
		b.GoVersion = "unknown"
	}
	return b
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit, build date and Go toolchain of chancrawl.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			b := currentBuild()
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, b.Version)
				return
			}

			commit := b.Commit
			if b.Modified {
				commit += " (modified)"
			}
			fmt.Fprintf(out, "chancrawl version %s\n", b.Version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", b.Date)
			fmt.Fprintf(out, "  go:     %s\n", b.GoVersion)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version")
	return cmd
}
