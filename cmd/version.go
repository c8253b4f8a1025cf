package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version information (injected at build time via -ldflags)
// These default values indicate a development build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type buildVersion struct {
	Version, Commit, Date string
}

// resolveVersion fills ldflags defaults from the embedded build info, which
// `go install module@version` populates.
func resolveVersion(info *debug.BuildInfo, ok bool) buildVersion {
	v := buildVersion{Version: Version, Commit: GitCommit, Date: BuildDate}
	if !ok || info == nil {
		return v
	}
	if v.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && v.Commit == "unknown":
			v.Commit = s.Value
		case s.Key == "vcs.time" && v.Date == "unknown":
			v.Date = s.Value
		}
	}
	return v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Display detailed version information for NETRA-X",
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		out := cmd.OutOrStdout()
		v := resolveVersion(debug.ReadBuildInfo())

		if !verbose {
			fmt.Fprintf(out, "NETRA-X version %s\n", v.Version)
			return
		}
		fmt.Fprintf(out, `NETRA-X Version Information:
  Version:    %s
  Git Commit: %s
  Build Date: %s
  Go Version: %s
  OS/Arch:    %s/%s
`, v.Version, v.Commit, v.Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
}
