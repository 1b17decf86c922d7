package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		rev := commit
		if rev == "" {
			if info, ok := debug.ReadBuildInfo(); ok {
				for _, s := range info.Settings {
					if s.Key == "vcs.revision" {
						rev = s.Value
					}
				}
			}
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "outline %s\n", version)
		fmt.Fprintf(w, "  Go:     %s\n", runtime.Version())
		if rev != "" {
			fmt.Fprintf(w, "  Commit: %s\n", rev)
		}
	},
}
