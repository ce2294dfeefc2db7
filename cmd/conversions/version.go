package main

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the conversions version and build details",
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		info, _ := debug.ReadBuildInfo()
		printVersion(cmd.OutOrStdout(), version, info, verbose)
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "also print the Go version and VCS revision")
	rootCmd.AddCommand(versionCmd)
}

func printVersion(w io.Writer, v string, info *debug.BuildInfo, verbose bool) {
	fmt.Fprintf(w, "conversions %s\n", v)
	if !verbose || info == nil {
		return
	}
	fmt.Fprintf(w, "go:       %s\n", info.GoVersion)
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			fmt.Fprintf(w, "revision: %s\n", s.Value)
		case "vcs.modified":
			if s.Value == "true" {
				fmt.Fprintln(w, "modified: yes")
			}
		}
	}
}
