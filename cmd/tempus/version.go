package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of tempus",
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "tempus version %s\n", version)
	fmt.Fprintf(cmd.OutOrStdout(), "  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(cmd.OutOrStdout(), "  Go version: %s\n", runtime.Version())
}
