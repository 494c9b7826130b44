package main

import (
	"fmt"

	"github.com/johann/setlab/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		fmt.Fprintf(cmd.OutOrStdout(), "setlab-server %s (commit %s, built %s, %s)\n",
			info.Version, info.Commit, info.BuildTime, info.GoVersion)
	},
}
