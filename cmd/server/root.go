package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "setlab-server",
	Short: "Set operations server",
	Long:  "setlab-server serves a web page and JSON API for power sets and set equality.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
