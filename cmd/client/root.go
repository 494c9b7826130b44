package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "setlab",
	Short: "Set operations client",
	Long:  "setlab computes power sets and checks set equality, remotely against a setlab-server or locally.",
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(powersetCmd)
	rootCmd.AddCommand(checkCmd)
}
