package main

import (
	"os"

	setlab "github.com/johann/setlab"
	"github.com/johann/setlab/internal/server"
)

func init() {
	// Set embedded files for the server
	server.SetEmbeddedFiles(setlab.Web)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
