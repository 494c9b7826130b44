package main

import (
	"context"
	"fmt"
	"time"

	"github.com/johann/setlab/internal/client"
	"github.com/johann/setlab/internal/config"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login [server-url]",
	Short: "Point the client at a server",
	Long:  "Verify that a setlab-server is reachable and remember its URL.",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	serverURL := args[0]

	cfg, err := config.LoadClient()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ServerURL = serverURL

	c, err := client.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	if err := c.Health(ctx); err != nil {
		return fmt.Errorf("server %s is not reachable: %w", serverURL, err)
	}

	if err := config.SaveClient(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s\n", serverURL)
	return nil
}
